package vis

import "sort"

// GeneratorRecord is the read-only game-state input for one generator.
// The surrounding game owns these; the engine never writes them back.
type GeneratorRecord struct {
	Level           int     `json:"level"`
	GrowthPerTick   float64 `json:"growthPerTick"`
	UnlockedAtLevel string  `json:"unlockedAtLevel"`
}

// GroupedGenerator pairs a generator id with its record inside a bucket.
type GroupedGenerator struct {
	ID     string
	Record GeneratorRecord
}

// Grouping is the result of partitioning active generators.
// Current holds generators unlocked at the player's current level, one
// visual entity each. Stacks holds all other active generators bucketed
// by unlock level; StackOrder preserves first-encounter ordering so
// iteration is stable.
type Grouping struct {
	Current    []GroupedGenerator
	StackOrder []string
	Stacks     map[string][]GroupedGenerator
}

// GroupGenerators partitions active generator records for visualization.
// Every record with level > 0 lands in exactly one bucket: the current
// slice when its unlock level matches currentLevel, otherwise the stack
// for its unlock level. Records with level == 0 are excluded entirely.
// Pure function; record ids are visited in sorted order so the result
// is deterministic for a given input map.
func GroupGenerators(records map[string]GeneratorRecord, currentLevel string) Grouping {
	g := Grouping{Stacks: make(map[string][]GroupedGenerator)}

	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		rec := records[id]
		if rec.Level <= 0 {
			continue
		}
		if rec.UnlockedAtLevel == currentLevel {
			g.Current = append(g.Current, GroupedGenerator{ID: id, Record: rec})
			continue
		}
		if _, seen := g.Stacks[rec.UnlockedAtLevel]; !seen {
			g.StackOrder = append(g.StackOrder, rec.UnlockedAtLevel)
		}
		g.Stacks[rec.UnlockedAtLevel] = append(g.Stacks[rec.UnlockedAtLevel], GroupedGenerator{ID: id, Record: rec})
	}

	return g
}

// StackCount sums the levels of a stack's constituents.
func StackCount(stack []GroupedGenerator) int {
	total := 0
	for _, g := range stack {
		total += g.Record.Level
	}
	return total
}

// StackEffect sums growthPerTick × level across a stack's constituents.
func StackEffect(stack []GroupedGenerator) float64 {
	total := 0.0
	for _, g := range stack {
		total += g.Record.GrowthPerTick * float64(g.Record.Level)
	}
	return total
}
