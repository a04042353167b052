package vis

import (
	"strings"
	"time"
)

// DefaultIcon is drawn when a generator's catalog name yields no glyph.
const DefaultIcon = "⚙️"

// EntityKind distinguishes how a visual entity maps to generator records.
type EntityKind uint8

const (
	// KindIndividual represents a single current-level generator.
	KindIndividual EntityKind = iota
	// KindStacked aggregates all generators of one previous unlock level.
	KindStacked
)

// String returns a human-readable kind name.
func (k EntityKind) String() string {
	switch k {
	case KindIndividual:
		return "individual"
	case KindStacked:
		return "stacked"
	default:
		return "unknown"
	}
}

// Vec2 is a 2-D vector. Entity positions are relative to the blob center.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WaveProfile holds the per-entity motion randomization. Each field is
// sampled once at creation and held constant for the entity's lifetime,
// so a trajectory is fully determined by the profile and elapsed time.
type WaveProfile struct {
	PhaseOffset     float64 // radians, [0, 2π)
	FrequencyHz     float64 // [1, 3)
	AmplitudePx     float64 // [50, 200)
	SpeedMultiplier float64 // [0.5, 2.0), folded into velocity at spawn
}

// GeneratorVisualEntity is one animated on-screen token. Entities are
// value types; per-frame updates return new values rather than mutating
// shared state.
type GeneratorVisualEntity struct {
	ID           string
	Kind         EntityKind
	Icon         string
	Position     Vec2
	Velocity     Vec2
	Count        int     // underlying generator units (sum of levels when stacked)
	TotalEffect  float64 // aggregate growth per tick represented by this entity
	LevelID      string  // unlock level this entity belongs to
	LastEmission time.Time
	Wave         WaveProfile
}

// IconForGenerator resolves the display glyph for a generator id.
// The glyph is the first whitespace-delimited token of the catalog name.
// A catalog miss returns ok=false: the caller skips the entity entirely.
// An empty or all-whitespace name falls back to DefaultIcon.
func IconForGenerator(catalog map[string]string, id string) (string, bool) {
	name, ok := catalog[id]
	if !ok {
		return "", false
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return DefaultIcon, true
	}
	return fields[0], true
}
