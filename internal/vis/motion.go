package vis

import (
	"math"
	"math/rand"
	"time"
)

// MotionConfig holds movement tuning shared by all entities.
type MotionConfig struct {
	Speed   float64 // base velocity magnitude in px/s
	Padding float64 // spawn radius inset in px
}

// DefaultMotionConfig returns movement defaults tuned for a 720p canvas.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		Speed:   18.0,
		Padding: 24.0,
	}
}

// MotionSimulator spawns visual entities around the blob and advances
// them each frame with bounded sinusoidal motion. Randomness comes only
// from the injected source and only at spawn time; Advance is pure.
type MotionSimulator struct {
	cfg MotionConfig
	rng *rand.Rand
}

// NewMotionSimulator creates a simulator using the given random source.
func NewMotionSimulator(cfg MotionConfig, rng *rand.Rand) *MotionSimulator {
	return &MotionSimulator{cfg: cfg, rng: rng}
}

// SpawnRadius returns the available spawn radius for a blob diameter.
// Never negative, even for tiny blobs.
func (m *MotionSimulator) SpawnRadius(diameter float64) float64 {
	r := 0.35*diameter - m.cfg.Padding
	if r < 0 {
		return 0
	}
	return r
}

// SpawnIndividual creates one entity per current-level generator.
// Generators missing from the catalog are silently skipped.
func (m *MotionSimulator) SpawnIndividual(gens []GroupedGenerator, catalog map[string]string, diameter float64, now time.Time) []GeneratorVisualEntity {
	entities := make([]GeneratorVisualEntity, 0, len(gens))
	for _, g := range gens {
		icon, ok := IconForGenerator(catalog, g.ID)
		if !ok {
			continue
		}
		e := GeneratorVisualEntity{
			ID:           g.ID,
			Kind:         KindIndividual,
			Icon:         icon,
			Count:        g.Record.Level,
			TotalEffect:  g.Record.GrowthPerTick * float64(g.Record.Level),
			LevelID:      g.Record.UnlockedAtLevel,
			LastEmission: now, // no immediate emission on spawn
		}
		e.Position, e.Velocity, e.Wave = m.rollSpawn(diameter)
		entities = append(entities, e)
	}
	return entities
}

// SpawnStacked creates one aggregated entity per previous unlock level,
// in first-encounter order. A stack's icon comes from its first
// constituent with a catalog entry; a stack with no resolvable
// constituent is skipped.
func (m *MotionSimulator) SpawnStacked(order []string, stacks map[string][]GroupedGenerator, catalog map[string]string, diameter float64, now time.Time) []GeneratorVisualEntity {
	entities := make([]GeneratorVisualEntity, 0, len(order))
	for _, levelID := range order {
		stack := stacks[levelID]
		icon := ""
		for _, g := range stack {
			if ic, ok := IconForGenerator(catalog, g.ID); ok {
				icon = ic
				break
			}
		}
		if icon == "" {
			continue
		}
		e := GeneratorVisualEntity{
			ID:           "stack:" + levelID,
			Kind:         KindStacked,
			Icon:         icon,
			Count:        StackCount(stack),
			TotalEffect:  StackEffect(stack),
			LevelID:      levelID,
			LastEmission: now,
		}
		e.Position, e.Velocity, e.Wave = m.rollSpawn(diameter)
		entities = append(entities, e)
	}
	return entities
}

// rollSpawn samples the one-time randomization for a new entity.
// Distance is uniform in [0, spawnRadius), NOT area-uniform: the
// resulting center-biased disk distribution is deliberate.
func (m *MotionSimulator) rollSpawn(diameter float64) (Vec2, Vec2, WaveProfile) {
	radius := m.SpawnRadius(diameter)

	angle := m.rng.Float64() * 2 * math.Pi
	dist := m.rng.Float64() * radius
	pos := Vec2{X: math.Cos(angle) * dist, Y: math.Sin(angle) * dist}

	wave := WaveProfile{
		PhaseOffset:     m.rng.Float64() * 2 * math.Pi,
		FrequencyHz:     1.0 + m.rng.Float64()*2.0,
		AmplitudePx:     50.0 + m.rng.Float64()*150.0,
		SpeedMultiplier: 0.5 + m.rng.Float64()*1.5,
	}

	velAngle := m.rng.Float64() * 2 * math.Pi
	speed := m.cfg.Speed * wave.SpeedMultiplier
	vel := Vec2{X: math.Cos(velAngle) * speed, Y: math.Sin(velAngle) * speed}

	return pos, vel, wave
}

// AdvanceEntity moves one entity given total elapsed time and the delta
// since the last tick, both in seconds. The 0.7 frequency ratio and 0.8
// amplitude ratio on the Y axis produce non-circular orbits and must
// not change. No clamping or wrapping: entities drift freely.
func AdvanceEntity(e GeneratorVisualEntity, elapsed, deltaTime float64) GeneratorVisualEntity {
	waveTime := elapsed*e.Wave.FrequencyHz + e.Wave.PhaseOffset
	waveX := math.Sin(waveTime) * e.Wave.AmplitudePx
	waveY := math.Cos(waveTime*0.7) * e.Wave.AmplitudePx * 0.8

	e.Position.X += e.Velocity.X*deltaTime + waveX*deltaTime
	e.Position.Y += e.Velocity.Y*deltaTime + waveY*deltaTime
	return e
}

// AdvanceAll applies AdvanceEntity to every entity, returning new values.
func AdvanceAll(entities []GeneratorVisualEntity, elapsed, deltaTime float64) []GeneratorVisualEntity {
	out := make([]GeneratorVisualEntity, len(entities))
	for i, e := range entities {
		out[i] = AdvanceEntity(e, elapsed, deltaTime)
	}
	return out
}
