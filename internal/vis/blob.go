package vis

import (
	"math"
	"math/rand"
	"time"
)

// BlobConfig holds every tunable of the blob animation channels.
// All values are injected so multiple independently configured blobs
// can coexist (and tests can pick fast decay rates).
type BlobConfig struct {
	BreathingRate      float64 // rad/s, idle pulsation speed
	BreathingAmplitude float64 // fraction of nominal radius

	ClickBoostPeak  float64 // value set on click
	ClickBoostDecay float64 // per-second exponential decay rate
	ClickHeatPeak   float64
	ClickHeatDecay  float64 // distinct from boost decay

	PressureRise  float64 // per-second approach rate while held
	PressureRelax float64 // per-second approach rate after release

	RippleSpeed float64 // rad/s phase advance while a ripple is live
	RippleDecay float64 // per-second exponential decay of intensity

	NoiseLobes int     // number of per-lobe deformation offsets
	NoiseStep  float64 // random-walk step rate per second
	NoiseMax   float64 // per-lobe bound, fraction of nominal radius

	ClickWindow time.Duration // retention for clicks-per-minute history

	BaseColor  string
	HotColor   string
	BaseStroke string
	HotStroke  string
}

// DefaultBlobConfig returns animation tuning that satisfies the
// qualitative contracts: snappy click response, visible idle breathing,
// silhouette deformation well short of shape inversion.
func DefaultBlobConfig() BlobConfig {
	return BlobConfig{
		BreathingRate:      1.6,
		BreathingAmplitude: 0.04,
		ClickBoostPeak:     1.0,
		ClickBoostDecay:    3.0,
		ClickHeatPeak:      1.0,
		ClickHeatDecay:     1.2,
		PressureRise:       10.0,
		PressureRelax:      4.0,
		RippleSpeed:        8.0,
		RippleDecay:        2.5,
		NoiseLobes:         12,
		NoiseStep:          0.35,
		NoiseMax:           0.12,
		ClickWindow:        60 * time.Second,
		BaseColor:          "#27ae60",
		HotColor:           "#e67e22",
		BaseStroke:         "#1e8449",
		HotStroke:          "#ca6f1e",
	}
}

// BlobAnimationState is the per-blob continuous state, owned by exactly
// one BlobAnimationStateMachine and mutated only from that machine's
// tick and click handlers. One state is created per blob at mount and
// never serialized or shared.
type BlobAnimationState struct {
	BreathingPhase  float64 // unbounded accumulator
	ClickBoost      float64 // decays toward zero
	ClickHeat       float64 // decays toward zero, slower than boost
	Pressure        float64 // rises while held, relaxes on release
	NoiseSamples    []float64
	LastClickTime   time.Time
	RecentClicks    []time.Time
	RipplePhase     float64
	RippleIntensity float64
}

// BlobAnimationStateMachine evolves the blob's continuous visual
// channels. The "state machine" character comes from the distinct
// impulse/decay dynamics per channel, not discrete modes.
type BlobAnimationStateMachine struct {
	cfg     BlobConfig
	state   BlobAnimationState
	rng     *rand.Rand
	clock   Clock
	pressed bool
}

// NewBlobStateMachine creates a machine with zeroed channels and the
// configured number of noise lobes.
func NewBlobStateMachine(cfg BlobConfig, rng *rand.Rand, clock Clock) *BlobAnimationStateMachine {
	if cfg.NoiseLobes <= 0 {
		cfg.NoiseLobes = DefaultBlobConfig().NoiseLobes
	}
	if clock == nil {
		clock = RealClock()
	}
	return &BlobAnimationStateMachine{
		cfg:   cfg,
		rng:   rng,
		clock: clock,
		state: BlobAnimationState{
			NoiseSamples: make([]float64, cfg.NoiseLobes),
		},
	}
}

// Tick advances every channel by deltaTime seconds. Called once per
// frame whether or not a click occurred.
func (b *BlobAnimationStateMachine) Tick(deltaTime float64) {
	st := &b.state

	st.BreathingPhase += b.cfg.BreathingRate * deltaTime

	st.ClickBoost *= math.Exp(-b.cfg.ClickBoostDecay * deltaTime)
	st.ClickHeat *= math.Exp(-b.cfg.ClickHeatDecay * deltaTime)
	st.RippleIntensity *= math.Exp(-b.cfg.RippleDecay * deltaTime)

	if st.RippleIntensity > 0.001 {
		st.RipplePhase += b.cfg.RippleSpeed * deltaTime
	} else {
		st.RippleIntensity = 0
		st.RipplePhase = 0
	}

	// Pressure approaches 1 while held and 0 after release; the rate
	// factor is clamped so large deltas cannot overshoot.
	target, rate := 0.0, b.cfg.PressureRelax
	if b.pressed {
		target, rate = 1.0, b.cfg.PressureRise
	}
	step := rate * deltaTime
	if step > 1 {
		step = 1
	}
	st.Pressure += (target - st.Pressure) * step

	// Bounded random walk per lobe keeps the silhouette alive without
	// discontinuity.
	for i := range st.NoiseSamples {
		st.NoiseSamples[i] += (b.rng.Float64()*2 - 1) * b.cfg.NoiseStep * deltaTime
		if st.NoiseSamples[i] > b.cfg.NoiseMax {
			st.NoiseSamples[i] = b.cfg.NoiseMax
		} else if st.NoiseSamples[i] < -b.cfg.NoiseMax {
			st.NoiseSamples[i] = -b.cfg.NoiseMax
		}
	}

	b.trimClicks(b.clock.Now())
}

// ClickDown injects a press at the given screen coordinates: boost and
// heat jump to their peaks, the ripple restarts at full intensity, and
// the click timestamp enters the bounded history window.
func (b *BlobAnimationStateMachine) ClickDown(x, y float64) {
	now := b.clock.Now()
	st := &b.state

	st.ClickBoost = b.cfg.ClickBoostPeak
	st.ClickHeat = b.cfg.ClickHeatPeak
	st.RipplePhase = 0
	st.RippleIntensity = 1.0
	st.LastClickTime = now
	st.RecentClicks = append(st.RecentClicks, now)
	b.trimClicks(now)

	b.pressed = true
	_ = x
	_ = y
}

// ClickUp releases the press; Pressure relaxes on subsequent ticks.
func (b *BlobAnimationStateMachine) ClickUp() {
	b.pressed = false
}

// trimClicks drops history older than the retention window.
func (b *BlobAnimationStateMachine) trimClicks(now time.Time) {
	cutoff := now.Add(-b.cfg.ClickWindow)
	clicks := b.state.RecentClicks
	keep := 0
	for _, t := range clicks {
		if t.After(cutoff) {
			clicks[keep] = t
			keep++
		}
	}
	b.state.RecentClicks = clicks[:keep]
}

// ClicksPerMinute derives the click rate from the retained history,
// normalized to a one-minute window. Read-only: trimming happens on
// tick and click, so this is safe under a read lock.
func (b *BlobAnimationStateMachine) ClicksPerMinute() float64 {
	if b.cfg.ClickWindow <= 0 {
		return 0
	}
	cutoff := b.clock.Now().Add(-b.cfg.ClickWindow)
	recent := 0
	for _, t := range b.state.RecentClicks {
		if t.After(cutoff) {
			recent++
		}
	}
	return float64(recent) * float64(time.Minute) / float64(b.cfg.ClickWindow)
}

// State returns a copy of the current animation state. The noise slice
// is copied so callers cannot alias the machine's internal buffer.
func (b *BlobAnimationStateMachine) State() BlobAnimationState {
	st := b.state
	st.NoiseSamples = append([]float64(nil), b.state.NoiseSamples...)
	st.RecentClicks = append([]time.Time(nil), b.state.RecentClicks...)
	return st
}

// heatFraction is the blend factor toward the hot color: proportional
// to current heat, saturating at the configured peak.
func (b *BlobAnimationStateMachine) heatFraction() float64 {
	if b.cfg.ClickHeatPeak <= 0 {
		return 0
	}
	return b.state.ClickHeat / b.cfg.ClickHeatPeak
}

// FillColor returns the base color blended toward the hot color by the
// current click heat.
func (b *BlobAnimationStateMachine) FillColor() string {
	return BlendHex(b.cfg.BaseColor, b.cfg.HotColor, b.heatFraction())
}

// StrokeColor returns the heat-blended outline color.
func (b *BlobAnimationStateMachine) StrokeColor() string {
	return BlendHex(b.cfg.BaseStroke, b.cfg.HotStroke, b.heatFraction())
}
