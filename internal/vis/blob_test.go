package vis

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func newTestBlob(clock Clock) *BlobAnimationStateMachine {
	return NewBlobStateMachine(DefaultBlobConfig(), rand.New(rand.NewSource(1)), clock)
}

// TestClickImpulse tests that a click sets boost and heat to their peaks
// and restarts the ripple
func TestClickImpulse(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	b := newTestBlob(clock)

	b.ClickDown(100, 100)
	st := b.State()

	cfg := DefaultBlobConfig()
	if st.ClickBoost != cfg.ClickBoostPeak {
		t.Errorf("Expected boost at peak %f, got %f", cfg.ClickBoostPeak, st.ClickBoost)
	}
	if st.ClickHeat != cfg.ClickHeatPeak {
		t.Errorf("Expected heat at peak %f, got %f", cfg.ClickHeatPeak, st.ClickHeat)
	}
	if st.RippleIntensity != 1.0 {
		t.Errorf("Expected ripple intensity 1.0, got %f", st.RippleIntensity)
	}
	if st.RipplePhase != 0 {
		t.Errorf("Expected ripple phase reset, got %f", st.RipplePhase)
	}
}

// TestDecayRates tests that boost decays faster than heat
func TestDecayRates(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	b := newTestBlob(clock)

	b.ClickDown(0, 0)
	b.ClickUp()

	// One second of frames
	for i := 0; i < 30; i++ {
		clock.Advance(time.Second / 30)
		b.Tick(1.0 / 30.0)
	}

	st := b.State()
	if st.ClickBoost >= st.ClickHeat {
		t.Errorf("Boost (%f) should decay below heat (%f) after 1s", st.ClickBoost, st.ClickHeat)
	}
	if st.ClickBoost <= 0 || st.ClickHeat <= 0 {
		t.Error("Exponential decay should never reach zero exactly")
	}

	// Verify against closed-form decay for the boost channel
	cfg := DefaultBlobConfig()
	want := cfg.ClickBoostPeak * math.Exp(-cfg.ClickBoostDecay*1.0)
	if math.Abs(st.ClickBoost-want) > 0.01 {
		t.Errorf("Boost after 1s = %f, want ~%f", st.ClickBoost, want)
	}
}

// TestPressureRiseAndRelax tests the held/released pressure targets
func TestPressureRiseAndRelax(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	b := newTestBlob(clock)

	b.ClickDown(0, 0)
	for i := 0; i < 30; i++ {
		b.Tick(1.0 / 30.0)
	}
	held := b.State().Pressure
	if held < 0.9 {
		t.Errorf("Pressure after 1s held should approach 1, got %f", held)
	}
	if held > 1.0 {
		t.Errorf("Pressure must never overshoot 1, got %f", held)
	}

	b.ClickUp()
	for i := 0; i < 60; i++ {
		b.Tick(1.0 / 30.0)
	}
	released := b.State().Pressure
	if released > 0.05 {
		t.Errorf("Pressure after 2s released should approach 0, got %f", released)
	}
	if released < 0 {
		t.Errorf("Pressure must never undershoot 0, got %f", released)
	}
}

// TestRippleLifecycle tests phase advance while live and reset when spent
func TestRippleLifecycle(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	b := newTestBlob(clock)

	b.ClickDown(0, 0)
	b.Tick(1.0 / 30.0)

	st := b.State()
	if st.RipplePhase <= 0 {
		t.Error("Ripple phase should advance while intensity is live")
	}

	// Let the ripple burn out
	for i := 0; i < 300; i++ {
		b.Tick(1.0 / 30.0)
	}
	st = b.State()
	if st.RippleIntensity != 0 || st.RipplePhase != 0 {
		t.Errorf("Spent ripple should reset, got intensity %f phase %f", st.RippleIntensity, st.RipplePhase)
	}
}

// TestNoiseBounded tests the per-lobe random walk stays within bounds
func TestNoiseBounded(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	b := newTestBlob(clock)
	cfg := DefaultBlobConfig()

	for i := 0; i < 3000; i++ {
		b.Tick(1.0 / 30.0)
		for _, s := range b.State().NoiseSamples {
			if s > cfg.NoiseMax || s < -cfg.NoiseMax {
				t.Fatalf("Noise sample out of bounds: %f", s)
			}
		}
	}
}

// TestClicksPerMinute tests window-normalized click rate
func TestClicksPerMinute(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	b := newTestBlob(clock)

	for i := 0; i < 12; i++ {
		b.ClickDown(0, 0)
		b.ClickUp()
		clock.Advance(time.Second)
	}

	// 12 clicks within the 60s window
	cpm := b.ClicksPerMinute()
	if cpm != 12 {
		t.Errorf("Expected 12 clicks per minute, got %f", cpm)
	}

	// Advance past the window; history expires
	clock.Advance(61 * time.Second)
	b.Tick(1.0 / 30.0)
	if cpm := b.ClicksPerMinute(); cpm != 0 {
		t.Errorf("Expected expired history to yield 0, got %f", cpm)
	}
}

// TestHeatColorBlend tests that fill color moves toward the hot color
// with heat and returns to base as it decays
func TestHeatColorBlend(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	b := newTestBlob(clock)
	cfg := DefaultBlobConfig()

	if b.FillColor() != cfg.BaseColor {
		t.Errorf("Cold blob should use base color, got %s", b.FillColor())
	}

	b.ClickDown(0, 0)
	if b.FillColor() != cfg.HotColor {
		t.Errorf("Peak heat should use hot color, got %s", b.FillColor())
	}

	// Long decay brings it back near base
	for i := 0; i < 600; i++ {
		b.Tick(1.0 / 30.0)
	}
	if b.FillColor() != cfg.BaseColor {
		t.Errorf("Decayed blob should return to base color, got %s", b.FillColor())
	}
}

// TestBreathingAccumulates tests the phase accumulator
func TestBreathingAccumulates(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	b := newTestBlob(clock)

	for i := 0; i < 30; i++ {
		b.Tick(1.0 / 30.0)
	}

	want := DefaultBlobConfig().BreathingRate * 1.0
	if got := b.State().BreathingPhase; math.Abs(got-want) > 1e-9 {
		t.Errorf("Breathing phase after 1s = %f, want %f", got, want)
	}
}
