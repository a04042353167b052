package vis

import (
	"sync"
	"testing"
	"time"
)

func newTestEngine(clock Clock) *Engine {
	return NewEngine(EngineConfig{
		TickRate: 30,
		Seed:     42,
		Clock:    clock,
	})
}

var testCatalog = map[string]string{
	"cursor":  "👆 Cursor",
	"grandma": "👵 Grandma",
	"farm":    "🌾 Farm",
}

// TestNewEngineDefaults tests zero-config construction and the initial
// published frame
func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(EngineConfig{})

	snap := e.GetSnapshot()
	if snap == nil {
		t.Fatal("Initial snapshot should never be nil")
	}
	if snap.EntityCount != 0 {
		t.Errorf("Expected empty initial frame, got %d entities", snap.EntityCount)
	}
	if len(snap.Contour) < 4 {
		t.Errorf("Initial frame should carry a contour, got %d points", len(snap.Contour))
	}
	if snap.Contour[0] != snap.Contour[len(snap.Contour)-1] {
		t.Error("Initial contour not closed")
	}
}

// TestSetGeneratorsSpawns tests grouping into individual and stacked
// entities
func TestSetGeneratorsSpawns(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	e := newTestEngine(clock)

	records := map[string]GeneratorRecord{
		"cursor":  {Level: 3, GrowthPerTick: 1.0, UnlockedAtLevel: "L1"},
		"grandma": {Level: 2, GrowthPerTick: 2.0, UnlockedAtLevel: "L1"},
		"farm":    {Level: 1, GrowthPerTick: 5.0, UnlockedAtLevel: "L2"},
	}

	e.SetGenerators(records, testCatalog, "L2", 10.0)

	ents := e.Entities()
	if len(ents) != 2 {
		t.Fatalf("Expected 1 individual + 1 stack, got %d entities", len(ents))
	}

	// The live count reflects the regroup immediately; the published
	// snapshot only catches up on the next tick.
	if e.EntityCount() != 2 {
		t.Errorf("Expected live entity count 2, got %d", e.EntityCount())
	}
	if e.GetSnapshot().EntityCount != 0 {
		t.Errorf("Snapshot should still show the pre-regroup frame, got %d", e.GetSnapshot().EntityCount)
	}

	var individual, stacked *GeneratorVisualEntity
	for i := range ents {
		switch ents[i].Kind {
		case KindIndividual:
			individual = &ents[i]
		case KindStacked:
			stacked = &ents[i]
		}
	}

	if individual == nil || individual.ID != "farm" {
		t.Fatal("Expected 'farm' as the individual entity")
	}
	if stacked == nil || stacked.ID != "stack:L1" {
		t.Fatal("Expected 'stack:L1' as the stacked entity")
	}
	if stacked.Count != 5 || stacked.TotalEffect != 7.0 {
		t.Errorf("Stack aggregation wrong: count %d effect %f", stacked.Count, stacked.TotalEffect)
	}
}

// TestSetGeneratorsPreservesSurvivors tests that a regroup keeps the
// position and wave profile of entities whose identity survives
func TestSetGeneratorsPreservesSurvivors(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	e := newTestEngine(clock)

	records := map[string]GeneratorRecord{
		"farm": {Level: 1, GrowthPerTick: 5.0, UnlockedAtLevel: "L2"},
	}
	e.SetGenerators(records, testCatalog, "L2", 5.0)

	before := e.Entities()[0]

	// Level up the same generator; identity and kind survive
	records["farm"] = GeneratorRecord{Level: 2, GrowthPerTick: 5.0, UnlockedAtLevel: "L2"}
	e.SetGenerators(records, testCatalog, "L2", 10.0)

	after := e.Entities()[0]
	if after.Position != before.Position {
		t.Error("Surviving entity should keep its position across regroup")
	}
	if after.Wave != before.Wave {
		t.Error("Surviving entity should keep its wave profile across regroup")
	}
	if after.Count != 2 {
		t.Errorf("Survivor should carry the new level, got count %d", after.Count)
	}
}

// TestTickAdvancesEntities tests that ticking moves entities and bumps
// the snapshot sequence
func TestTickAdvancesEntities(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	e := newTestEngine(clock)

	records := map[string]GeneratorRecord{
		"cursor": {Level: 1, GrowthPerTick: 1.0, UnlockedAtLevel: "L1"},
	}
	e.SetGenerators(records, testCatalog, "L1", 1.0)

	before := e.Entities()[0].Position
	seqBefore := e.GetSnapshot().Sequence

	clock.Advance(time.Second / 30)
	e.Tick()

	after := e.Entities()[0].Position
	if after == before {
		t.Error("Entity should move after a tick")
	}
	if e.GetSnapshot().Sequence <= seqBefore {
		t.Error("Snapshot sequence should advance after a tick")
	}
	if e.GetSnapshot().EntityCount != 1 {
		t.Errorf("Snapshot should carry 1 entity, got %d", e.GetSnapshot().EntityCount)
	}
}

// TestTickEmitsCallouts tests that callouts appear in the snapshot once
// the per-entity window elapses
func TestTickEmitsCallouts(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	e := newTestEngine(clock)

	records := map[string]GeneratorRecord{
		"cursor": {Level: 2, GrowthPerTick: 1.5, UnlockedAtLevel: "L1"},
	}
	e.SetGenerators(records, testCatalog, "L1", 3.0)

	// First tick right after spawn: window not elapsed, no callout
	clock.Advance(time.Second / 30)
	e.Tick()
	if n := len(e.GetSnapshot().Callouts); n != 0 {
		t.Fatalf("Expected no callouts before window, got %d", n)
	}

	// Advance past the emission window
	clock.Advance(EmissionInterval)
	e.Tick()
	callouts := e.GetSnapshot().Callouts
	if len(callouts) != 1 {
		t.Fatalf("Expected 1 callout after window, got %d", len(callouts))
	}
	if callouts[0].Value != 3.0 {
		t.Errorf("Callout value should be totalEffect 3.0, got %f", callouts[0].Value)
	}

	// Immediately after, the window restarts
	clock.Advance(time.Second / 30)
	e.Tick()
	if n := len(e.GetSnapshot().Callouts); n != 0 {
		t.Fatalf("Expected throttle to suppress repeat callout, got %d", n)
	}
}

// TestClickFlowsIntoSnapshot tests click injection through the engine
func TestClickFlowsIntoSnapshot(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	e := newTestEngine(clock)

	e.ClickDown(640, 360)
	clock.Advance(time.Second / 30)
	e.Tick()

	snap := e.GetSnapshot()
	if snap.ClickBoost <= 0 {
		t.Error("Click boost should be live in the frame after a click")
	}
	if snap.ClickHeat <= 0 {
		t.Error("Click heat should be live in the frame after a click")
	}
	if snap.RippleIntensity <= 0 {
		t.Error("Ripple should be live in the frame after a click")
	}
	if snap.ClicksPerMinute <= 0 {
		t.Error("Click rate should reflect the click")
	}

	e.ClickUp()
	// Pressure relaxes over subsequent frames
	for i := 0; i < 60; i++ {
		clock.Advance(time.Second / 30)
		e.Tick()
	}
	if p := e.GetSnapshot().Pressure; p > 0.1 {
		t.Errorf("Pressure should relax after release, got %f", p)
	}
}

// TestEngineStartStop tests the frame loop lifecycle
func TestEngineStartStop(t *testing.T) {
	e := NewEngine(EngineConfig{TickRate: 120, Seed: 1})

	e.Start()
	time.Sleep(50 * time.Millisecond)
	e.Stop()

	stats := e.Stats()
	if stats["tickCount"].(int64) == 0 {
		t.Error("Engine should have ticked while running")
	}

	// Second stop is a no-op, not a panic
	e.Stop()
}

// TestEngineConcurrentAccess tests snapshot reads racing with ticks and
// state pushes
func TestEngineConcurrentAccess(t *testing.T) {
	e := NewEngine(EngineConfig{TickRate: 30, Seed: 7})

	records := map[string]GeneratorRecord{
		"cursor": {Level: 1, GrowthPerTick: 1.0, UnlockedAtLevel: "L1"},
	}
	e.SetGenerators(records, testCatalog, "L1", 1.0)

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			e.Tick()
		}
		close(done)
	}()

	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					snap := e.GetSnapshot()
					if snap == nil {
						t.Error("GetSnapshot returned nil under concurrency")
						return
					}
					e.ClickDown(1, 1)
					e.ClickUp()
				}
			}
		}()
	}

	wg.Wait()
}

// TestSnapshotEntityCap tests that the per-frame entity limit holds
func TestSnapshotEntityCap(t *testing.T) {
	clock := NewManualClock(time.Unix(1000, 0))
	e := NewEngine(EngineConfig{
		TickRate: 30,
		Seed:     3,
		Clock:    clock,
		Limits:   Limits{MaxEntities: 2, MaxCallouts: 1, ContourSamples: 16},
	})

	records := map[string]GeneratorRecord{
		"cursor":  {Level: 1, GrowthPerTick: 1, UnlockedAtLevel: "L1"},
		"grandma": {Level: 1, GrowthPerTick: 1, UnlockedAtLevel: "L1"},
		"farm":    {Level: 1, GrowthPerTick: 1, UnlockedAtLevel: "L1"},
	}
	e.SetGenerators(records, testCatalog, "L1", 3.0)

	clock.Advance(time.Second / 30)
	e.Tick()

	snap := e.GetSnapshot()
	if len(snap.Entities) > 2 {
		t.Errorf("Entity cap exceeded: %d rendered", len(snap.Entities))
	}
	// EntityCount still reports the true simulation size
	if snap.EntityCount != 3 {
		t.Errorf("EntityCount should report simulation size 3, got %d", snap.EntityCount)
	}
}

// TestEngineDeterministicSeed tests that two engines with the same seed
// and clock produce identical entity layouts
func TestEngineDeterministicSeed(t *testing.T) {
	records := map[string]GeneratorRecord{
		"cursor":  {Level: 2, GrowthPerTick: 1, UnlockedAtLevel: "L1"},
		"grandma": {Level: 1, GrowthPerTick: 2, UnlockedAtLevel: "L1"},
	}

	run := func() []GeneratorVisualEntity {
		clock := NewManualClock(time.Unix(1000, 0))
		e := NewEngine(EngineConfig{TickRate: 30, Seed: 99, Clock: clock})
		e.SetGenerators(records, testCatalog, "L1", 4.0)
		for i := 0; i < 10; i++ {
			clock.Advance(time.Second / 30)
			e.Tick()
		}
		return e.Entities()
	}

	a := run()
	b := run()

	if len(a) != len(b) {
		t.Fatalf("Entity counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Position != b[i].Position {
			t.Errorf("Entity %d position diverged: %v vs %v", i, a[i].Position, b[i].Position)
		}
	}
}
