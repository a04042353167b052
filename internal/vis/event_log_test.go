package vis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestEventLogEmit tests basic emission and counting
func TestEventLogEmit(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(""); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer el.Stop()

	ok := el.EmitSimple(EventTypeClickDown, 1, "", ClickPayload{X: 1, Y: 2})
	if !ok {
		t.Fatal("Emit should succeed on a fresh log")
	}

	if el.GetTotalCount() != 1 {
		t.Errorf("Expected total 1, got %d", el.GetTotalCount())
	}
}

// TestEventLogNotRunning tests that emission before Start is dropped
func TestEventLogNotRunning(t *testing.T) {
	el := NewEventLog()

	if el.EmitSimple(EventTypeTick, 1, "", nil) {
		t.Error("Emit before Start should return false")
	}
}

// TestEventLogWritesJSONL tests the async JSONL writer output
func TestEventLogWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	el := NewEventLog()
	if err := el.Start(path); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		el.EmitSimple(EventTypeTick, uint64(i), "", TickPayload{RNGSeed: int64(i)})
	}

	// Stop performs the final flush
	el.Stop()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Errorf("Expected 5 JSONL lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			t.Errorf("Line is not a JSON object: %s", line)
		}
	}
}

// TestEventLogPerSourceLimit tests that one noisy source is throttled
func TestEventLogPerSourceLimit(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(""); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer el.Stop()

	accepted := 0
	for i := 0; i < MaxEventsPerSource*2; i++ {
		if el.EmitSimple(EventTypeCallout, 1, "noisy-entity", nil) {
			accepted++
		}
	}

	if accepted >= MaxEventsPerSource*2 {
		t.Error("Per-source limiter should have dropped part of the burst")
	}
	if el.GetDroppedCount() == 0 {
		t.Error("Dropped count should reflect throttled events")
	}
}

// TestEventLogStats tests the stats map shape
func TestEventLogStats(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(""); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer el.Stop()

	el.EmitSimple(EventTypeRegroup, 3, "", RegroupPayload{CurrentLevel: "L2"})
	time.Sleep(2 * BatchFlushInterval)

	stats := el.GetStats()
	if stats["total"].(uint64) != 1 {
		t.Errorf("Expected total 1, got %v", stats["total"])
	}
	if !stats["running"].(bool) {
		t.Error("Stats should report running")
	}
}
