package api

import (
	"testing"
	"time"
)

// TestHubStopTerminatesRun tests that Stop makes Run return
func TestHubStopTerminatesRun(t *testing.T) {
	hub := NewWebSocketHub()

	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	hub.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	if hub.ClientCount() != 0 {
		t.Errorf("Expected no clients after shutdown, got %d", hub.ClientCount())
	}
}

// TestHubStopIdempotent tests that repeated Stop calls are safe
func TestHubStopIdempotent(t *testing.T) {
	hub := NewWebSocketHub()
	go hub.Run()

	hub.Stop()
	hub.Stop()
}

// TestServerStopShutsDownWorkers tests that Server.Stop terminates the
// hub and rate limiter without hanging
func TestServerStopShutsDownWorkers(t *testing.T) {
	server := NewServer(&mockEngine{}, nil)

	// NewServer must not have started workers; Start is never called
	done := make(chan struct{})
	go func() {
		server.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Server.Stop hung")
	}
}
