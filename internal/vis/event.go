package vis

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Tick boundary with RNG seed
	EventTypeClickDown
	EventTypeClickUp
	EventTypeRegroup
	EventTypeCallout
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8     `json:"version"`   // Schema version
	Type      EventType `json:"type"`      // Event type
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence
	TickNum   uint64    `json:"tickNum"`   // Engine tick this occurred in
	SourceID  string    `json:"sourceId"`  // Originating entity (for rate limiting)
	Payload   []byte    `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeClickDown:
		return "click_down"
	case EventTypeClickUp:
		return "click_up"
	case EventTypeRegroup:
		return "regroup"
	case EventTypeCallout:
		return "callout"
	default:
		return "unknown"
	}
}

// Typed payloads for different event types

// TickPayload contains tick boundary information for replay
type TickPayload struct {
	RNGSeed     int64 `json:"rngSeed"`
	EntityCount int   `json:"entityCount"`
	DeltaTimeNs int64 `json:"deltaTimeNs"`
}

// ClickPayload contains click event details
type ClickPayload struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ClickHeat float64 `json:"clickHeat"`
}

// RegroupPayload contains regroup event details
type RegroupPayload struct {
	CurrentLevel string `json:"currentLevel"`
	Individual   int    `json:"individual"`
	Stacked      int    `json:"stacked"`
}

// CalloutPayload contains floating-number emission details
type CalloutPayload struct {
	EntityID string  `json:"entityId"`
	Value    float64 `json:"value"`
	Color    string  `json:"color"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, sourceID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		SourceID:  sourceID,
		Payload:   EncodePayload(payload),
	}
}
