package vis

import "time"

// EmissionInterval is the per-entity throttle window. An entity never
// produces more than one callout per completed window, measured from its
// own last emission rather than a global clock.
const EmissionInterval = 1000 * time.Millisecond

// FloatingNumberEvent is an ephemeral numeric callout. It is produced,
// handed to the render layer, then discarded; never stored.
type FloatingNumberEvent struct {
	X     float64 `json:"x"` // absolute screen position
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
	Icon  string  `json:"icon,omitempty"`
}

// FloatingNumberEmitter produces throttled callout events for entities.
// Check and Commit are deliberately separate operations: callers inspect
// the event list first, then explicitly commit the new emission
// timestamps for every entity that fired. Both use the same due
// predicate, so calling them with the same `now` within one tick cannot
// double-emit or miss an emission.
type FloatingNumberEmitter struct {
	contribution ContributionConfig
}

// NewFloatingNumberEmitter creates an emitter with the given coloring.
func NewFloatingNumberEmitter(contribution ContributionConfig) *FloatingNumberEmitter {
	return &FloatingNumberEmitter{contribution: contribution}
}

// emissionDue reports whether an entity's throttle window has elapsed.
func emissionDue(e GeneratorVisualEntity, now time.Time) bool {
	return now.Sub(e.LastEmission) >= EmissionInterval
}

// Check returns one event per due entity. The value is the entity's
// totalEffect — the amount produced over the elapsed second — not scaled
// by delta time. Positions are blob-center plus entity-relative offset.
// Empty input yields an empty (nil) slice.
func (f *FloatingNumberEmitter) Check(entities []GeneratorVisualEntity, center Vec2, totalOutput float64, now time.Time) []FloatingNumberEvent {
	var events []FloatingNumberEvent
	for _, e := range entities {
		if !emissionDue(e, now) {
			continue
		}
		tier := f.contribution.Classify(e.TotalEffect, totalOutput)
		events = append(events, FloatingNumberEvent{
			X:     center.X + e.Position.X,
			Y:     center.Y + e.Position.Y,
			Value: e.TotalEffect,
			Color: f.contribution.Color(tier),
			Icon:  e.Icon,
		})
	}
	return events
}

// Commit stamps LastEmission = now on every entity that was due,
// returning new values. Must be called with the same `now` that was
// passed to Check in the same tick.
func (f *FloatingNumberEmitter) Commit(entities []GeneratorVisualEntity, now time.Time) []GeneratorVisualEntity {
	out := make([]GeneratorVisualEntity, len(entities))
	for i, e := range entities {
		if emissionDue(e, now) {
			e.LastEmission = now
		}
		out[i] = e
	}
	return out
}
