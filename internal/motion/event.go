package motion

import "time"

// EventKind distinguishes the two edges of a motion run.
type EventKind string

const (
	// EventStart marks the beginning of a motion run.
	EventStart EventKind = "start"
	// EventStop marks the end of a motion run.
	EventStop EventKind = "stop"
)

// MotionEvent is one entry in the session's append-only log. Events are
// immutable once emitted and serialize as plain data for export.
type MotionEvent struct {
	// ID is the session-wide emission sequence number, starting at 1.
	ID int64 `json:"id"`

	// Hand is the slot that produced the event.
	Hand Hand `json:"hand"`

	// Kind is start or stop.
	Kind EventKind `json:"kind"`

	// Elapsed is the offset of the event from the session start.
	Elapsed time.Duration `json:"elapsed"`

	// Ordinal is the session-wide motion number across both hands
	// combined. Set on start events only.
	Ordinal int `json:"ordinal,omitempty"`

	// Duration is the length of the completed run. Set on stop events only.
	Duration time.Duration `json:"duration,omitempty"`

	// Distance is the accumulated raw path length of the completed run.
	// Set on stop events only.
	Distance float64 `json:"distance,omitempty"`
}
