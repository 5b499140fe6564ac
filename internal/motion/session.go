package motion

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Session coordinates the two per-hand trackers under one clock and merges
// their transitions into a single ordered event log. It is synchronous and
// call-driven: ProcessFrame must not be invoked concurrently.
type Session struct {
	cfg   Config
	left  *Tracker
	right *Tracker

	start   time.Time
	events  []MotionEvent
	nextID  int64
	ordinal int
}

// NewSession creates a session with the given tracker configuration and
// start instant. The configuration is validated once here; per-frame
// processing has no failure modes.
func NewSession(cfg Config, now time.Time) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		cfg:    cfg,
		left:   NewTracker(HandLeft, cfg),
		right:  NewTracker(HandRight, cfg),
		start:  now,
		nextID: 1,
	}, nil
}

// ProcessFrame drives both trackers with the same timestamp. A nil landmark
// slice means that hand was not detected this frame. It returns the events
// emitted this frame (already appended to the log) and the per-hand
// readouts, nil for an absent hand.
//
// When both hands emit in the same frame the left-hand event precedes the
// right-hand event, regardless of which hand started moving first within
// the frame. The tie-break is arbitrary but fixed.
func (s *Session) ProcessFrame(ts time.Time, left, right []detector.Point3D) ([]MotionEvent, *Readout, *Readout) {
	var events []MotionEvent

	leftReadout, leftTr := s.left.Process(ts, left)
	if leftTr != nil {
		events = append(events, s.record(HandLeft, leftTr))
	}

	rightReadout, rightTr := s.right.Process(ts, right)
	if rightTr != nil {
		events = append(events, s.record(HandRight, rightTr))
	}

	return events, leftReadout, rightReadout
}

// record assigns the sequence id (and, for starts, the shared motion
// ordinal) and appends the event to the log.
func (s *Session) record(hand Hand, tr *Transition) MotionEvent {
	ev := MotionEvent{
		ID:      s.nextID,
		Hand:    hand,
		Kind:    tr.Kind,
		Elapsed: tr.Time.Sub(s.start),
	}
	s.nextID++

	switch tr.Kind {
	case EventStart:
		s.ordinal++
		ev.Ordinal = s.ordinal
	case EventStop:
		ev.Duration = tr.Duration
		ev.Distance = tr.Distance
	}

	s.events = append(s.events, ev)
	return ev
}

// Reset reinitializes both trackers, clears the event log and counters, and
// stamps a new session origin. Timestamps of subsequently emitted events are
// measured against the new origin.
func (s *Session) Reset(now time.Time) {
	s.left.Reset()
	s.right.Reset()
	s.start = now
	s.events = nil
	s.nextID = 1
	s.ordinal = 0
}

// Events returns a snapshot copy of the full event log in emission order.
func (s *Session) Events() []MotionEvent {
	out := make([]MotionEvent, len(s.events))
	copy(out, s.events)
	return out
}

// StartTime returns the session origin all event offsets are measured from.
func (s *Session) StartTime() time.Time {
	return s.start
}

// Config returns the tracker configuration the session was created with.
func (s *Session) Config() Config {
	return s.cfg
}

// Moving reports whether the given hand is currently inside a motion run.
func (s *Session) Moving(hand Hand) bool {
	if hand == HandRight {
		return s.right.State() == StateMoving
	}
	return s.left.State() == StateMoving
}

// Summary aggregates the event log into per-hand and combined totals.
type Summary struct {
	Motions       int           `json:"motions"`
	LeftMotions   int           `json:"left_motions"`
	RightMotions  int           `json:"right_motions"`
	TotalDistance float64       `json:"total_distance"`
	TotalDuration time.Duration `json:"total_duration"`
	LongestRun    time.Duration `json:"longest_run"`
}

// Summary computes aggregate statistics over the completed runs in the log.
// Starts without a matching stop count toward Motions but contribute no
// distance or duration.
func (s *Session) Summary() Summary {
	var sum Summary
	for _, ev := range s.events {
		switch ev.Kind {
		case EventStart:
			sum.Motions++
			if ev.Hand == HandLeft {
				sum.LeftMotions++
			} else {
				sum.RightMotions++
			}
		case EventStop:
			sum.TotalDistance += ev.Distance
			sum.TotalDuration += ev.Duration
			if ev.Duration > sum.LongestRun {
				sum.LongestRun = ev.Duration
			}
		}
	}
	return sum
}
