package motion

import (
	"fmt"
	"math"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// SpeedScale converts normalized screen-plane displacement per frame into
// the magnitudes thresholds are configured against.
const SpeedScale = 100.0

// Hand identifies which of the two session slots a tracker belongs to.
// Mapping a physical hand to a slot is the caller's concern.
type Hand string

const (
	HandLeft  Hand = "left"
	HandRight Hand = "right"
)

// State is the qualitative motion state of one hand.
type State string

const (
	// StateIdle means the hand is considered stationary.
	StateIdle State = "idle"
	// StateMoving means the hand is inside a motion run.
	StateMoving State = "moving"
)

// Config holds the tracker parameters, fixed for the lifetime of a session.
type Config struct {
	// StartThreshold is the smoothed velocity above which a hand is
	// considered to be starting a motion. The stop threshold is derived
	// as half of this value (asymmetric hysteresis).
	StartThreshold float64 `json:"start_threshold"`

	// Smoothing is the sliding-window capacity in frames.
	Smoothing int `json:"smoothing"`

	// Debounce is the number of consecutive qualifying frames required
	// before a state transition is accepted.
	Debounce int `json:"debounce"`
}

// DefaultConfig returns the tracker parameters used when none are persisted.
func DefaultConfig() Config {
	return Config{
		StartThreshold: 0.8,
		Smoothing:      5,
		Debounce:       5,
	}
}

// Validate checks the configuration once, before any frame is processed.
func (c Config) Validate() error {
	if c.StartThreshold <= 0 {
		return fmt.Errorf("start threshold must be positive, got %g", c.StartThreshold)
	}
	if c.Smoothing < 1 {
		return fmt.Errorf("smoothing window must hold at least 1 frame, got %d", c.Smoothing)
	}
	if c.Debounce < 1 {
		return fmt.Errorf("debounce must be at least 1 frame, got %d", c.Debounce)
	}
	return nil
}

// StopThreshold returns the smoothed velocity below which a moving hand is
// considered to be stopping.
func (c Config) StopThreshold() float64 {
	return c.StartThreshold * 0.5
}

// Readout is the continuous per-frame output for one visible hand.
type Readout struct {
	Hand      Hand               `json:"hand"`
	Velocity  float64            `json:"velocity"`
	Moving    bool               `json:"moving"`
	Landmarks []detector.Point3D `json:"landmarks"`
}

// Transition reports a state change detected during one frame. The tracker
// does not assign event ids or ordinals; the session does.
type Transition struct {
	Kind     EventKind
	Time     time.Time
	Duration time.Duration // Stop only
	Distance float64       // Stop only
}

// Tracker is the motion state machine for a single hand. It is not safe for
// concurrent use; the session serializes calls to it.
type Tracker struct {
	hand   Hand
	cfg    Config
	window *Window

	state      State
	lastPos    *detector.Point3D
	startTime  time.Time
	distance   float64
	aboveCount int
	belowCount int
}

// NewTracker creates a tracker for the given hand. The config is assumed to
// have been validated by the session.
func NewTracker(hand Hand, cfg Config) *Tracker {
	return &Tracker{
		hand:   hand,
		cfg:    cfg,
		window: NewWindow(cfg.Smoothing),
		state:  StateIdle,
	}
}

// Process consumes one frame for this hand. A nil or degenerate landmark
// slice (fewer points than the mid-palm index requires) means the hand was
// not detected this frame; that is valid input, not an error.
//
// It returns the per-frame readout (nil when the hand is absent) and a
// transition if one fired this frame (nil otherwise). Absent frames leave
// the last known position untouched but still blend a zero sample into the
// window, so prolonged absence decays the smoothed velocity and lets the
// normal stop hysteresis terminate a run.
func (t *Tracker) Process(ts time.Time, points []detector.Point3D) (*Readout, *Transition) {
	present := len(points) > detector.MiddleMCP

	var speed float64
	if present {
		pos := midpoint(points[detector.Wrist], points[detector.MiddleMCP])
		if t.lastPos != nil {
			dx := pos.X - t.lastPos.X
			dy := pos.Y - t.lastPos.Y
			speed = math.Sqrt(dx*dx+dy*dy) * SpeedScale
		}
		t.lastPos = &pos
	}

	t.window.Push(speed)
	smoothed := t.window.Average()

	var transition *Transition
	switch t.state {
	case StateIdle:
		// A part-full window overweights the first few samples, so
		// threshold comparisons begin once the window has filled.
		if t.window.Len() == t.window.Cap() && smoothed > t.cfg.StartThreshold {
			t.aboveCount++
		} else {
			t.aboveCount = 0
		}

		if t.aboveCount >= t.cfg.Debounce {
			t.state = StateMoving
			t.startTime = ts
			t.distance = 0
			t.aboveCount = 0
			t.belowCount = 0
			transition = &Transition{Kind: EventStart, Time: ts}
		}

	case StateMoving:
		// Raw path length, not the smoothed proxy.
		t.distance += speed

		if smoothed < t.cfg.StopThreshold() {
			t.belowCount++
		} else {
			t.belowCount = 0
		}

		if t.belowCount >= t.cfg.Debounce {
			t.state = StateIdle
			transition = &Transition{
				Kind:     EventStop,
				Time:     ts,
				Duration: ts.Sub(t.startTime),
				Distance: t.distance,
			}
			t.startTime = time.Time{}
			t.aboveCount = 0
			t.belowCount = 0
		}
	}

	if !present {
		return nil, transition
	}

	return &Readout{
		Hand:      t.hand,
		Velocity:  smoothed,
		Moving:    t.state == StateMoving,
		Landmarks: points,
	}, transition
}

// Reset returns the tracker to its initial idle state.
func (t *Tracker) Reset() {
	t.window.Reset()
	t.state = StateIdle
	t.lastPos = nil
	t.startTime = time.Time{}
	t.distance = 0
	t.aboveCount = 0
	t.belowCount = 0
}

// Hand returns the slot this tracker belongs to.
func (t *Tracker) Hand() Hand {
	return t.hand
}

// State returns the current qualitative motion state.
func (t *Tracker) State() State {
	return t.state
}

// midpoint returns the representative point for a hand: halfway between the
// wrist and mid-palm landmarks, which is steadier than any single joint.
func midpoint(a, b detector.Point3D) detector.Point3D {
	return detector.Point3D{
		X: (a.X + b.X) / 2,
		Y: (a.Y + b.Y) / 2,
		Z: (a.Z + b.Z) / 2,
	}
}
