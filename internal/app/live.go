package app

import (
	"sync"

	"github.com/ayusman/mudra/internal/motion"
)

// Update is one frame's worth of live output: the per-hand readouts plus any
// events that fired during the frame. Absent hands carry a nil readout.
type Update struct {
	Timestamp int64                `json:"timestamp"` // unix milliseconds
	Left      *motion.Readout      `json:"left,omitempty"`
	Right     *motion.Readout      `json:"right,omitempty"`
	Events    []motion.MotionEvent `json:"events,omitempty"`
}

// hub fans pipeline updates out to stream subscribers. Slow subscribers drop
// updates rather than stall the pipeline.
type hub struct {
	mu   sync.Mutex
	subs map[chan Update]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[chan Update]struct{})}
}

// subscribe registers a new subscriber and returns its channel along with a
// cancel function that must be called when the subscriber is done.
func (h *hub) subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 16)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// publish delivers an update to every subscriber without blocking.
func (h *hub) publish(u Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- u:
		default:
			// Subscriber is not keeping up; drop this update for it.
		}
	}
}
