// Package motion converts per-frame hand landmark samples into a discrete,
// timestamped log of motion intervals: when each hand started moving, when it
// stopped, how long the motion lasted, and how far it traveled.
package motion

// Window is a fixed-capacity sliding window over per-frame speed samples.
// Pushing beyond capacity evicts the oldest sample first.
type Window struct {
	samples  []float64
	capacity int
}

// NewWindow creates a Window holding at most capacity samples.
// Capacity values below 1 are clamped to 1.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		samples:  make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a sample, evicting the oldest once the window is full.
func (w *Window) Push(sample float64) {
	if len(w.samples) >= w.capacity {
		copy(w.samples, w.samples[1:])
		w.samples = w.samples[:w.capacity-1]
	}
	w.samples = append(w.samples, sample)
}

// Average returns the arithmetic mean of the current contents,
// or 0 if the window is empty.
func (w *Window) Average() float64 {
	if len(w.samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range w.samples {
		sum += s
	}
	return sum / float64(len(w.samples))
}

// Reset discards all samples.
func (w *Window) Reset() {
	w.samples = w.samples[:0]
}

// Len returns the number of samples currently held.
func (w *Window) Len() int {
	return len(w.samples)
}

// Cap returns the fixed capacity of the window.
func (w *Window) Cap() int {
	return w.capacity
}
