package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It can return a fixed result or play back a scripted sequence of frames.
type MockDetector struct {
	hands  []HandLandmarks
	script [][]HandLandmarks
	index  int
	err    error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned by every subsequent Detect call.
// Clears any script set via SetScript.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
	m.script = nil
	m.index = 0
}

// SetScript sets a per-frame sequence of detection results. Each Detect
// call consumes one entry; past the end, the last entry repeats. A nil
// entry means no hands detected that frame.
func (m *MockDetector) SetScript(frames [][]HandLandmarks) {
	m.script = frames
	m.index = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands, the next scripted frame, or the
// configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) > 0 {
		i := m.index
		if i >= len(m.script) {
			i = len(m.script) - 1
		} else {
			m.index++
		}
		return m.script[i], nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PresetHand returns a full landmark set for a hand of the given handedness
// with the wrist at (x, y). Finger joints fan out above the wrist and the
// mid-palm landmark sits a fixed offset toward the fingers, so PalmPoint
// tracks (x, y-0.05) as the hand is moved.
func PresetHand(handedness string, x, y float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: x, Y: y}
	lm.Points[MiddleMCP] = Point3D{X: x, Y: y - 0.1}

	// Thumb off to one side, remaining fingers spread above the palm.
	fingers := [][4]int{
		{ThumbCMC, ThumbMCP, ThumbIP, ThumbTip},
		{IndexMCP, IndexPIP, IndexDIP, IndexTip},
		{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
		{RingMCP, RingPIP, RingDIP, RingTip},
		{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
	}
	for f, joints := range fingers {
		baseX := x + 0.03*float64(f-2)
		for j, idx := range joints {
			if idx == MiddleMCP {
				continue
			}
			lm.Points[idx] = Point3D{
				X: baseX,
				Y: y - 0.1 - 0.04*float64(j),
				Z: -0.01 * float64(j),
			}
		}
	}

	return lm
}
