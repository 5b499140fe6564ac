// Package testdata provides synthetic landmark sequences for pipeline and
// end-to-end tests. Frames are generated rather than recorded so tests can
// assert exact event timings.
package testdata

import (
	"github.com/ayusman/mudra/internal/detector"
)

// SweepFrames returns n frames of a single hand moving steadily along the
// x axis, starting at startX and advancing step per frame.
func SweepFrames(handedness string, n int, startX, step float64) [][]detector.HandLandmarks {
	frames := make([][]detector.HandLandmarks, n)
	for i := 0; i < n; i++ {
		hand := detector.PresetHand(handedness, startX+step*float64(i), 0.5)
		frames[i] = []detector.HandLandmarks{hand}
	}
	return frames
}

// StillFrames returns n frames of a single hand holding position at x.
func StillFrames(handedness string, n int, x float64) [][]detector.HandLandmarks {
	frames := make([][]detector.HandLandmarks, n)
	hand := detector.PresetHand(handedness, x, 0.5)
	for i := 0; i < n; i++ {
		frames[i] = []detector.HandLandmarks{hand}
	}
	return frames
}

// AbsentFrames returns n frames with no hands detected.
func AbsentFrames(n int) [][]detector.HandLandmarks {
	return make([][]detector.HandLandmarks, n)
}

// MotionRun returns one complete motion run for a single hand: a sweep long
// enough to trigger a start under the default tracker config, followed by
// enough stillness to trigger the stop.
func MotionRun(handedness string) [][]detector.HandLandmarks {
	frames := SweepFrames(handedness, 12, 0.1, 0.02)
	frames = append(frames, StillFrames(handedness, 15, 0.1+0.02*11)...)
	return frames
}

// TwoHandRun returns frames where both hands perform the same motion run in
// lockstep, which makes both trackers emit in the same frames.
func TwoHandRun() [][]detector.HandLandmarks {
	left := MotionRun("Left")
	right := MotionRun("Right")
	frames := make([][]detector.HandLandmarks, len(left))
	for i := range left {
		frames[i] = append(append([]detector.HandLandmarks{}, left[i]...), right[i]...)
	}
	return frames
}
