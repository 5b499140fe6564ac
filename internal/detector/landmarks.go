// Package detector provides hand landmark detection interfaces and types
// for the Mudra motion tracking system.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
//
// Wrist (0) and MiddleMCP (9) anchor the representative palm point used for
// motion tracking; their indices are load-bearing.
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point: normalized screen-plane x/y plus a
// depth-relative z.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// PalmPoint returns the representative point for the hand: the midpoint of
// the wrist and the middle-finger MCP (mid-palm). It is steadier than any
// single joint and is what the motion tracker follows between frames.
func (h *HandLandmarks) PalmPoint() Point3D {
	wrist := h.Points[Wrist]
	palm := h.Points[MiddleMCP]
	return Point3D{
		X: (wrist.X + palm.X) / 2,
		Y: (wrist.Y + palm.Y) / 2,
		Z: (wrist.Z + palm.Z) / 2,
	}
}
