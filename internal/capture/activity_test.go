package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewActivityGate(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
	}{
		{name: "default threshold", threshold: 1.0},
		{name: "high threshold", threshold: 5.0},
		{name: "low threshold", threshold: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewActivityGate(tt.threshold)
			if g == nil {
				t.Fatal("NewActivityGate returned nil")
			}
			defer g.Close()

			if g.threshold != tt.threshold {
				t.Errorf("threshold = %f, want %f", g.threshold, tt.threshold)
			}
			if g.initialized {
				t.Error("gate should not be initialized initially")
			}
		})
	}
}

func TestActivityGate_NoChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewActivityGate(1.0)
	defer g.Close()

	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	// First frame establishes the baseline.
	active, changePercent := g.Check(&frame1)
	if active {
		t.Error("first frame should not report activity")
	}
	if changePercent != 0 {
		t.Errorf("first frame changePercent = %f, want 0", changePercent)
	}

	active, changePercent = g.Check(&frame2)
	if active {
		t.Errorf("identical frames should not report activity, changePercent = %f", changePercent)
	}
}

func TestActivityGate_DetectsChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewActivityGate(1.0)
	defer g.Close()

	blackFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer blackFrame.Close()

	whiteFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer whiteFrame.Close()
	whiteFrame.SetTo(gocv.NewScalar(255, 255, 255, 0))

	g.Check(&blackFrame)

	active, changePercent := g.Check(&whiteFrame)
	if !active {
		t.Errorf("black to white should report activity, changePercent = %f", changePercent)
	}
	if changePercent < 50.0 {
		t.Errorf("changePercent = %f, expected > 50%% for a full-frame change", changePercent)
	}
}

func TestActivityGate_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewActivityGate(1.0)
	defer g.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	g.Check(&frame)
	if !g.initialized {
		t.Error("gate should be initialized after first Check")
	}

	g.Reset()

	if g.initialized {
		t.Error("gate should not be initialized after Reset")
	}
	if !g.prevGray.Empty() {
		t.Error("baseline should be empty after Reset")
	}
}

func TestActivityGate_SetThreshold(t *testing.T) {
	g := NewActivityGate(1.0)
	defer g.Close()

	g.SetThreshold(5.0)
	if g.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0 after SetThreshold", g.threshold)
	}

	// Non-positive values are ignored.
	g.SetThreshold(-1.0)
	if g.threshold != 5.0 {
		t.Errorf("negative threshold should be ignored, got %f, want 5.0", g.threshold)
	}
	g.SetThreshold(0)
	if g.threshold != 5.0 {
		t.Errorf("zero threshold should be ignored, got %f, want 5.0", g.threshold)
	}
}

func TestActivityGate_CloseMultiple(t *testing.T) {
	g := NewActivityGate(1.0)

	// Close multiple times should not panic.
	g.Close()
	g.Close()
}
