package api

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/motion"
	"github.com/ayusman/mudra/internal/store"
)

// fakeController is a canned Controller implementation for handler tests.
type fakeController struct {
	id      string
	start   time.Time
	cfg     motion.Config
	events  []motion.MotionEvent
	summary motion.Summary
	moving  map[motion.Hand]bool

	resetCalls int
	resetErr   error
	applied    []motion.Config
}

func newFakeController() *fakeController {
	return &fakeController{
		id:     "session-1",
		start:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		cfg:    motion.DefaultConfig(),
		moving: map[motion.Hand]bool{},
	}
}

func (f *fakeController) SessionID() string            { return f.id }
func (f *fakeController) StartTime() time.Time         { return f.start }
func (f *fakeController) TrackerConfig() motion.Config { return f.cfg }
func (f *fakeController) Events() []motion.MotionEvent { return f.events }
func (f *fakeController) Summary() motion.Summary      { return f.summary }
func (f *fakeController) Moving(hand motion.Hand) bool { return f.moving[hand] }

func (f *fakeController) ResetSession() error {
	f.resetCalls++
	if f.resetErr != nil {
		return f.resetErr
	}
	f.id = "session-2"
	f.events = nil
	return nil
}

func (f *fakeController) ApplyConfig(cfg motion.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.applied = append(f.applied, cfg)
	f.cfg = cfg
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
