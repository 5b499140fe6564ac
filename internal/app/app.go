// Package app provides the main application logic for the Mudra motion
// tracking system: it owns the capture pipeline, the per-session motion
// trackers, event persistence and hook dispatch.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/motion"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while the scene is still.
	IdleFPS = 5
	// ActiveFPS is the frame rate while the scene shows activity.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds of stillness before
	// switching back to idle mode.
	IdleTimeoutMs = 2000
	// PluginTimeoutMs bounds a single hook execution.
	PluginTimeoutMs = 5000
)

// Config holds configuration options for the application.
type Config struct {
	Store          *store.Store
	PluginDir      string
	CameraID       int
	ActivityThresh float64
	Tracker        motion.Config
}

// App is the main application. It orchestrates frame capture, hand detection,
// motion tracking, event persistence and plugin hook dispatch.
type App struct {
	config     Config
	camera     capture.Camera
	gate       *capture.ActivityGate
	detector   detector.Detector
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	live       *hub

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}

	// session state, guarded separately so API reads never contend with
	// the enabled flag
	sessionMu sync.Mutex
	session   *motion.Session
	sessionID string
}

// New creates a new App instance with the given configuration. The motion
// session starts immediately; the capture pipeline starts on Start.
func New(config Config) (*App, error) {
	activityThreshold := config.ActivityThresh
	if activityThreshold <= 0 {
		activityThreshold = 1.0 // default: 1% pixel change
	}
	if config.Tracker == (motion.Config{}) {
		config.Tracker = motion.DefaultConfig()
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		gate:       capture.NewActivityGate(activityThreshold),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(PluginTimeoutMs),
		live:       newHub(),
	}

	if err := a.startSession(time.Now()); err != nil {
		return nil, err
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// startSession creates a fresh motion session and persists its row.
// Callers must hold sessionMu or be the constructor.
func (a *App) startSession(now time.Time) error {
	session, err := motion.NewSession(a.config.Tracker, now)
	if err != nil {
		return err
	}

	a.session = session
	a.sessionID = uuid.New().String()

	if a.config.Store != nil {
		err := a.config.Store.Sessions().Create(&store.Session{
			ID:             a.sessionID,
			StartedAt:      now,
			StartThreshold: a.config.Tracker.StartThreshold,
			Smoothing:      a.config.Tracker.Smoothing,
			Debounce:       a.config.Tracker.Debounce,
		})
		if err != nil {
			log.Printf("Failed to persist session %s: %v", a.sessionID, err)
		}
	}

	return nil
}

// SetEnabled enables or disables motion tracking.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether motion tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera implementation. Only valid before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start begins the capture pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the capture pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.gate.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Tracking pipeline stopped")
}

// ProcessFrame drives the motion session with one frame of landmarks and
// handles the fallout: persistence, hook dispatch and live publication.
// The pipeline calls it on every tick; tests call it directly.
func (a *App) ProcessFrame(ts time.Time, left, right []detector.Point3D) []motion.MotionEvent {
	a.sessionMu.Lock()
	events, leftReadout, rightReadout := a.session.ProcessFrame(ts, left, right)
	sessionID := a.sessionID
	a.sessionMu.Unlock()

	if len(events) > 0 {
		a.persistEvents(sessionID, events)
		a.dispatchHooks(sessionID, events)
	}

	a.live.publish(Update{
		Timestamp: ts.UnixMilli(),
		Left:      leftReadout,
		Right:     rightReadout,
		Events:    events,
	})

	return events
}

// ResetSession discards all live tracking state and starts a new session
// with the same tracker configuration.
func (a *App) ResetSession() error {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	return a.startSession(time.Now())
}

// ApplyConfig starts a new session with the given tracker configuration.
// The running session's parameters are fixed, so a config change always
// means a new session.
func (a *App) ApplyConfig(cfg motion.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	a.config.Tracker = cfg
	return a.startSession(time.Now())
}

// SessionID returns the id of the current session.
func (a *App) SessionID() string {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	return a.sessionID
}

// StartTime returns the origin instant of the current session.
func (a *App) StartTime() time.Time {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	return a.session.StartTime()
}

// TrackerConfig returns the tracker configuration of the current session.
func (a *App) TrackerConfig() motion.Config {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	return a.session.Config()
}

// Events returns a snapshot of the current session's event log.
func (a *App) Events() []motion.MotionEvent {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	return a.session.Events()
}

// Summary returns aggregate statistics for the current session.
func (a *App) Summary() motion.Summary {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	return a.session.Summary()
}

// Moving reports whether the given hand is currently inside a motion run.
func (a *App) Moving(hand motion.Hand) bool {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	return a.session.Moving(hand)
}

// Subscribe registers a live update subscriber. The returned cancel function
// must be called when the subscriber disconnects.
func (a *App) Subscribe() (<-chan Update, func()) {
	return a.live.subscribe()
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// ActivityGate returns the scene activity gate.
func (a *App) ActivityGate() *capture.ActivityGate {
	return a.gate
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Store returns the backing store, nil when persistence is disabled.
func (a *App) Store() *store.Store {
	return a.config.Store
}
