package app

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/motion"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// runPipeline is the main capture loop.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS)
// 2. On scene activity, switch to active mode (ActiveFPS)
// 3. Run hand detection and feed the motion session
// 4. Persist emitted events and dispatch matching hooks
// 5. After 2s of stillness, switch back to idle mode
//
// The motion session is fed on every tick, including idle ones: absent-hand
// frames are what let a run terminate when the hands leave the scene.
func (a *App) runPipeline() {
	activeMode := false
	lastActivity := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			active, _ := a.gate.Check(frame)

			if active {
				lastActivity = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastActivity) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			var left, right []detector.Point3D
			if activeMode && a.Detector() != nil {
				hands, err := a.Detector().Detect(frame)
				if err != nil {
					log.Printf("Error detecting hands: %v", err)
				} else {
					left, right = splitHands(hands)
				}
			}
			frame.Close()

			a.ProcessFrame(time.Now(), left, right)
		}
	}
}

// splitHands assigns detected hands to the session's left and right slots
// using the detector's handedness label. When two hands carry the same label
// the higher-confidence one wins.
func splitHands(hands []detector.HandLandmarks) (left, right []detector.Point3D) {
	var leftScore, rightScore float64

	for i := range hands {
		h := &hands[i]
		switch strings.ToLower(h.Handedness) {
		case "left":
			if left == nil || h.Score > leftScore {
				left = h.Points[:]
				leftScore = h.Score
			}
		case "right":
			if right == nil || h.Score > rightScore {
				right = h.Points[:]
				rightScore = h.Score
			}
		}
	}
	return left, right
}

// persistEvents appends emitted events to the session's stored log.
func (a *App) persistEvents(sessionID string, events []motion.MotionEvent) {
	if a.config.Store == nil {
		return
	}

	rows := make([]store.MotionEvent, len(events))
	for i, ev := range events {
		rows[i] = store.MotionEvent{
			Seq:        ev.ID,
			Hand:       string(ev.Hand),
			Kind:       string(ev.Kind),
			ElapsedMs:  ev.Elapsed.Milliseconds(),
			Ordinal:    ev.Ordinal,
			DurationMs: ev.Duration.Milliseconds(),
			Distance:   ev.Distance,
		}
	}

	if err := a.config.Store.Events().Append(sessionID, rows); err != nil {
		log.Printf("Failed to persist %d events: %v", len(events), err)
	}
}

// dispatchHooks executes every enabled hook whose filters match one of the
// emitted events. Plugins run concurrently; a failing hook is logged and
// never affects tracking.
func (a *App) dispatchHooks(sessionID string, events []motion.MotionEvent) {
	if a.config.Store == nil {
		return
	}

	hooks, err := a.config.Store.Hooks().ListEnabled()
	if err != nil {
		log.Printf("Failed to list hooks: %v", err)
		return
	}
	if len(hooks) == 0 {
		return
	}

	for _, ev := range events {
		for _, h := range hooks {
			if !h.Matches(string(ev.Kind), string(ev.Hand)) {
				continue
			}
			go a.runHook(sessionID, h, ev)
		}
	}
}

// runHook executes a single hook for a single event.
func (a *App) runHook(sessionID string, h *store.Hook, ev motion.MotionEvent) {
	plug, err := a.pluginMgr.Get(h.PluginName)
	if err != nil {
		log.Printf("Hook %s references unknown plugin %q", h.ID, h.PluginName)
		return
	}

	eventJSON, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to marshal event for hook %s: %v", h.ID, err)
		return
	}

	resp, err := a.pluginExec.Execute(plug, &plugin.Request{
		SessionID: sessionID,
		Event:     eventJSON,
		Config:    h.Config,
	})
	if err != nil {
		log.Printf("Hook %s (%s) failed: %v", h.ID, h.PluginName, err)
		return
	}
	if !resp.Success {
		log.Printf("Hook %s (%s) reported error: %s", h.ID, h.PluginName, resp.Error)
	}
}
