package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/motion"
	"github.com/ayusman/mudra/internal/store"
)

func newTestServer(t *testing.T) (*app.App, *httptest.Server) {
	t.Helper()

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	application, err := app.New(app.Config{
		Store:     s,
		PluginDir: filepath.Join(tmpDir, "plugins"),
		Tracker:   motion.Config{StartThreshold: 0.8, Smoothing: 5, Debounce: 5},
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	application.SetDetector(detector.NewMockDetector())

	ts := httptest.NewServer(New(Config{Store: s, App: application}))
	t.Cleanup(ts.Close)

	return application, ts
}

// driveRun feeds the application one complete left-hand motion run.
func driveRun(application *app.App) {
	base := application.StartTime()
	frame := 0
	for i := 0; i < 12; i++ {
		hand := detector.PresetHand("Left", 0.1+0.02*float64(i), 0.5)
		application.ProcessFrame(base.Add(time.Duration(frame)*time.Second), hand.Points[:], nil)
		frame++
	}
	still := detector.PresetHand("Left", 0.1+0.02*11, 0.5)
	for i := 0; i < 15; i++ {
		application.ProcessFrame(base.Add(time.Duration(frame)*time.Second), still.Points[:], nil)
		frame++
	}
}

func TestAPI_SessionWorkflow(t *testing.T) {
	application, ts := newTestServer(t)
	client := ts.Client()

	// 1. Fresh session
	resp, err := client.Get(ts.URL + "/api/session")
	if err != nil {
		t.Fatalf("GET /api/session error = %v", err)
	}
	var sess struct {
		ID         string `json:"id"`
		EventCount int    `json:"event_count"`
	}
	json.NewDecoder(resp.Body).Decode(&sess)
	resp.Body.Close()

	if sess.ID != application.SessionID() {
		t.Errorf("session id = %q, want %q", sess.ID, application.SessionID())
	}
	if sess.EventCount != 0 {
		t.Errorf("event_count = %d, want 0", sess.EventCount)
	}

	// 2. Produce one motion run
	driveRun(application)

	resp, _ = client.Get(ts.URL + "/api/events")
	var events struct {
		Events []motion.MotionEvent `json:"events"`
	}
	json.NewDecoder(resp.Body).Decode(&events)
	resp.Body.Close()

	if len(events.Events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events.Events))
	}
	if events.Events[0].Kind != motion.EventStart || events.Events[1].Kind != motion.EventStop {
		t.Errorf("event kinds = %s/%s, want start/stop", events.Events[0].Kind, events.Events[1].Kind)
	}

	resp, _ = client.Get(ts.URL + "/api/session")
	var after struct {
		Summary motion.Summary `json:"summary"`
	}
	json.NewDecoder(resp.Body).Decode(&after)
	resp.Body.Close()

	if after.Summary.Motions != 1 || after.Summary.LeftMotions != 1 {
		t.Errorf("summary = %+v, want one left motion", after.Summary)
	}

	// 3. Reset
	resp, err = client.Post(ts.URL+"/api/session/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/session/reset error = %v", err)
	}
	var reset struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&reset)
	resp.Body.Close()

	if reset.ID == sess.ID {
		t.Error("reset did not change the session id")
	}

	resp, _ = client.Get(ts.URL + "/api/events")
	json.NewDecoder(resp.Body).Decode(&events)
	resp.Body.Close()
	if len(events.Events) != 0 {
		t.Errorf("len(events) after reset = %d, want 0", len(events.Events))
	}

	// 4. The old session's events remain queryable
	resp, _ = client.Get(ts.URL + "/api/events?session_id=" + sess.ID)
	var stored struct {
		Events []store.MotionEvent `json:"events"`
	}
	json.NewDecoder(resp.Body).Decode(&stored)
	resp.Body.Close()
	if len(stored.Events) != 2 {
		t.Errorf("len(stored events) = %d, want 2", len(stored.Events))
	}
}

func TestAPI_HookWorkflow(t *testing.T) {
	_, ts := newTestServer(t)
	client := ts.Client()

	// 1. Create a hook
	createBody := `{"kind": "start", "plugin_name": "eventlog"}`
	resp, err := client.Post(ts.URL+"/api/hooks", "application/json", bytes.NewBufferString(createBody))
	if err != nil {
		t.Fatalf("POST /api/hooks error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created struct {
		ID         string `json:"id"`
		PluginName string `json:"plugin_name"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.PluginName != "eventlog" {
		t.Errorf("created plugin_name = %s, want eventlog", created.PluginName)
	}

	// 2. List hooks
	resp, _ = client.Get(ts.URL + "/api/hooks")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/hooks status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Hooks []struct {
			ID string `json:"id"`
		} `json:"hooks"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Hooks) != 1 {
		t.Fatalf("len(hooks) = %d, want 1", len(listed.Hooks))
	}

	// 3. Delete hook
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/hooks/"+created.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	// 4. Verify deleted
	resp, _ = client.Get(ts.URL + "/api/hooks/" + created.ID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestAPI_ConfigWorkflow(t *testing.T) {
	application, ts := newTestServer(t)
	client := ts.Client()

	firstID := application.SessionID()

	body := `{"start_threshold": 1.5, "smoothing": 7, "debounce": 3}`
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/config", strings.NewReader(body))
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT /api/config error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	resp, _ = client.Get(ts.URL + "/api/config")
	var cfg motion.Config
	json.NewDecoder(resp.Body).Decode(&cfg)
	resp.Body.Close()

	want := motion.Config{StartThreshold: 1.5, Smoothing: 7, Debounce: 3}
	if cfg != want {
		t.Errorf("config = %+v, want %+v", cfg, want)
	}

	// A config change starts a new session
	if application.SessionID() == firstID {
		t.Error("config change did not start a new session")
	}
}

func TestAPI_LiveStream(t *testing.T) {
	application, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	// Give the handler a moment to register the subscription.
	time.Sleep(50 * time.Millisecond)

	hand := detector.PresetHand("Left", 0.5, 0.5)
	application.ProcessFrame(application.StartTime(), hand.Points[:], nil)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var update struct {
		Left  *motion.Readout `json:"left"`
		Right *motion.Readout `json:"right"`
	}
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("failed to read live update: %v", err)
	}

	if update.Left == nil {
		t.Fatal("live update has no left readout")
	}
	if update.Left.Hand != motion.HandLeft {
		t.Errorf("readout hand = %s, want left", update.Left.Hand)
	}
	if update.Right != nil {
		t.Error("live update has a right readout for an absent hand")
	}
}

func TestAPI_PluginsList(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/plugins")
	if err != nil {
		t.Fatalf("GET /api/plugins error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Plugins []struct {
			Name string `json:"name"`
		} `json:"plugins"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)

	if len(listed.Plugins) != 0 {
		t.Errorf("len(plugins) = %d, want 0 before discovery", len(listed.Plugins))
	}
}
