package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/motion"
)

func TestSessionHandler_Get(t *testing.T) {
	ctrl := newFakeController()
	ctrl.events = []motion.MotionEvent{
		{ID: 1, Hand: motion.HandLeft, Kind: motion.EventStart, Ordinal: 1},
	}
	ctrl.moving[motion.HandLeft] = true
	ctrl.summary = motion.Summary{Motions: 1, LeftMotions: 1}

	h := NewSessionHandler(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		ID          string         `json:"id"`
		StartedAt   string         `json:"started_at"`
		Config      motion.Config  `json:"config"`
		LeftMoving  bool           `json:"left_moving"`
		RightMoving bool           `json:"right_moving"`
		EventCount  int            `json:"event_count"`
		Summary     motion.Summary `json:"summary"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.ID != "session-1" {
		t.Errorf("id = %q, want session-1", resp.ID)
	}
	if resp.Config != motion.DefaultConfig() {
		t.Errorf("config = %+v, want defaults", resp.Config)
	}
	if !resp.LeftMoving || resp.RightMoving {
		t.Errorf("moving = %v/%v, want true/false", resp.LeftMoving, resp.RightMoving)
	}
	if resp.EventCount != 1 {
		t.Errorf("event_count = %d, want 1", resp.EventCount)
	}
	if resp.Summary.Motions != 1 {
		t.Errorf("summary.motions = %d, want 1", resp.Summary.Motions)
	}
}

func TestSessionHandler_Reset(t *testing.T) {
	ctrl := newFakeController()
	h := NewSessionHandler(ctrl)

	req := httptest.NewRequest(http.MethodPost, "/api/session/reset", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ctrl.resetCalls != 1 {
		t.Errorf("reset calls = %d, want 1", ctrl.resetCalls)
	}

	var resp struct {
		ID string `json:"id"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.ID != "session-2" {
		t.Errorf("id after reset = %q, want session-2", resp.ID)
	}
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	h := NewSessionHandler(newFakeController())

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/session"},
		{http.MethodDelete, "/api/session"},
		{http.MethodGet, "/api/session/reset"},
		{http.MethodPut, "/api/session/reset"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, http.StatusMethodNotAllowed)
		}
	}
}

func TestSessionHandler_UnknownPath(t *testing.T) {
	h := NewSessionHandler(newFakeController())

	req := httptest.NewRequest(http.MethodGet, "/api/session/bogus", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
