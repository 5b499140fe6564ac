package api

import (
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/motion"
	"github.com/ayusman/mudra/internal/store"
)

// EventsHandler serves the motion event log: the live session's by default,
// or a persisted session's when session_id is given.
type EventsHandler struct {
	ctrl  Controller
	store *store.Store
}

// NewEventsHandler creates a new EventsHandler. The store may be nil, in
// which case only the live log is available.
func NewEventsHandler(ctrl Controller, s *store.Store) *EventsHandler {
	return &EventsHandler{ctrl: ctrl, store: s}
}

type listEventsResponse struct {
	SessionID string               `json:"session_id"`
	Events    []motion.MotionEvent `json:"events"`
}

type listStoredEventsResponse struct {
	SessionID string              `json:"session_id"`
	Events    []store.MotionEvent `json:"events"`
}

// ServeHTTP implements the http.Handler interface.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" || sessionID == h.ctrl.SessionID() {
		events := h.ctrl.Events()
		if events == nil {
			events = []motion.MotionEvent{}
		}
		writeJSON(w, http.StatusOK, listEventsResponse{
			SessionID: h.ctrl.SessionID(),
			Events:    events,
		})
		return
	}

	if h.store == nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	if _, err := h.store.Sessions().GetByID(sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	events, err := h.store.Events().ListBySession(sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}
	if events == nil {
		events = []store.MotionEvent{}
	}

	writeJSON(w, http.StatusOK, listStoredEventsResponse{
		SessionID: sessionID,
		Events:    events,
	})
}
