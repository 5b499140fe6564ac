package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/motion"
)

// SessionHandler exposes the current session state and the reset operation.
type SessionHandler struct {
	ctrl Controller
}

// NewSessionHandler creates a new SessionHandler driving the given controller.
func NewSessionHandler(ctrl Controller) *SessionHandler {
	return &SessionHandler{ctrl: ctrl}
}

type sessionResponse struct {
	ID          string         `json:"id"`
	StartedAt   string         `json:"started_at"`
	Config      motion.Config  `json:"config"`
	LeftMoving  bool           `json:"left_moving"`
	RightMoving bool           `json:"right_moving"`
	EventCount  int            `json:"event_count"`
	Summary     motion.Summary `json:"summary"`
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/session (GET) and /api/session/reset (POST).
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/session")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.get(w, r)
	case "reset":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.reset(w, r)
	default:
		http.NotFound(w, r)
	}
}

// get handles GET /api/session.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:          h.ctrl.SessionID(),
		StartedAt:   h.ctrl.StartTime().Format("2006-01-02T15:04:05Z07:00"),
		Config:      h.ctrl.TrackerConfig(),
		LeftMoving:  h.ctrl.Moving(motion.HandLeft),
		RightMoving: h.ctrl.Moving(motion.HandRight),
		EventCount:  len(h.ctrl.Events()),
		Summary:     h.ctrl.Summary(),
	})
}

// reset handles POST /api/session/reset and starts a fresh session.
func (h *SessionHandler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.ResetSession(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset session")
		return
	}
	h.get(w, r)
}
