// Package api provides HTTP API handlers for the Mudra motion tracking
// system.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/motion"
)

// Controller is the surface of the running application the API handlers
// drive. *app.App implements it.
type Controller interface {
	SessionID() string
	StartTime() time.Time
	TrackerConfig() motion.Config
	Events() []motion.MotionEvent
	Summary() motion.Summary
	Moving(motion.Hand) bool
	ResetSession() error
	ApplyConfig(motion.Config) error
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
