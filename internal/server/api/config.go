package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/motion"
	"github.com/ayusman/mudra/internal/store"
)

// TrackerConfigKey is the settings key the tracker configuration persists
// under, as a JSON blob.
const TrackerConfigKey = "tracker.config"

// ConfigHandler serves and updates the tracker configuration. A running
// session's parameters are fixed, so a successful PUT starts a new session.
type ConfigHandler struct {
	ctrl  Controller
	store *store.Store
}

// NewConfigHandler creates a new ConfigHandler. The store may be nil, in
// which case updates apply but are not persisted across restarts.
func NewConfigHandler(ctrl Controller, s *store.Store) *ConfigHandler {
	return &ConfigHandler{ctrl: ctrl, store: s}
}

// ServeHTTP implements the http.Handler interface.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// get handles GET /api/config.
func (h *ConfigHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.TrackerConfig())
}

// update handles PUT /api/config.
func (h *ConfigHandler) update(w http.ResponseWriter, r *http.Request) {
	var cfg motion.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.ctrl.ApplyConfig(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to apply config")
		return
	}

	if h.store != nil {
		blob, _ := json.Marshal(cfg)
		if err := h.store.Settings().Set(TrackerConfigKey, string(blob)); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to persist config")
			return
		}
	}

	writeJSON(w, http.StatusOK, h.ctrl.TrackerConfig())
}

// LoadTrackerConfig reads the persisted tracker configuration, falling back
// to defaults when none has been saved or the blob does not parse.
func LoadTrackerConfig(s *store.Store) motion.Config {
	cfg := motion.DefaultConfig()
	if s == nil {
		return cfg
	}

	blob, err := s.Settings().Get(TrackerConfigKey)
	if err != nil {
		return cfg
	}

	var saved motion.Config
	if err := json.Unmarshal([]byte(blob), &saved); err != nil {
		return cfg
	}
	if saved.Validate() != nil {
		return cfg
	}
	return saved
}
