package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/motion"
	"github.com/ayusman/mudra/internal/store"
)

// HookHandler handles HTTP requests for hook resources: the bindings from
// motion events to plugins.
type HookHandler struct {
	store *store.Store
}

// NewHookHandler creates a new HookHandler with the given store.
func NewHookHandler(s *store.Store) *HookHandler {
	return &HookHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *HookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/hooks or /api/hooks/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/hooks")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createHookRequest struct {
	Kind       string          `json:"kind"`
	Hand       string          `json:"hand"`
	PluginName string          `json:"plugin_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    *bool           `json:"enabled"`
}

type listHooksResponse struct {
	Hooks []*store.Hook `json:"hooks"`
}

// list handles GET /api/hooks and returns all hooks.
func (h *HookHandler) list(w http.ResponseWriter, r *http.Request) {
	hooks, err := h.store.Hooks().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list hooks")
		return
	}
	if hooks == nil {
		hooks = []*store.Hook{}
	}
	writeJSON(w, http.StatusOK, listHooksResponse{Hooks: hooks})
}

// get handles GET /api/hooks/{id} and returns a single hook.
func (h *HookHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	hook, err := h.store.Hooks().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Hook not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get hook")
		return
	}
	writeJSON(w, http.StatusOK, hook)
}

// create handles POST /api/hooks and creates a new hook.
func (h *HookHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createHookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.PluginName == "" {
		writeError(w, http.StatusBadRequest, "Plugin name is required")
		return
	}
	if req.Kind != "" && req.Kind != string(motion.EventStart) && req.Kind != string(motion.EventStop) {
		writeError(w, http.StatusBadRequest, "Invalid event kind")
		return
	}
	if req.Hand != "" && req.Hand != string(motion.HandLeft) && req.Hand != string(motion.HandRight) {
		writeError(w, http.StatusBadRequest, "Invalid hand")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	hook := &store.Hook{
		ID:         uuid.New().String(),
		Kind:       req.Kind,
		Hand:       req.Hand,
		PluginName: req.PluginName,
		Config:     req.Config,
		Enabled:    enabled,
	}

	if err := h.store.Hooks().Create(hook); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create hook")
		return
	}

	writeJSON(w, http.StatusCreated, hook)
}

// delete handles DELETE /api/hooks/{id} and removes a hook.
func (h *HookHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Hooks().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Hook not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete hook")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
