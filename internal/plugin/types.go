// Package plugin provides discovery and execution of external event-handler
// plugins for the Mudra motion tracking system. Plugins are standalone
// executables that receive a motion event notification as JSON on stdin and
// answer with a JSON response on stdout.
package plugin

import "encoding/json"

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Events       []string        `json:"events"` // event kinds handled: "start", "stop"
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request represents a motion event notification sent to a plugin.
type Request struct {
	SessionID string          `json:"session_id"`
	Event     json.RawMessage `json:"event"`
	Config    json.RawMessage `json:"config"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
