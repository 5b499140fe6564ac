// Package main provides the eventlog plugin.
// It appends motion events to a CSV file on disk.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Request represents the input from the plugin executor.
type Request struct {
	SessionID string          `json:"session_id"`
	Event     json.RawMessage `json:"event"`
	Config    json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Event mirrors the motion event fields the log line needs.
type Event struct {
	ID       int64   `json:"id"`
	Hand     string  `json:"hand"`
	Kind     string  `json:"kind"`
	Elapsed  int64   `json:"elapsed"`
	Ordinal  int     `json:"ordinal,omitempty"`
	Duration int64   `json:"duration,omitempty"`
	Distance float64 `json:"distance,omitempty"`
}

// Config defines the plugin configuration.
type Config struct {
	Path string `json:"path"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var ev Event
	if err := json.Unmarshal(req.Event, &ev); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to parse event: %v", err))
		return
	}

	cfg := Config{Path: defaultLogPath()}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
		if cfg.Path == "" {
			cfg.Path = defaultLogPath()
		}
	}

	if err := appendLine(cfg.Path, req.SessionID, ev); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to write log: %v", err))
		return
	}

	writeSuccessResponse()
}

// defaultLogPath returns the log file location under the user's home directory.
func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "motion-events.csv"
	}
	return filepath.Join(home, ".mudra", "motion-events.csv")
}

// appendLine appends one CSV row per event, creating the file with a header
// row if it does not exist yet.
func appendLine(path, sessionID string, ev Event) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	info, err := os.Stat(path)
	needHeader := err != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if needHeader {
		if _, err := fmt.Fprintln(f, "session_id,event_id,hand,kind,elapsed_ms,ordinal,duration_ms,distance"); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(f, "%s,%d,%s,%s,%d,%d,%d,%g\n",
		sessionID, ev.ID, ev.Hand, ev.Kind, ev.Elapsed/1e6, ev.Ordinal, ev.Duration/1e6, ev.Distance)
	return err
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
