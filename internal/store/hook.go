package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Hook represents a binding from motion events to a plugin execution.
// Empty Kind or Hand fields match any event kind or hand.
type Hook struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind,omitempty"`
	Hand       string          `json:"hand,omitempty"`
	PluginName string          `json:"plugin_name"`
	Config     json.RawMessage `json:"config,omitempty"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Matches reports whether the hook applies to an event of the given kind
// and hand.
func (h *Hook) Matches(kind, hand string) bool {
	if h.Kind != "" && h.Kind != kind {
		return false
	}
	if h.Hand != "" && h.Hand != hand {
		return false
	}
	return true
}

// HookRepository provides CRUD operations for hooks.
type HookRepository struct {
	db *sql.DB
}

// Hooks returns the hook repository for this store.
func (s *Store) Hooks() *HookRepository {
	return &HookRepository{db: s.db}
}

// Create inserts a new hook into the database.
func (r *HookRepository) Create(h *Hook) error {
	h.CreatedAt = time.Now()

	config := h.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	_, err := r.db.Exec(
		`INSERT INTO hooks (id, kind, hand, plugin_name, config, enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Kind, h.Hand, h.PluginName, string(config), h.Enabled, h.CreatedAt,
	)
	return err
}

// GetByID retrieves a hook by its ID.
func (r *HookRepository) GetByID(id string) (*Hook, error) {
	h := &Hook{}
	var config string

	err := r.db.QueryRow(
		`SELECT id, kind, hand, plugin_name, config, enabled, created_at
		 FROM hooks WHERE id = ?`,
		id,
	).Scan(&h.ID, &h.Kind, &h.Hand, &h.PluginName, &config, &h.Enabled, &h.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	h.Config = json.RawMessage(config)
	return h, nil
}

// List retrieves all hooks.
func (r *HookRepository) List() ([]*Hook, error) {
	return r.list(`SELECT id, kind, hand, plugin_name, config, enabled, created_at
		 FROM hooks ORDER BY created_at`)
}

// ListEnabled retrieves the hooks that are currently enabled.
func (r *HookRepository) ListEnabled() ([]*Hook, error) {
	return r.list(`SELECT id, kind, hand, plugin_name, config, enabled, created_at
		 FROM hooks WHERE enabled = 1 ORDER BY created_at`)
}

func (r *HookRepository) list(query string) ([]*Hook, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hooks []*Hook
	for rows.Next() {
		h := &Hook{}
		var config string

		err := rows.Scan(&h.ID, &h.Kind, &h.Hand, &h.PluginName, &config, &h.Enabled, &h.CreatedAt)
		if err != nil {
			return nil, err
		}

		h.Config = json.RawMessage(config)
		hooks = append(hooks, h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hooks, nil
}

// Delete removes a hook from the database by its ID.
func (r *HookRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM hooks WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
