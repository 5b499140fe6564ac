package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session represents one tracking session and the tracker configuration it
// was started with.
type Session struct {
	ID             string
	StartedAt      time.Time
	StartThreshold float64
	Smoothing      int
	Debounce       int
	CreatedAt      time.Time
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session into the database.
func (r *SessionRepository) Create(sess *Session) error {
	sess.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, start_threshold, smoothing, debounce, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.StartThreshold, sess.Smoothing, sess.Debounce, sess.CreatedAt,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}

	err := r.db.QueryRow(
		`SELECT id, started_at, start_threshold, smoothing, debounce, created_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.StartedAt, &sess.StartThreshold, &sess.Smoothing, &sess.Debounce, &sess.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sess, nil
}

// Latest retrieves the most recently started session.
func (r *SessionRepository) Latest() (*Session, error) {
	sess := &Session{}

	err := r.db.QueryRow(
		`SELECT id, started_at, start_threshold, smoothing, debounce, created_at
		 FROM sessions ORDER BY started_at DESC LIMIT 1`,
	).Scan(&sess.ID, &sess.StartedAt, &sess.StartThreshold, &sess.Smoothing, &sess.Debounce, &sess.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sess, nil
}

// List retrieves all sessions, most recent first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, start_threshold, smoothing, debounce, created_at
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		err := rows.Scan(&sess.ID, &sess.StartedAt, &sess.StartThreshold, &sess.Smoothing, &sess.Debounce, &sess.CreatedAt)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session and, via cascade, its motion events.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
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
