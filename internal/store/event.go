package store

import (
	"database/sql"
	"time"
)

// MotionEvent represents one entry of a session's motion event log as
// persisted. Ordinal is meaningful on start events, duration and distance
// on stop events; the other side stores zeroes.
type MotionEvent struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	Seq        int64     `json:"seq"`
	Hand       string    `json:"hand"`
	Kind       string    `json:"kind"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	Ordinal    int       `json:"ordinal,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Distance   float64   `json:"distance,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventRepository provides append and query operations for motion events.
// The log is append-only; there is no update or per-event delete.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append inserts a batch of events for a session in a single transaction.
func (r *EventRepository) Append(sessionID string, events []MotionEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO motion_events (session_id, seq, hand, kind, elapsed_ms, ordinal, duration_ms, distance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(sessionID, ev.Seq, ev.Hand, ev.Kind, ev.ElapsedMs, ev.Ordinal, ev.DurationMs, ev.Distance); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListBySession retrieves all events for a session in emission order.
func (r *EventRepository) ListBySession(sessionID string) ([]MotionEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, seq, hand, kind, elapsed_ms, ordinal, duration_ms, distance, created_at
		 FROM motion_events
		 WHERE session_id = ?
		 ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []MotionEvent
	for rows.Next() {
		var ev MotionEvent
		err := rows.Scan(&ev.ID, &ev.SessionID, &ev.Seq, &ev.Hand, &ev.Kind, &ev.ElapsedMs,
			&ev.Ordinal, &ev.DurationMs, &ev.Distance, &ev.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountBySession returns the number of events logged for a session.
func (r *EventRepository) CountBySession(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM motion_events WHERE session_id = ?`,
		sessionID,
	).Scan(&count)
	return count, err
}
