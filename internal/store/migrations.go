package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per tracking session, with the tracker
		// configuration frozen at session start
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			start_threshold REAL NOT NULL,
			smoothing INTEGER NOT NULL,
			debounce INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Motion events table - the append-only event log per session
		`CREATE TABLE IF NOT EXISTS motion_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			hand TEXT NOT NULL CHECK(hand IN ('left', 'right')),
			kind TEXT NOT NULL CHECK(kind IN ('start', 'stop')),
			elapsed_ms INTEGER NOT NULL,
			ordinal INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			distance REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(session_id, seq)
		)`,

		// Hooks table - bindings from motion events to plugin executions
		`CREATE TABLE IF NOT EXISTS hooks (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL DEFAULT '',
			hand TEXT NOT NULL DEFAULT '',
			plugin_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_motion_events_session_id ON motion_events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
