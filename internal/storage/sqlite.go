// Package storage provides SQLite-based persistence for labyrinth sessions
// and their turn logs. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/labyrinth-hunt/internal/loop"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SessionRecord summarizes one finished or in-progress session.
type SessionRecord struct {
	ID        int64
	Seed      int64
	Status    string
	Turns     int
	Outcome   string // Final narrative message
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			status TEXT NOT NULL,
			turns INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);
		CREATE INDEX IF NOT EXISTS idx_sessions_recent ON sessions(created_at DESC);

		CREATE TABLE IF NOT EXISTS turn_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL REFERENCES sessions(id),
			turn INTEGER NOT NULL,
			phase TEXT NOT NULL,
			input TEXT NOT NULL,
			response TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_turn_logs_session ON turn_logs(session_id, turn);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a session summary. Returns the inserted ID.
func (s *Store) SaveSession(seed int64, status string, turns int, outcome string) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO sessions (seed, status, turns, outcome) VALUES (?, ?, ?, ?)",
		seed, status, turns, outcome,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveTurnLogs appends the turn log records of a session in one transaction.
func (s *Store) SaveTurnLogs(sessionID int64, logs []loop.TurnLog) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO turn_logs (session_id, turn, phase, input, response) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range logs {
		response, err := json.Marshal(entry.Response)
		if err != nil {
			return fmt.Errorf("storage: cannot encode response summary: %w", err)
		}
		if _, err := stmt.Exec(sessionID, entry.Turn, entry.Phase, string(entry.Input), string(response)); err != nil {
			return fmt.Errorf("storage: cannot save turn log: %w", err)
		}
	}

	return tx.Commit()
}

// TurnLogs retrieves the full turn log of a session in turn order.
func (s *Store) TurnLogs(sessionID int64) ([]loop.TurnLog, error) {
	rows, err := s.db.Query(
		`SELECT turn, phase, input, response
		 FROM turn_logs
		 WHERE session_id = ?
		 ORDER BY turn, id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query turn logs: %w", err)
	}
	defer rows.Close()

	var logs []loop.TurnLog
	for rows.Next() {
		var entry loop.TurnLog
		var input, response string
		if err := rows.Scan(&entry.Turn, &entry.Phase, &input, &response); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entry.Input = json.RawMessage(input)
		if err := json.Unmarshal([]byte(response), &entry.Response); err != nil {
			return nil, fmt.Errorf("storage: cannot decode response summary: %w", err)
		}
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return logs, nil
}

// RecentSessions retrieves the most recent sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, seed, status, turns, outcome, created_at
		 FROM sessions
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var r SessionRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Seed, &r.Status, &r.Turns, &r.Outcome, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseCreatedAt(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// SessionByID retrieves one session, or nil when it does not exist.
func (s *Store) SessionByID(id int64) (*SessionRecord, error) {
	var r SessionRecord
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, seed, status, turns, outcome, created_at
		 FROM sessions
		 WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.Seed, &r.Status, &r.Turns, &r.Outcome, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}

	r.CreatedAt = parseCreatedAt(createdAt)
	return &r, nil
}

// ClearSessions deletes all sessions and their turn logs.
func (s *Store) ClearSessions() error {
	if _, err := s.db.Exec("DELETE FROM turn_logs"); err != nil {
		return fmt.Errorf("storage: cannot clear turn logs: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// SessionStats contains aggregated statistics over all stored sessions.
type SessionStats struct {
	Sessions   int
	Escapes    int
	Deaths     int
	FewestWin  int // Fewest turns among escapes, 0 when none
	LastPlayed time.Time
}

// GetStats retrieves aggregated session statistics.
func (s *Store) GetStats() (*SessionStats, error) {
	stats := &SessionStats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'ESCAPED' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'DEATH' THEN 1 ELSE 0 END), 0),
		        COALESCE(MIN(CASE WHEN status = 'ESCAPED' THEN turns END), 0)
		 FROM sessions`,
	).Scan(&stats.Sessions, &stats.Escapes, &stats.Deaths, &stats.FewestWin)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM sessions ORDER BY created_at DESC LIMIT 1`,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseCreatedAt(lastPlayed)
	}

	return stats, nil
}

// parseCreatedAt handles both time.Time and string datetimes from the driver.
func parseCreatedAt(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
