package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// dsnPragmas ride on the DSN so the driver applies them to every new
// connection. foreign_keys and synchronous are per-connection settings;
// running them once via Exec would only configure whichever pooled
// connection happened to execute it.
const dsnPragmas = "_pragma=journal_mode(wal)" +
	"&_pragma=busy_timeout(5000)" +
	"&_pragma=foreign_keys(on)" +
	"&_pragma=synchronous(normal)"

// Store wraps the SQLite database and provides access to repositories.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs migrations.
func Open(dsn string) (*Store, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", dsn+sep+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

// migrate creates the event tables if they don't exist.
func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS llm_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		timestamp     TEXT NOT NULL,
		provider      TEXT NOT NULL DEFAULT '',
		model         TEXT NOT NULL DEFAULT '',
		purpose       TEXT NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_llm_events_sequence ON llm_events(sequence);
	CREATE INDEX IF NOT EXISTS idx_llm_events_purpose ON llm_events(purpose);

	CREATE TABLE IF NOT EXISTS ask_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		timestamp     TEXT NOT NULL,
		session_id    TEXT NOT NULL DEFAULT '',
		mode          TEXT NOT NULL DEFAULT '',
		want_roadmap  INTEGER NOT NULL DEFAULT 0,
		degraded      INTEGER NOT NULL DEFAULT 0,
		roadmap_steps INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_ask_events_sequence ON ask_events(sequence);
	CREATE INDEX IF NOT EXISTS idx_ask_events_mode ON ask_events(mode);
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SENSEI_DB environment variable
// 2. $XDG_DATA_HOME/sensei/sensei.db
// 3. ~/.local/share/sensei/sensei.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SENSEI_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "sensei", "sensei.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
