package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryStore persists the interactive command history using SQLite so that
// recall survives restarts. Storage failures are local I/O problems for the
// caller to log, never to die on.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore opens (creating if needed) the history database
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS command_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			line TEXT NOT NULL,
			entered_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_command_history_entered_at ON command_history(entered_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

// Close closes the database connection
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Append records one accepted command line
func (s *HistoryStore) Append(ctx context.Context, line string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO command_history (line, entered_at) VALUES (?, ?)
	`, line, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// Recent returns up to limit of the most recent lines, oldest first
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT line FROM (
			SELECT id, line FROM command_history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
