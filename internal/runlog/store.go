// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runlog persists one audit row per collection run in a local
// SQLite database.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded collection run.
type Entry struct {
	Source    string
	StartedAt time.Time
	Duration  time.Duration
	Items     int
	Received  int
	Saved     int
	Status    string
	Error     string
}

// Run outcome labels.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Store manages the run log SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the run log database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating run log directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening run log database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating run log schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			items INTEGER NOT NULL,
			received INTEGER NOT NULL,
			saved INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one run entry.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (source, started_at, duration_ms, items, received, saved, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Source, e.StartedAt.UTC().Format(time.RFC3339Nano), e.Duration.Milliseconds(),
		e.Items, e.Received, e.Saved, e.Status, e.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting run entry: %w", err)
	}
	return nil
}

// Recent returns the latest n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, started_at, duration_ms, items, received, saved, status, error
		 FROM runs ORDER BY rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying run entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started string
		var durationMS int64
		if err := rows.Scan(&e.Source, &started, &durationMS, &e.Items, &e.Received, &e.Saved, &e.Status, &e.Error); err != nil {
			return nil, fmt.Errorf("scanning run entry: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, started); err == nil {
			e.StartedAt = ts
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
