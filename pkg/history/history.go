// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package history records status runs in a local SQLite database so
// reconciliation drift can be followed over time.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mesh-intelligence/yatm/pkg/issues"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	repo TEXT NOT NULL,
	started_at TEXT NOT NULL,
	missing INTEGER NOT NULL,
	matched INTEGER NOT NULL,
	matched_with_diff INTEGER NOT NULL,
	unmatched_remote INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// timeLayout is fixed-width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one recorded status run.
type Run struct {
	ID              string
	Repo            string
	StartedAt       time.Time
	Missing         int
	Match           int
	MatchedWithDiff int
	UnmatchedRemote int
}

// Total returns the number of local issues the run classified.
func (r Run) Total() int { return r.Missing + r.Match + r.MatchedWithDiff }

// Summarize counts results per match type. unmatched is the number of
// remote issues no local issue claimed.
func Summarize(repo string, results []issues.GithubIssueMatches, unmatched int) Run {
	run := Run{Repo: repo, UnmatchedRemote: unmatched}
	for _, r := range results {
		switch r.MatchType {
		case issues.Missing:
			run.Missing++
		case issues.Match:
			run.Match++
		case issues.MatchedWithDiff:
			run.MatchedWithDiff++
		}
	}
	return run
}

// Store is a run history backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: creating directory for %s: %w", path, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening %s: %w", path, err)
	}
	// One connection, so ":memory:" stays a single database.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migrating %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts run, assigning an ID and start time when they are unset,
// and returns the stored run.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, repo, started_at, missing, matched, matched_with_diff, unmatched_remote)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Repo, run.StartedAt.Format(timeLayout),
		run.Missing, run.Match, run.MatchedWithDiff, run.UnmatchedRemote)
	if err != nil {
		return Run{}, fmt.Errorf("history: recording run: %w", err)
	}
	return run, nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, repo, started_at, missing, matched, matched_with_diff, unmatched_remote
		FROM runs
		ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: listing runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			started string
		)
		if err := rows.Scan(&run.ID, &run.Repo, &started,
			&run.Missing, &run.Match, &run.MatchedWithDiff, &run.UnmatchedRemote); err != nil {
			return nil, fmt.Errorf("history: scanning run: %w", err)
		}
		run.StartedAt, err = time.Parse(timeLayout, started)
		if err != nil {
			return nil, fmt.Errorf("history: run %s: bad started_at %q: %w", run.ID, started, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: listing runs: %w", err)
	}
	return runs, nil
}
