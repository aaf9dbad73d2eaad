// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists an append-only ledger of processing runs in
// SQLite. It records outcomes only; it never influences which documents a
// later run processes.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ppetrou/thesis-publisher/pkg/types"
)

// Store manages the run-ledger SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
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
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			base_folder TEXT NOT NULL,
			test_mode INTEGER NOT NULL,
			succeeded INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			path TEXT NOT NULL,
			slug TEXT,
			status TEXT NOT NULL,
			stage TEXT,
			reason TEXT,
			processed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_run_id ON documents(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts a run row and returns its ID.
func (s *Store) BeginRun(ctx context.Context, cfg types.PipelineConfig, startedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, base_folder, test_mode) VALUES (?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), cfg.BaseFolder, boolToInt(cfg.TestMode))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// Document is one ledger row for a processed document.
type Document struct {
	Path        string
	Slug        string
	Status      types.DocumentStatus
	Stage       string
	Reason      string
	ProcessedAt time.Time
}

// RecordDocument appends one document outcome to the run.
func (s *Store) RecordDocument(ctx context.Context, runID int64, doc Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (run_id, path, slug, status, stage, reason, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, doc.Path, doc.Slug, string(doc.Status), doc.Stage, doc.Reason,
		doc.ProcessedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting document record: %w", err)
	}
	return nil
}

// FinishRun stores the final counts on the run row.
func (s *Store) FinishRun(ctx context.Context, runID int64, report *types.RunReport) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET succeeded = ?, failed = ? WHERE id = ?`,
		report.Succeeded, report.Failed, runID)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	return nil
}

// RunSummary is one row returned by Runs.
type RunSummary struct {
	ID         int64
	StartedAt  time.Time
	BaseFolder string
	TestMode   bool
	Succeeded  int
	Failed     int
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, base_folder, test_mode, succeeded, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var r RunSummary
		var startedAt string
		var testMode int
		if err := rows.Scan(&r.ID, &startedAt, &r.BaseFolder, &testMode, &r.Succeeded, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		r.TestMode = testMode != 0
		summaries = append(summaries, r)
	}
	return summaries, rows.Err()
}

// Documents returns the ledger rows for one run in processing order.
func (s *Store) Documents(ctx context.Context, runID int64) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, slug, status, stage, reason, processed_at
		 FROM documents WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var status, processedAt string
		if err := rows.Scan(&d.Path, &d.Slug, &status, &d.Stage, &d.Reason, &processedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		d.Status = types.DocumentStatus(status)
		d.ProcessedAt, _ = time.Parse(time.RFC3339, processedAt)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
