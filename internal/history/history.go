// Package history keeps a local ledger of extraction runs and quality checks
// in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run records one extraction round trip.
type Run struct {
	ID         string
	Provider   string
	Model      string
	InputPath  string
	OutputPath string
	Cached     bool
	Duration   time.Duration
	CreatedAt  time.Time
}

// CheckResult records one scored artifact.
type CheckResult struct {
	ID           string
	ArtifactPath string
	Score        int
	Grade        string
	CreatedAt    time.Time
}

// Store is the ledger contract; NopStore disables recording.
type Store interface {
	RecordRun(ctx context.Context, run Run) error
	RecordCheck(ctx context.Context, res CheckResult) error
	RecentRuns(ctx context.Context, n int) ([]Run, error)
	RecentChecks(ctx context.Context, n int) ([]CheckResult, error)
	Close() error
}

// SQLiteStore persists the ledger in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the ledger database at dbPath and ensures the
// schema exists.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS extraction_runs (
		id          TEXT PRIMARY KEY,
		provider    TEXT NOT NULL,
		model       TEXT NOT NULL,
		input_path  TEXT NOT NULL,
		output_path TEXT NOT NULL,
		cached      INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at  DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS check_results (
		id            TEXT PRIMARY KEY,
		artifact_path TEXT NOT NULL,
		score         INTEGER NOT NULL,
		grade         TEXT NOT NULL,
		created_at    DATETIME NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// RecordRun inserts one extraction run; a missing ID or timestamp is filled in.
func (s *SQLiteStore) RecordRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extraction_runs (id, provider, model, input_path, output_path, cached, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Provider, run.Model, run.InputPath, run.OutputPath,
		boolToInt(run.Cached), run.Duration.Milliseconds(), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("recording extraction run: %w", err)
	}
	return nil
}

// RecordCheck inserts one check result; a missing ID or timestamp is filled in.
func (s *SQLiteStore) RecordCheck(ctx context.Context, res CheckResult) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO check_results (id, artifact_path, score, grade, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		res.ID, res.ArtifactPath, res.Score, res.Grade, res.CreatedAt)
	if err != nil {
		return fmt.Errorf("recording check result: %w", err)
	}
	return nil
}

// RecentRuns returns up to n runs, newest first.
func (s *SQLiteStore) RecentRuns(ctx context.Context, n int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, provider, model, input_path, output_path, cached, duration_ms, created_at
		 FROM extraction_runs ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("listing extraction runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var cached int
		var durationMS int64
		if err := rows.Scan(&r.ID, &r.Provider, &r.Model, &r.InputPath, &r.OutputPath, &cached, &durationMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning extraction run: %w", err)
		}
		r.Cached = cached != 0
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RecentChecks returns up to n check results, newest first.
func (s *SQLiteStore) RecentChecks(ctx context.Context, n int) ([]CheckResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, artifact_path, score, grade, created_at
		 FROM check_results ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("listing check results: %w", err)
	}
	defer rows.Close()

	var results []CheckResult
	for rows.Next() {
		var c CheckResult
		if err := rows.Scan(&c.ID, &c.ArtifactPath, &c.Score, &c.Grade, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning check result: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
