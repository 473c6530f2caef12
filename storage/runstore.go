// Package storage provides SQLite persistence for evaluation runs.
//
// Information Hiding:
// - SQLite connection management hidden behind RunStore
// - Schema and migration details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// RunRecord summarizes one evaluation run.
type RunRecord struct {
	ID           string
	StartedAt    int64
	FinishedAt   int64
	ConfigDigest string
	TotalCases   int
	PassedCases  int
	TotalCost    float64
	Passed       bool
}

// CaseResultRecord is one sample outcome within a run.
type CaseResultRecord struct {
	RunID        string
	CaseID       string
	Category     string
	Model        string
	Provider     string
	SampleIndex  int
	Passed       bool
	Response     string
	SQLQuery     string
	Error        string
	InputTokens  int64
	OutputTokens int64
	TotalCost    float64
}

// RunStore persists evaluation runs in SQLite.
type RunStore struct {
	db *sql.DB
}

// Open opens or creates a run store at the given path.
// Creates parent directories if they don't exist.
func Open(path string) (*RunStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	return newRunStore(db)
}

// NewInMemory creates an in-memory run store (useful for testing).
func NewInMemory() (*RunStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}
	// One pooled connection, or each would see its own empty database.
	db.SetMaxOpenConns(1)
	return newRunStore(db)
}

func newRunStore(db *sql.DB) (*RunStore, error) {
	store := &RunStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

func (s *RunStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			config_digest TEXT NOT NULL DEFAULT '',
			total_cases INTEGER NOT NULL,
			passed_cases INTEGER NOT NULL,
			total_cost REAL NOT NULL DEFAULT 0,
			passed INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS case_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			case_id TEXT NOT NULL,
			category TEXT NOT NULL,
			model TEXT NOT NULL,
			provider TEXT NOT NULL,
			sample_index INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			response TEXT NOT NULL DEFAULT '',
			sql_query TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			total_cost REAL NOT NULL DEFAULT 0,
			FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
			UNIQUE(run_id, case_id, model, sample_index)
		);

		CREATE INDEX IF NOT EXISTS idx_case_results_run
		ON case_results(run_id);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRun persists a run and all its case results in one transaction.
func (s *RunStore) SaveRun(ctx context.Context, run RunRecord, results []CaseResultRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, started_at, finished_at, config_digest, total_cases, passed_cases, total_cost, passed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		run.ConfigDigest,
		run.TotalCases,
		run.PassedCases,
		run.TotalCost,
		run.Passed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO case_results
		(run_id, case_id, category, model, provider, sample_index, passed, response, sql_query, error, input_tokens, output_tokens, total_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		_, err = stmt.ExecContext(ctx,
			run.ID,
			r.CaseID,
			r.Category,
			r.Model,
			r.Provider,
			r.SampleIndex,
			r.Passed,
			r.Response,
			r.SQLQuery,
			r.Error,
			r.InputTokens,
			r.OutputTokens,
			r.TotalCost,
		)
		if err != nil {
			return fmt.Errorf("failed to insert case result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadRun loads a run and its case results.
// Returns nil, nil, nil if the run doesn't exist.
func (s *RunStore) LoadRun(ctx context.Context, runID string) (*RunRecord, []CaseResultRecord, error) {
	var run RunRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, started_at, finished_at, config_digest, total_cases, passed_cases, total_cost, passed
		FROM runs WHERE run_id = ?`,
		runID).Scan(
		&run.ID,
		&run.StartedAt,
		&run.FinishedAt,
		&run.ConfigDigest,
		&run.TotalCases,
		&run.PassedCases,
		&run.TotalCost,
		&run.Passed,
	)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, case_id, category, model, provider, sample_index, passed, response, sql_query, error, input_tokens, output_tokens, total_cost
		FROM case_results
		WHERE run_id = ?
		ORDER BY case_id, model, sample_index`,
		runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query case results: %w", err)
	}
	defer rows.Close()

	results := []CaseResultRecord{}
	for rows.Next() {
		var r CaseResultRecord
		err := rows.Scan(
			&r.RunID,
			&r.CaseID,
			&r.Category,
			&r.Model,
			&r.Provider,
			&r.SampleIndex,
			&r.Passed,
			&r.Response,
			&r.SQLQuery,
			&r.Error,
			&r.InputTokens,
			&r.OutputTokens,
			&r.TotalCost,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan case result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating case results: %w", err)
	}

	return &run, results, nil
}

// ListRuns lists all runs, most recent first.
func (s *RunStore) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, started_at, finished_at, config_digest, total_cases, passed_cases, total_cost, passed
		FROM runs
		ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		var run RunRecord
		err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&run.FinishedAt,
			&run.ConfigDigest,
			&run.TotalCases,
			&run.PassedCases,
			&run.TotalCost,
			&run.Passed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// DeleteRun removes a run and its case results.
func (s *RunStore) DeleteRun(ctx context.Context, runID string) error {
	// Cascade requires foreign keys enabled; delete both tables explicitly.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM case_results WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("failed to delete case results: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
