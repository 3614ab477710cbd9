// Package db provides optional PostgreSQL persistence for optimization runs.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// schema creates the run tables when missing
const schema = `
CREATE TABLE IF NOT EXISTS optimization_runs (
	id           UUID PRIMARY KEY,
	role         TEXT NOT NULL,
	status       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS run_results (
	run_id     UUID PRIMARY KEY REFERENCES optimization_runs(id) ON DELETE CASCADE,
	result     JSONB NOT NULL,
	document   TEXT,
	total      DOUBLE PRECISION NOT NULL,
	grade      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_optimization_runs_created_at ON optimization_runs (created_at DESC);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the run tables if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// CreateRun records a new run in the running state
func (db *DB) CreateRun(ctx context.Context, runID uuid.UUID, role string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO optimization_runs (id, role, status) VALUES ($1, $2, $3)`,
		runID, role, RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun marks a run with a terminal status
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE optimization_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveResult stores the structured result of a run, replacing any earlier one
func (db *DB) SaveResult(ctx context.Context, result *types.RunResult) error {
	runID, err := uuid.Parse(result.RunID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", result.RunID, err)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO run_results (run_id, result, document, total, grade)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (run_id) DO UPDATE
		 SET result = $2, document = $3, total = $4, grade = $5, created_at = NOW()`,
		runID, jsonBytes, result.Document, result.Score.Total, result.Score.Grade,
	)
	if err != nil {
		return fmt.Errorf("failed to save result for run %s: %w", runID, err)
	}
	return nil
}

// GetRun retrieves a run by ID. A missing run returns nil, nil.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT r.id, r.role, r.status, res.total, res.grade, r.created_at, r.completed_at
		 FROM optimization_runs r
		 LEFT JOIN run_results res ON res.run_id = r.id
		 WHERE r.id = $1`,
		runID,
	).Scan(&run.ID, &run.Role, &run.Status, &run.Total, &run.Grade, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// GetResult retrieves the stored result of a run. A run without a result
// returns nil, nil.
func (db *DB) GetResult(ctx context.Context, runID uuid.UUID) (*types.RunResult, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT result FROM run_results WHERE run_id = $1`,
		runID,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result types.RunResult
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// ListRuns retrieves the most recent runs
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT r.id, r.role, r.status, res.total, res.grade, r.created_at, r.completed_at
		 FROM optimization_runs r
		 LEFT JOIN run_results res ON res.run_id = r.id
		 ORDER BY r.created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Role, &run.Status, &run.Total, &run.Grade, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
