package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists mutation run history. The engine itself never writes
// here; persistence is the worker's and API's concern.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new store
func NewStore(db *DB) *Store {
	return &Store{pool: db.Pool()}
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// MutationRun is one persisted engine invocation
type MutationRun struct {
	ID           uuid.UUID       `json:"id"`
	SourcePath   string          `json:"source_path"`
	TestCommand  string          `json:"test_command"`
	Budget       string          `json:"budget"`
	Total        int             `json:"total"`
	Killed       int             `json:"killed"`
	Survived     int             `json:"survived"`
	ScorePercent int             `json:"score_percent"`
	CommitSHA    *string         `json:"commit_sha,omitempty"`
	Details      json.RawMessage `json:"details,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreateRun inserts a mutation run record
func (s *Store) CreateRun(ctx context.Context, run *MutationRun) error {
	run.ID = uuid.New()
	run.CreatedAt = time.Now()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO mutation_runs (id, source_path, test_command, budget, total, killed, survived, score_percent, commit_sha, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, run.ID, run.SourcePath, run.TestCommand, run.Budget, run.Total, run.Killed,
		run.Survived, run.ScorePercent, run.CommitSHA, run.Details, run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create mutation run: %w", err)
	}

	return nil
}

// GetRun gets a mutation run by ID
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*MutationRun, error) {
	run := &MutationRun{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, source_path, test_command, budget, total, killed, survived, score_percent, commit_sha, details, created_at
		FROM mutation_runs WHERE id = $1
	`, id).Scan(&run.ID, &run.SourcePath, &run.TestCommand, &run.Budget, &run.Total,
		&run.Killed, &run.Survived, &run.ScorePercent, &run.CommitSHA, &run.Details, &run.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mutation run: %w", err)
	}

	return run, nil
}

// ListRuns lists mutation runs, newest first
func (s *Store) ListRuns(ctx context.Context, limit, offset int) ([]MutationRun, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, source_path, test_command, budget, total, killed, survived, score_percent, commit_sha, details, created_at
		FROM mutation_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list mutation runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// ListRunsBySource lists all runs for one source path, newest first
func (s *Store) ListRunsBySource(ctx context.Context, sourcePath string, limit int) ([]MutationRun, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, source_path, test_command, budget, total, killed, survived, score_percent, commit_sha, details, created_at
		FROM mutation_runs
		WHERE source_path = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, sourcePath, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list mutation runs for %s: %w", sourcePath, err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// LatestRunForSource returns the most recent run for a source path, or nil
func (s *Store) LatestRunForSource(ctx context.Context, sourcePath string) (*MutationRun, error) {
	runs, err := s.ListRunsBySource(ctx, sourcePath, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func scanRuns(rows pgx.Rows) ([]MutationRun, error) {
	runs := make([]MutationRun, 0)
	for rows.Next() {
		var run MutationRun
		if err := rows.Scan(&run.ID, &run.SourcePath, &run.TestCommand, &run.Budget,
			&run.Total, &run.Killed, &run.Survived, &run.ScorePercent,
			&run.CommitSHA, &run.Details, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mutation run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
