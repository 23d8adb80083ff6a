package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pvaneck/refstack/internal/evaluate"
)

// StoreRun inserts a test run with its results and metadata in one
// transaction. Returns the run id (generated when run.ID is empty).
//
// Uses ON CONFLICT DO NOTHING for idempotency - re-storing a run with the
// same id, or re-adding an already recorded test name, is silently ignored.
func (s *Store) StoreRun(ctx context.Context, run Run) (string, error) {
	id := run.ID
	if id == "" {
		id = uuid.NewString()
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("store run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, cpid, duration_seconds, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, run.CPID, run.DurationSeconds, createdAt.UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("store run: insert run: %w", err)
	}

	for _, name := range run.Results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_results (run_id, test_name)
			VALUES (?, ?)
			ON CONFLICT(run_id, test_name) DO NOTHING
		`, id, name)
		if err != nil {
			return "", fmt.Errorf("store run: insert result %q: %w", name, err)
		}
	}

	for key, value := range run.Metadata {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_meta (run_id, meta_key, value)
			VALUES (?, ?, ?)
			ON CONFLICT(run_id, meta_key) DO NOTHING
		`, id, key, value)
		if err != nil {
			return "", fmt.Errorf("store run: insert meta %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store run: commit: %w", err)
	}

	return id, nil
}

// StoreReport persists a compliance report for a run in canonical JSON form,
// keyed by (run, guideline version). Re-storing is silently ignored.
//
// Note: The run referenced by runID must exist (foreign key constraint).
func (s *Store) StoreReport(ctx context.Context, runID string, report *evaluate.Report) error {
	payload, err := report.CanonicalJSON()
	if err != nil {
		return fmt.Errorf("store report: %w", err)
	}

	hash, err := report.Hash()
	if err != nil {
		return fmt.Errorf("store report: %w", err)
	}

	overall := 0
	if report.Overall {
		overall = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (run_id, guideline_version, overall, hash, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, guideline_version) DO NOTHING
	`, runID, report.Version, overall, hash, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store report: insert: %w", err)
	}

	return nil
}
