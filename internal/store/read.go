package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// GetRun returns a stored run with its results and metadata.
// Returns ErrRunNotFound if the id does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{ID: id}

	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT cpid, duration_seconds, created_at FROM runs WHERE id = ?
	`, id).Scan(&run.CPID, &run.DurationSeconds, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("get run: parse created_at: %w", err)
	}

	run.Results, err = s.RunResults(ctx, id)
	if err != nil {
		return nil, err
	}

	run.Metadata, err = s.runMeta(ctx, id)
	if err != nil {
		return nil, err
	}

	return run, nil
}

// RunResults returns the passed test names of a run, ordered by name.
// The list feeds directly into evaluate.NewSubmission.
func (s *Store) RunResults(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT test_name FROM run_results WHERE run_id = ? ORDER BY test_name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("run results: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("run results: scan: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("run results: %w", err)
	}
	return names, nil
}

func (s *Store) runMeta(ctx context.Context, id string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT meta_key, value FROM run_meta WHERE run_id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("run meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("run meta: scan: %w", err)
		}
		meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("run meta: %w", err)
	}
	return meta, nil
}

// filterClauses builds the WHERE fragment and args for run listing filters.
func filterClauses(f Filters) (string, []any) {
	var clauses []string
	var args []any

	if f.CPID != "" {
		clauses = append(clauses, "cpid = ?")
		args = append(args, f.CPID)
	}
	if !f.Start.IsZero() {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, f.Start.UTC().Format(time.RFC3339))
	}
	if !f.End.IsZero() {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, f.End.UTC().Format(time.RFC3339))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListRuns returns one page of run records matching the filters, newest
// first. Pages are 1-based; use CountRuns with PageCount to bound page.
func (s *Store) ListRuns(ctx context.Context, page, perPage int, f Filters) ([]RunRecord, error) {
	if page < 1 {
		return nil, &InvalidPageError{Page: page, Reason: "page number must be positive"}
	}
	if perPage < 1 {
		return nil, fmt.Errorf("list runs: per-page must be positive, got %d", perPage)
	}

	where, args := filterClauses(f)
	query := `SELECT id, cpid, created_at FROM runs` + where +
		` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, perPage, perPage*(page-1))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.CPID, &createdAt); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("list runs: parse created_at: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return records, nil
}

// CountRuns returns the total number of runs matching the filters.
func (s *Store) CountRuns(ctx context.Context, f Filters) (int, error) {
	where, args := filterClauses(f)
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

// GetReport returns the stored report for (run, guideline version).
// Returns ErrReportNotFound if none is stored.
func (s *Store) GetReport(ctx context.Context, runID, guidelineVersion string) (*StoredReport, error) {
	rep := &StoredReport{RunID: runID, GuidelineVersion: guidelineVersion}

	var overall int
	var payload, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT overall, hash, payload, created_at
		FROM reports WHERE run_id = ? AND guideline_version = ?
	`, runID, guidelineVersion).Scan(&overall, &rep.Hash, &payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	rep.Overall = overall != 0
	rep.Payload = []byte(payload)
	rep.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("get report: parse created_at: %w", err)
	}
	return rep, nil
}
