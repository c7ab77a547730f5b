package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/cucumber-basket/internal/model"
)

// CreateRun inserts a new run row. Generates a UUID if ID is empty and
// defaults StartedAt to now.
func (s *SQLiteStore) CreateRun(ctx context.Context, run model.Run) error {
	if strings.TrimSpace(run.Suite) == "" {
		return fmt.Errorf("run suite must not be empty")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, suite, environment, started_at, finished_at,
			total, passed, failed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Suite, run.Environment,
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Total, run.Passed, run.Failed,
	)
	if err != nil {
		return fmt.Errorf("creating run %s: %w", run.ID, err)
	}
	return nil
}

// FinishRun updates the completion timestamp and scenario counts of an
// existing run.
func (s *SQLiteStore) FinishRun(ctx context.Context, run model.Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs SET
			finished_at = ?, total = ?, passed = ?, failed = ?
		WHERE id = ?`,
		run.FinishedAt.UTC(), run.Total, run.Passed, run.Failed,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", run.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("run %s not found", run.ID)
	}
	return nil
}

// GetRuns retrieves runs matching the provided filter options.
func (s *SQLiteStore) GetRuns(
	ctx context.Context,
	filter RunFilter,
) ([]model.Run, error) {
	var conditions []string
	var args []interface{}

	if filter.Suite != nil {
		conditions = append(conditions, "suite = ?")
		args = append(args, *filter.Suite)
	}
	if filter.FailedOnly {
		conditions = append(conditions, "failed > 0")
	}

	query := "SELECT id, suite, environment, started_at, finished_at, total, passed, failed FROM runs"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	switch sortBy {
	case "suite", "failed", "started_at":
	default:
		sortBy = "started_at"
	}
	query += " ORDER BY " + sortBy
	if filter.SortDesc {
		query += " DESC"
	}

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	var runs []model.Run
	if err := s.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	return runs, nil
}

// GetRunByID retrieves a single run by ID. Returns (nil, nil) when no
// run with that ID exists.
func (s *SQLiteStore) GetRunByID(ctx context.Context, id string) (*model.Run, error) {
	var run model.Run
	err := s.db.GetContext(ctx, &run, `
		SELECT id, suite, environment, started_at, finished_at, total, passed, failed
		FROM runs WHERE id = ?`, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying run %s: %w", id, err)
	}
	return &run, nil
}

// PruneRuns deletes all but the keep most recent runs. Scenario results
// cascade via the foreign key.
func (s *SQLiteStore) PruneRuns(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("pruning runs: %w", err)
	}
	return nil
}
