package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/cucumber-basket/internal/model"
)

// AddScenarioResult inserts a scenario result for an existing run.
// Generates a UUID if ID is empty.
func (s *SQLiteStore) AddScenarioResult(
	ctx context.Context,
	result model.ScenarioResult,
) error {
	if strings.TrimSpace(result.Name) == "" {
		return fmt.Errorf("scenario name must not be empty")
	}
	if result.RunID == "" {
		return fmt.Errorf("scenario result needs a run id")
	}
	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	switch result.Status {
	case model.StatusPassed, model.StatusFailed, model.StatusSkipped:
	default:
		return fmt.Errorf("invalid scenario status %q", result.Status)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scenario_results (
			id, run_id, name, feature_uri, status,
			duration_ns, failure_message
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.RunID, result.Name, result.FeatureURI,
		result.Status, int64(result.Duration), result.FailureMessage,
	)
	if err != nil {
		return fmt.Errorf("adding scenario result %q: %w", result.Name, err)
	}
	return nil
}

// GetScenarioResults retrieves all scenario results for a run in
// insertion order.
func (s *SQLiteStore) GetScenarioResults(
	ctx context.Context,
	runID string,
) ([]model.ScenarioResult, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, run_id, name, feature_uri, status, duration_ns, failure_message
		FROM scenario_results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying scenario results for run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []model.ScenarioResult
	for rows.Next() {
		var r model.ScenarioResult
		var durationNS int64
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Name, &r.FeatureURI,
			&r.Status, &durationNS, &r.FailureMessage,
		); err != nil {
			return nil, fmt.Errorf("scanning scenario result: %w", err)
		}
		r.Duration = time.Duration(durationNS)
		results = append(results, r)
	}
	return results, rows.Err()
}
