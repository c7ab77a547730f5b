package store

import (
	"context"

	"github.com/nhle/cucumber-basket/internal/model"
)

// RunFilter controls filtering, sorting, and pagination for run queries.
type RunFilter struct {
	Suite      *string // suite name or nil (all)
	FailedOnly bool    // only runs with at least one failed scenario
	SortBy     string  // "started_at", "suite", "failed"
	SortDesc   bool
	Limit      int
	Offset     int
}

// Store defines the persistence interface for runs and their scenario
// results.
type Store interface {
	// === Runs ===

	CreateRun(ctx context.Context, run model.Run) error
	FinishRun(ctx context.Context, run model.Run) error
	GetRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	GetRunByID(ctx context.Context, id string) (*model.Run, error)

	// PruneRuns deletes all but the most recent keep runs, cascading
	// to their scenario results.
	PruneRuns(ctx context.Context, keep int) error

	// === Scenario results ===

	AddScenarioResult(ctx context.Context, result model.ScenarioResult) error
	GetScenarioResults(ctx context.Context, runID string) ([]model.ScenarioResult, error)
}
