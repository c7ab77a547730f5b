package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/cucumber-basket/internal/model"
	"github.com/nhle/cucumber-basket/internal/store"
	"github.com/nhle/cucumber-basket/tests/testutil"
)

func newRun(suite string, started time.Time, passed, failed int) model.Run {
	return model.Run{
		Suite:       suite,
		Environment: "local",
		StartedAt:   started,
		FinishedAt:  started.Add(3 * time.Second),
		Total:       passed + failed,
		Passed:      passed,
		Failed:      failed,
	}
}

func TestCreateAndGetRun(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	run := newRun("cucumbers", time.Now().UTC(), 5, 0)
	run.ID = "run-1"
	require.NoError(t, s.CreateRun(ctx, run))

	got, err := s.GetRunByID(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cucumbers", got.Suite)
	assert.Equal(t, "local", got.Environment)
	assert.Equal(t, 5, got.Passed)
	assert.True(t, got.Succeeded())
}

func TestCreateRunRequiresSuite(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.CreateRun(context.Background(), model.Run{})
	assert.Error(t, err)
}

func TestGetRunByIDMissing(t *testing.T) {
	s := testutil.NewTestStore(t)

	got, err := s.GetRunByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFinishRun(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	run := newRun("web", time.Now().UTC(), 0, 0)
	run.ID = "run-2"
	require.NoError(t, s.CreateRun(ctx, run))

	run.Total = 3
	run.Passed = 2
	run.Failed = 1
	run.FinishedAt = run.StartedAt.Add(time.Minute)
	require.NoError(t, s.FinishRun(ctx, run))

	got, err := s.GetRunByID(ctx, "run-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 1, got.Failed)
	assert.False(t, got.Succeeded())
}

func TestFinishRunMissing(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.FinishRun(context.Background(), model.Run{ID: "ghost"})
	assert.Error(t, err)
}

func TestGetRunsFilterAndSort(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateRun(ctx, newRun("cucumbers", base, 5, 0)))
	require.NoError(t, s.CreateRun(ctx, newRun("web", base.Add(time.Hour), 2, 1)))
	require.NoError(t, s.CreateRun(ctx, newRun("cucumbers", base.Add(2*time.Hour), 4, 1)))

	suite := "cucumbers"
	runs, err := s.GetRuns(ctx, store.RunFilter{Suite: &suite, SortBy: "started_at", SortDesc: true})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))

	failed, err := s.GetRuns(ctx, store.RunFilter{FailedOnly: true})
	require.NoError(t, err)
	assert.Len(t, failed, 2)

	limited, err := s.GetRuns(ctx, store.RunFilter{Limit: 1, SortBy: "started_at"})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestScenarioResults(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	run := newRun("cucumbers", time.Now().UTC(), 1, 1)
	run.ID = "run-3"
	require.NoError(t, s.CreateRun(ctx, run))

	require.NoError(t, s.AddScenarioResult(ctx, model.ScenarioResult{
		RunID:      "run-3",
		Name:       "Add cucumbers to a basket",
		FeatureURI: "features/cucumbers.feature",
		Status:     model.StatusPassed,
		Duration:   40 * time.Millisecond,
	}))
	require.NoError(t, s.AddScenarioResult(ctx, model.ScenarioResult{
		RunID:          "run-3",
		Name:           "Overfilling the basket fails and leaves it unchanged",
		FeatureURI:     "features/cucumbers.feature",
		Status:         model.StatusFailed,
		Duration:       12 * time.Millisecond,
		FailureMessage: "expected capacity error",
	}))

	results, err := s.GetScenarioResults(ctx, "run-3")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, model.StatusPassed, results[0].Status)
	assert.Equal(t, 40*time.Millisecond, results[0].Duration)
	assert.Equal(t, "expected capacity error", results[1].FailureMessage)
}

func TestAddScenarioResultValidation(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	err := s.AddScenarioResult(ctx, model.ScenarioResult{RunID: "r", Status: model.StatusPassed})
	assert.Error(t, err, "empty name rejected")

	err = s.AddScenarioResult(ctx, model.ScenarioResult{Name: "x", Status: model.StatusPassed})
	assert.Error(t, err, "missing run id rejected")

	err = s.AddScenarioResult(ctx, model.ScenarioResult{RunID: "r", Name: "x", Status: "exploded"})
	assert.Error(t, err, "unknown status rejected")
}

func TestPruneRuns(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.CreateRun(ctx, newRun("cucumbers", base.Add(time.Duration(i)*time.Hour), 1, 0)))
	}

	require.NoError(t, s.PruneRuns(ctx, 2))

	runs, err := s.GetRuns(ctx, store.RunFilter{SortBy: "started_at", SortDesc: true})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, base.Add(4*time.Hour), runs[0].StartedAt.UTC())
}
