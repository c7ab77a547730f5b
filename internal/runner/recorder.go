package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cucumber/godog"

	"github.com/nhle/cucumber-basket/internal/model"
)

// Recorder collects scenario outcomes from godog hooks. godog may run
// scenarios concurrently, so access is guarded.
type Recorder struct {
	mu      sync.Mutex
	started map[string]time.Time
	results []model.ScenarioResult
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		started: make(map[string]time.Time),
	}
}

// Install registers the Before/After scenario hooks on the context.
func (rec *Recorder) Install(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		rec.mu.Lock()
		rec.started[scenario.Id] = time.Now()
		rec.mu.Unlock()
		return ctx, nil
	})

	sc.After(func(ctx context.Context, scenario *godog.Scenario, err error) (context.Context, error) {
		rec.mu.Lock()
		defer rec.mu.Unlock()

		result := model.ScenarioResult{
			Name:       scenario.Name,
			FeatureURI: scenario.Uri,
			Status:     model.StatusPassed,
		}
		if started, ok := rec.started[scenario.Id]; ok {
			result.Duration = time.Since(started)
			delete(rec.started, scenario.Id)
		}
		if err != nil {
			if errors.Is(err, godog.ErrSkip) || errors.Is(err, godog.ErrPending) {
				result.Status = model.StatusSkipped
			} else {
				result.Status = model.StatusFailed
				result.FailureMessage = err.Error()
			}
		}

		rec.results = append(rec.results, result)
		return ctx, nil
	})
}

// Results returns a copy of the collected scenario results.
func (rec *Recorder) Results() []model.ScenarioResult {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	out := make([]model.ScenarioResult, len(rec.results))
	copy(out, rec.results)
	return out
}

// Summary tallies the collected results into the run's counters.
func (rec *Recorder) Summary() (total, passed, failed int) {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	for _, r := range rec.results {
		total++
		switch r.Status {
		case model.StatusPassed:
			passed++
		case model.StatusFailed:
			failed++
		}
	}
	return total, passed, failed
}
