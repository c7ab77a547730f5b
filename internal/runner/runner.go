// Package runner executes Gherkin feature suites through godog,
// records per-scenario outcomes, persists them as a run in the store,
// and optionally reports the run to an issue tracker.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nhle/cucumber-basket/internal/model"
	"github.com/nhle/cucumber-basket/internal/store"
)

// Reporter publishes a finished run somewhere external (e.g. Jira).
// Implementations return an identifier for the created report.
type Reporter interface {
	Report(ctx context.Context, run model.Run, results []model.ScenarioResult) (string, error)
}

// Suite describes one runnable feature suite.
type Suite struct {
	// Name labels the suite in run history (e.g. "cucumbers").
	Name string

	// Paths are the feature files or directories to execute.
	Paths []string

	// FeatureContents allows supplying features inline instead of
	// (or in addition to) Paths.
	FeatureContents []godog.Feature

	// Initializer registers the suite's step definitions.
	Initializer func(*godog.ScenarioContext)
}

// Runner executes suites and handles their bookkeeping.
type Runner struct {
	store       store.Store
	reporter    Reporter
	environment string
	output      io.Writer
	log         zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithStore persists runs and scenario results.
func WithStore(s store.Store) Option {
	return func(r *Runner) { r.store = s }
}

// WithReporter publishes finished runs through the given reporter.
func WithReporter(rep Reporter) Option {
	return func(r *Runner) { r.reporter = rep }
}

// WithEnvironment labels runs with the given environment name.
func WithEnvironment(env string) Option {
	return func(r *Runner) { r.environment = env }
}

// WithOutput redirects godog's progress output (defaults to stdout).
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.output = w }
}

// New creates a Runner. Without options it only executes suites and
// returns results in memory.
func New(log zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{
		environment: "local",
		output:      os.Stdout,
		log:         log.With().Str("component", "runner").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the suite and returns the finished run and its scenario
// results. Suite failures are reflected in the run counters, not in the
// returned error; the error covers execution and persistence problems.
func (r *Runner) Run(ctx context.Context, suite Suite) (*model.Run, []model.ScenarioResult, error) {
	if suite.Name == "" {
		return nil, nil, fmt.Errorf("suite needs a name")
	}
	if suite.Initializer == nil {
		return nil, nil, fmt.Errorf("suite %s needs an initializer", suite.Name)
	}

	run := model.Run{
		ID:          uuid.New().String(),
		Suite:       suite.Name,
		Environment: r.environment,
		StartedAt:   time.Now().UTC(),
	}

	if r.store != nil {
		if err := r.store.CreateRun(ctx, run); err != nil {
			return nil, nil, fmt.Errorf("recording run start: %w", err)
		}
	}

	r.log.Info().Str("suite", suite.Name).Str("run", run.ID).Msg("suite starting")

	recorder := NewRecorder()
	godogSuite := godog.TestSuite{
		Name: suite.Name,
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			recorder.Install(sc)
			suite.Initializer(sc)
		},
		Options: &godog.Options{
			Format:          "pretty",
			Paths:           suite.Paths,
			FeatureContents: suite.FeatureContents,
			Output:          r.output,
			Strict:          true,
		},
	}
	status := godogSuite.Run()

	results := recorder.Results()
	run.Total, run.Passed, run.Failed = recorder.Summary()
	run.FinishedAt = time.Now().UTC()

	// A non-zero godog status with no recorded failure means the suite
	// never ran its scenarios (e.g. missing feature files).
	if status != 0 && run.Failed == 0 {
		return nil, nil, fmt.Errorf("suite %s did not run cleanly (status %d)", suite.Name, status)
	}

	r.log.Info().
		Str("suite", suite.Name).
		Int("total", run.Total).
		Int("passed", run.Passed).
		Int("failed", run.Failed).
		Msg("suite finished")

	if r.store != nil {
		for i := range results {
			results[i].RunID = run.ID
			if err := r.store.AddScenarioResult(ctx, results[i]); err != nil {
				return nil, nil, fmt.Errorf("recording scenario result: %w", err)
			}
		}
		if err := r.store.FinishRun(ctx, run); err != nil {
			return nil, nil, fmt.Errorf("recording run finish: %w", err)
		}
	}

	if r.reporter != nil {
		key, err := r.reporter.Report(ctx, run, results)
		if err != nil {
			// Reporting is best-effort; the run itself is intact.
			r.log.Warn().Err(err).Str("suite", suite.Name).Msg("reporting run failed")
		} else {
			r.log.Info().Str("issue", key).Msg("run reported")
		}
	}

	return &run, results, nil
}
