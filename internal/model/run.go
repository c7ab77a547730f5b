package model

import "time"

// Scenario result statuses as recorded by the runner.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Run is a single execution of a feature suite.
type Run struct {
	// ID is the internal unique identifier for this run.
	ID string `json:"id" db:"id"`

	// Suite is the name of the feature suite that was executed
	// (e.g., "cucumbers", "duckduckgo_api", "web").
	Suite string `json:"suite" db:"suite"`

	// Environment is a free-form label describing where the suite ran
	// (e.g., "local", "ci", a browser name in the web suites).
	Environment string `json:"environment" db:"environment"`

	// StartedAt is when the suite execution began.
	StartedAt time.Time `json:"started_at" db:"started_at"`

	// FinishedAt is when the suite execution completed.
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`

	// Total, Passed, and Failed are scenario counts for the run.
	Total  int `json:"total" db:"total"`
	Passed int `json:"passed" db:"passed"`
	Failed int `json:"failed" db:"failed"`
}

// PassRate returns the fraction of passed scenarios in percent.
// A run with no scenarios has a pass rate of zero.
func (r Run) PassRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total) * 100
}

// Succeeded reports whether every scenario in the run passed.
func (r Run) Succeeded() bool {
	return r.Total > 0 && r.Failed == 0
}

// ScenarioResult is the outcome of a single Gherkin scenario within a run.
type ScenarioResult struct {
	// ID is the internal unique identifier for this result.
	ID string `json:"id" db:"id"`

	// RunID references the run this result belongs to.
	RunID string `json:"run_id" db:"run_id"`

	// Name is the scenario name from the feature file.
	Name string `json:"name" db:"name"`

	// FeatureURI is the path of the feature file the scenario came from.
	FeatureURI string `json:"feature_uri" db:"feature_uri"`

	// Status is one of the Status* constants.
	Status string `json:"status" db:"status"`

	// Duration is how long the scenario took to execute.
	Duration time.Duration `json:"duration" db:"duration"`

	// FailureMessage holds the first step error for failed scenarios.
	FailureMessage string `json:"failure_message" db:"failure_message"`
}
