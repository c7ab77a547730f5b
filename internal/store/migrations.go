package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	suite       TEXT NOT NULL,
	environment TEXT NOT NULL DEFAULT '',
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL DEFAULT '0001-01-01 00:00:00',
	total       INTEGER NOT NULL DEFAULT 0,
	passed      INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS scenario_results (
	id              TEXT PRIMARY KEY,
	run_id          TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	name            TEXT NOT NULL,
	feature_uri     TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL CHECK(status IN ('passed', 'failed', 'skipped')),
	duration_ns     INTEGER NOT NULL DEFAULT 0,
	failure_message TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_suite ON runs(suite);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_failed ON runs(failed);
CREATE INDEX IF NOT EXISTS idx_scenario_results_run_id ON scenario_results(run_id);
CREATE INDEX IF NOT EXISTS idx_scenario_results_status ON scenario_results(status);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
