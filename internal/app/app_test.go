package app

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/cucumber-basket/internal/model"
	"github.com/nhle/cucumber-basket/tests/testutil"
)

func newTestModel(t *testing.T) Model {
	t.Helper()

	cfg := &model.AppConfig{}
	s := testutil.NewTestStore(t)
	return New(cfg, t.TempDir()+"/config.yaml", s, zerolog.Nop())
}

func TestLoadRunReturnsStoredRun(t *testing.T) {
	m := newTestModel(t)

	run := model.Run{ID: "run-1", Suite: "basket", Total: 3, Passed: 3}
	require.NoError(t, m.store.CreateRun(context.Background(), run))

	msg := m.loadRun(run.ID)()
	loaded, ok := msg.(runLoadedMsg)
	require.True(t, ok, "expected a runLoadedMsg, got %T", msg)

	require.NoError(t, loaded.err)
	require.NotNil(t, loaded.run)
	assert.Equal(t, run.ID, loaded.run.ID)
}

func TestLoadRunSurfacesMissingRun(t *testing.T) {
	m := newTestModel(t)

	msg := m.loadRun("no-such-run")()
	loaded, ok := msg.(runLoadedMsg)
	require.True(t, ok, "expected a runLoadedMsg, got %T", msg)
	require.Error(t, loaded.err)
	assert.Contains(t, loaded.err.Error(), "not found")

	// The error lands in the status bar instead of being swallowed.
	updated, _ := m.Update(loaded)
	am, ok := updated.(Model)
	require.True(t, ok)
	assert.Contains(t, am.keyHints(), "Loading run failed")
}
