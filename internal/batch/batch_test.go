package batch

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/results"
	"github.com/lox/blackjacksim/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBatch(t *testing.T) *config.Config {
	t.Helper()
	src := `
batch {
  rounds     = 200
  output_dir = "` + t.TempDir() + `"
}

run "basic" {
  strategy = "basic"
}

run "fixed_threshold_14" {
  strategy  = "fixed-threshold"
  threshold = 14
}

run "martingale" {
  strategy = "basic"
  betting  = "martingale"
}
`
	cfg, err := config.ParseConfig([]byte(src), "batch.hcl")
	require.NoError(t, err)
	return cfg
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func TestRunnerWritesFilesAndStore(t *testing.T) {
	cfg := testBatch(t)

	db, err := store.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := quartz.NewMock(t)
	clock.Set(created)
	runner := NewRunner(cfg, db, testLogger(), clock)

	var seen []string
	entries, err := runner.Run(context.Background(), func(e Entry) { seen = append(seen, e.Name) })
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"basic", "fixed_threshold_14", "martingale"}, seen)

	for _, e := range entries {
		assert.Equal(t, 200, e.Summary.Rounds)
		assert.Equal(t, results.Path(cfg.Settings.OutputDir, e.Name), e.Path)

		outcomes, err := results.Load(e.Path)
		require.NoError(t, err)
		assert.Len(t, outcomes, 200)

		run, err := db.GetRun(context.Background(), e.RunID)
		require.NoError(t, err)
		assert.Equal(t, e.Name, run.Name)
		assert.True(t, created.Equal(run.CreatedAt), "stored with the runner clock")
		assert.Equal(t, e.Summary.TotalProfit, run.Summary.TotalProfit)
	}

	runs, err := db.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRunnerWithoutStoreOrFiles(t *testing.T) {
	cfg := testBatch(t)
	runner := NewRunner(cfg, nil, nil, nil)
	runner.WriteFiles = false

	entries, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Empty(t, e.Path)
		assert.Empty(t, e.RunID)
	}

	paths, err := results.Find(cfg.Settings.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestRunnerRejectsInvalidConfig(t *testing.T) {
	cfg := testBatch(t)
	cfg.Runs[0].Strategy = "hunch"

	_, err := NewRunner(cfg, nil, testLogger(), nil).Run(context.Background(), nil)
	assert.ErrorContains(t, err, "invalid batch config")
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries, err := NewRunner(testBatch(t), nil, testLogger(), nil).Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, entries)
}
