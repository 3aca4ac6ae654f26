package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/game"
	"github.com/lox/blackjacksim/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("blackjack-sim"),
		kong.Vars{"version": "test", "strategies": strategyNames()},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestRunCommandDefaults(t *testing.T) {
	cli, ctx := parse(t, "run")
	assert.Equal(t, "run", ctx.Command())
	assert.Equal(t, "basic", cli.Run.Strategy)
	assert.Equal(t, 100000, cli.Run.Rounds)
	assert.True(t, cli.Run.Reshuffle)
	assert.True(t, cli.Run.DoubleAfterSplit)
	assert.Equal(t, 6, cli.Run.Decks)
}

func TestRunCommandFlags(t *testing.T) {
	cli, _ := parse(t, "run", "--strategy", "fixed-threshold", "--threshold", "17",
		"--no-reshuffle", "--betting", "martingale", "-n", "500")
	assert.Equal(t, "fixed-threshold", cli.Run.Strategy)
	assert.Equal(t, 17, cli.Run.Threshold)
	assert.False(t, cli.Run.Reshuffle)
	assert.Equal(t, "martingale", cli.Run.Betting)
	assert.Equal(t, 500, cli.Run.Rounds)
}

func TestRunCommandRejectsUnknownStrategy(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test", "strategies": strategyNames()})
	require.NoError(t, err)
	_, err = parser.Parse([]string{"run", "--strategy", "psychic"})
	assert.Error(t, err)
}

func TestBatchOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cmd := BatchCmd{Rounds: 250, Output: "out", Database: "runs.db"}
	require.NoError(t, cmd.applyOverrides(cfg))

	assert.Equal(t, 250, cfg.Settings.Rounds)
	assert.Equal(t, "out", cfg.Settings.OutputDir)
	assert.Equal(t, "runs.db", cfg.Settings.Database)
	for _, run := range cfg.Runs {
		assert.Equal(t, 250, run.Rounds, run.Name)
	}
}

func TestBatchOnlySelectsRuns(t *testing.T) {
	cfg := config.DefaultConfig()
	cmd := BatchCmd{Only: []string{"martingale", "basic"}, Rounds: 50}
	require.NoError(t, cmd.applyOverrides(cfg))

	require.Len(t, cfg.Runs, 2)
	assert.Equal(t, "martingale", cfg.Runs[0].Name)
	assert.Equal(t, "basic", cfg.Runs[1].Name)
	assert.Equal(t, 50, cfg.Runs[0].Rounds)

	cmd = BatchCmd{Config: "batch.hcl", Only: []string{"missing"}}
	err := cmd.applyOverrides(config.DefaultConfig())
	assert.ErrorContains(t, err, `no run named "missing"`)
}

func TestAnalyzeFromFiles(t *testing.T) {
	dir := t.TempDir()
	outcomes := []game.Outcome{
		{Result: game.ResultWin, Profit: 10, Bet: 10},
		{Result: game.ResultLoss, Profit: -10, Bet: 10},
		{Result: game.ResultWin, Profit: 20, Bet: 10},
	}
	_, err := results.Save(dir, "basic", outcomes)
	require.NoError(t, err)
	_, err = results.Save(dir, "mimic_dealer", outcomes[:2])
	require.NoError(t, err)

	cmd := AnalyzeCmd{Dir: dir, Bankroll: 100}
	reports, err := cmd.fromFiles(t.Context())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "basic", reports[0].Name)
	assert.Equal(t, 3, reports[0].N)
	assert.Equal(t, "mimic_dealer", reports[1].Name)
}

func TestAnalyzeFromFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	_, err := results.Save(dir, "basic", []game.Outcome{{Result: game.ResultWin, Profit: 10, Bet: 10}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	cmd := AnalyzeCmd{Dir: dir, Bankroll: 100}
	_, err = cmd.fromFiles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeFromStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	db, err := openStore(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cmd := AnalyzeCmd{Database: path, Bankroll: 100}
	reports, err := cmd.fromStore(t.Context())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestOpenStoreEmptyPath(t *testing.T) {
	db, err := openStore("")
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, log.DebugLevel, newLogger("debug").GetLevel())
	assert.Equal(t, log.WarnLevel, newLogger("warn").GetLevel())
	assert.Equal(t, log.InfoLevel, newLogger("bogus").GetLevel())
}
