package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/blackjacksim/internal/betting"
	"github.com/lox/blackjacksim/internal/game"
	"github.com/lox/blackjacksim/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	// four named strategies, nine thresholds and martingale
	assert.Len(t, cfg.Runs, 14)
	assert.Equal(t, game.DefaultRules(), cfg.GameRules())
	assert.Equal(t, DefaultRounds, cfg.Settings.Rounds)
	assert.True(t, *cfg.Settings.ReshuffleEachRound)

	run := cfg.GetRunByName("fixed_threshold_20")
	require.NotNil(t, run)
	assert.Equal(t, 20, run.Threshold)
	assert.Equal(t, betting.NameFlat, run.Betting)

	run = cfg.GetRunByName("martingale")
	require.NotNil(t, run)
	assert.Equal(t, string(game.KindBasic), run.Strategy)
	assert.Equal(t, betting.NameMartingale, run.Betting)

	assert.Nil(t, cfg.GetRunByName("missing"))
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	src := `
batch {
  rounds     = 5000
  base_bet   = 25
  seed       = 7
  workers    = 4
  output_dir = "out"
  database   = "out/runs.db"
  reshuffle_each_round = false
}

rules {
  decks              = 2
  blackjack_payout   = 1.2
  double_after_split = false
}

run "counter" {
  strategy = "card-counter"
}

run "t17" {
  strategy  = "fixed-threshold"
  threshold = 17
  rounds    = 100
  reshuffle_each_round = true
}

run "doubling" {
  strategy = "basic"
  betting  = "martingale"
}
`
	path := filepath.Join(t.TempDir(), "batch.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5000, cfg.Settings.Rounds)
	assert.Equal(t, 25.0, cfg.Settings.BaseBet)
	assert.Equal(t, int64(7), cfg.Settings.Seed)
	assert.Equal(t, 4, cfg.Settings.Workers)
	assert.Equal(t, "out/runs.db", cfg.Settings.Database)
	assert.Equal(t, DefaultLogLevel, cfg.Settings.LogLevel)
	assert.Equal(t, game.Rules{Decks: 2, BlackjackPayout: 1.2, DoubleAfterSplit: false}, cfg.GameRules())

	require.Len(t, cfg.Runs, 3)
	assert.Equal(t, 5000, cfg.Runs[0].Rounds)
	assert.False(t, cfg.Runs[0].Reshuffle())
	assert.Equal(t, betting.NameFlat, cfg.Runs[0].Betting)
	assert.Equal(t, 100, cfg.Runs[1].Rounds)
	assert.True(t, cfg.Runs[1].Reshuffle())
	assert.Equal(t, strategy.Config{Name: "fixed-threshold", Threshold: 17}, cfg.Runs[1].StrategyConfig())
	assert.Equal(t, betting.NameMartingale, cfg.Runs[2].Betting)
}

func TestParseConfigWithoutRunsUsesDefaultBatch(t *testing.T) {
	cfg, err := ParseConfig([]byte(`batch { rounds = 10 }`), "batch.hcl")
	require.NoError(t, err)
	assert.Len(t, cfg.Runs, len(DefaultConfig().Runs))
	for _, run := range cfg.Runs {
		assert.Equal(t, 10, run.Rounds)
	}
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte(`batch {`), "bad.hcl")
	assert.Error(t, err)

	_, err = ParseConfig([]byte(`run "x" { threshold = 3 }`), "bad.hcl")
	assert.Error(t, err, "strategy is required")
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		src  string
		want error
	}{
		"unknown strategy": {`run "a" { strategy = "psychic" }`, strategy.ErrUnknownStrategy},
		"bad threshold": {`run "a" {
  strategy  = "fixed-threshold"
  threshold = 25
}`, strategy.ErrInvalidThreshold},
		"unknown betting": {`run "a" {
  strategy = "basic"
  betting  = "paroli"
}`, betting.ErrUnknownBetting},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.src), "test.hcl")
			require.NoError(t, err)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}

	cfg, err := ParseConfig([]byte("run \"a\" { strategy = \"basic\" }\nrun \"a\" { strategy = \"basic\" }"), "dup.hcl")
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "duplicate")

	cfg, err = ParseConfig([]byte(`rules { decks = 40 }`), "rules.hcl")
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "decks")
}
