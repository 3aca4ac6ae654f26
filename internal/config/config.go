// Package config loads batch simulation configuration from HCL.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjacksim/internal/betting"
	"github.com/lox/blackjacksim/internal/game"
	"github.com/lox/blackjacksim/internal/strategy"
)

const (
	DefaultRounds    = 100_000
	DefaultBaseBet   = 10
	DefaultSeed      = 42
	DefaultOutputDir = "results"
	DefaultLogLevel  = "info"
)

// Config is a complete batch configuration
type Config struct {
	Settings Settings
	Rules    RulesConfig
	Runs     []RunConfig
}

// Settings apply to every run in the batch unless a run overrides them
type Settings struct {
	Rounds             int     `hcl:"rounds,optional"`
	BaseBet            float64 `hcl:"base_bet,optional"`
	Seed               int64   `hcl:"seed,optional"`
	Workers            int     `hcl:"workers,optional"`
	OutputDir          string  `hcl:"output_dir,optional"`
	Database           string  `hcl:"database,optional"` // empty disables the run store
	LogLevel           string  `hcl:"log_level,optional"`
	ReshuffleEachRound *bool   `hcl:"reshuffle_each_round,optional"`
}

// RulesConfig is the table rules block
type RulesConfig struct {
	Decks            int     `hcl:"decks,optional"`
	BlackjackPayout  float64 `hcl:"blackjack_payout,optional"`
	DoubleAfterSplit *bool   `hcl:"double_after_split,optional"`
}

// RunConfig is one named simulation in a batch
type RunConfig struct {
	Name               string `hcl:"name,label"`
	Strategy           string `hcl:"strategy"`
	Threshold          int    `hcl:"threshold,optional"`
	Betting            string `hcl:"betting,optional"`
	Rounds             int    `hcl:"rounds,optional"`
	ReshuffleEachRound *bool  `hcl:"reshuffle_each_round,optional"`
}

// fileConfig is the shape of a batch file; both top-level blocks are optional
type fileConfig struct {
	Settings *Settings    `hcl:"batch,block"`
	Rules    *RulesConfig `hcl:"rules,block"`
	Runs     []RunConfig  `hcl:"run,block"`
}

// DefaultConfig returns the standard comparison batch: the four named
// strategies, every fixed threshold and basic strategy with martingale betting
func DefaultConfig() *Config {
	runs := []RunConfig{
		{Name: "mimic_dealer", Strategy: string(game.KindMimicDealer)},
		{Name: "dealer_weakness", Strategy: string(game.KindDealerWeakness)},
		{Name: "basic", Strategy: string(game.KindBasic)},
		{Name: "card_counter", Strategy: string(game.KindCardCounter)},
	}
	for threshold := strategy.MinThreshold; threshold <= strategy.MaxThreshold; threshold++ {
		runs = append(runs, RunConfig{
			Name:      fmt.Sprintf("fixed_threshold_%d", threshold),
			Strategy:  string(game.KindFixedThreshold),
			Threshold: threshold,
		})
	}
	runs = append(runs, RunConfig{
		Name:     "martingale",
		Strategy: string(game.KindBasic),
		Betting:  betting.NameMartingale,
	})

	cfg := &Config{Runs: runs}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads a batch configuration from an HCL file. A missing file
// yields the default batch.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file)
}

// ParseConfig parses a batch configuration from HCL source
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file)
}

func decode(file *hcl.File) (*Config, error) {
	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := &Config{Runs: fc.Runs}
	if fc.Settings != nil {
		cfg.Settings = *fc.Settings
	}
	if fc.Rules != nil {
		cfg.Rules = *fc.Rules
	}
	if len(cfg.Runs) == 0 {
		cfg.Runs = DefaultConfig().Runs
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Settings.Rounds == 0 {
		c.Settings.Rounds = DefaultRounds
	}
	if c.Settings.BaseBet == 0 {
		c.Settings.BaseBet = DefaultBaseBet
	}
	if c.Settings.Seed == 0 {
		c.Settings.Seed = DefaultSeed
	}
	if c.Settings.Workers == 0 {
		c.Settings.Workers = 1
	}
	if c.Settings.OutputDir == "" {
		c.Settings.OutputDir = DefaultOutputDir
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = DefaultLogLevel
	}
	if c.Settings.ReshuffleEachRound == nil {
		c.Settings.ReshuffleEachRound = boolPtr(true)
	}

	defaults := game.DefaultRules()
	if c.Rules.Decks == 0 {
		c.Rules.Decks = defaults.Decks
	}
	if c.Rules.BlackjackPayout == 0 {
		c.Rules.BlackjackPayout = defaults.BlackjackPayout
	}
	if c.Rules.DoubleAfterSplit == nil {
		c.Rules.DoubleAfterSplit = boolPtr(defaults.DoubleAfterSplit)
	}

	for i := range c.Runs {
		if c.Runs[i].Betting == "" {
			c.Runs[i].Betting = betting.NameFlat
		}
		if c.Runs[i].Rounds == 0 {
			c.Runs[i].Rounds = c.Settings.Rounds
		}
		if c.Runs[i].ReshuffleEachRound == nil {
			c.Runs[i].ReshuffleEachRound = c.Settings.ReshuffleEachRound
		}
	}
}

// Validate validates the batch configuration
func (c *Config) Validate() error {
	if c.Settings.BaseBet <= 0 {
		return fmt.Errorf("base bet must be positive, got %v", c.Settings.BaseBet)
	}
	if c.Settings.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Settings.Workers)
	}
	if err := c.GameRules().Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if len(c.Runs) == 0 {
		return fmt.Errorf("at least one run must be configured")
	}

	seen := make(map[string]bool, len(c.Runs))
	for _, run := range c.Runs {
		if seen[run.Name] {
			return fmt.Errorf("run %s: duplicate name", run.Name)
		}
		seen[run.Name] = true

		if run.Rounds <= 0 {
			return fmt.Errorf("run %s: rounds must be positive, got %d", run.Name, run.Rounds)
		}
		if _, err := strategy.New(run.StrategyConfig()); err != nil {
			return fmt.Errorf("run %s: %w", run.Name, err)
		}
		if _, err := betting.New(run.Betting); err != nil {
			return fmt.Errorf("run %s: %w", run.Name, err)
		}
	}
	return nil
}

// GameRules returns the table rules for the engine
func (c *Config) GameRules() game.Rules {
	return game.Rules{
		Decks:            c.Rules.Decks,
		BlackjackPayout:  c.Rules.BlackjackPayout,
		DoubleAfterSplit: c.Rules.DoubleAfterSplit == nil || *c.Rules.DoubleAfterSplit,
	}
}

// GetRunByName returns a run configuration by name
func (c *Config) GetRunByName(name string) *RunConfig {
	for i := range c.Runs {
		if c.Runs[i].Name == name {
			return &c.Runs[i]
		}
	}
	return nil
}

// StrategyConfig returns the playing strategy selection of the run
func (r RunConfig) StrategyConfig() strategy.Config {
	return strategy.Config{Name: r.Strategy, Threshold: r.Threshold}
}

// Reshuffle reports whether non-counting strategies rebuild the shoe every round
func (r RunConfig) Reshuffle() bool {
	return r.ReshuffleEachRound == nil || *r.ReshuffleEachRound
}

func boolPtr(b bool) *bool { return &b }
