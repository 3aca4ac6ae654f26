// Package batch runs every simulation of a batch configuration and records
// the results.
package batch

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjacksim/internal/betting"
	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/results"
	"github.com/lox/blackjacksim/internal/simulator"
	"github.com/lox/blackjacksim/internal/statistics"
	"github.com/lox/blackjacksim/internal/store"
	"github.com/lox/blackjacksim/internal/strategy"
)

// Entry is the record of one completed run
type Entry struct {
	Name    string
	Summary statistics.Summary
	Path    string // results file, empty when files are disabled
	RunID   string // store id, empty without a store
}

// Runner executes a batch configuration
type Runner struct {
	config *config.Config
	store  *store.SQLiteDB
	logger *log.Logger
	clock  quartz.Clock

	// WriteFiles controls whether each run's outcomes are written to the
	// output directory
	WriteFiles bool
}

// NewRunner creates a runner. db may be nil to skip persistence.
func NewRunner(cfg *config.Config, db *store.SQLiteDB, logger *log.Logger, clock quartz.Clock) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Runner{config: cfg, store: db, logger: logger, clock: clock, WriteFiles: true}
}

// Run executes the runs in order. onEntry, when non-nil, is called after each
// run completes.
func (r *Runner) Run(ctx context.Context, onEntry func(Entry)) ([]Entry, error) {
	if err := r.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid batch config: %w", err)
	}

	entries := make([]Entry, 0, len(r.config.Runs))
	for _, run := range r.config.Runs {
		if err := ctx.Err(); err != nil {
			return entries, err
		}

		entry, err := r.runOne(ctx, run)
		if err != nil {
			return entries, fmt.Errorf("run %s: %w", run.Name, err)
		}
		entries = append(entries, entry)
		if onEntry != nil {
			onEntry(entry)
		}
	}
	return entries, nil
}

func (r *Runner) runOne(ctx context.Context, run config.RunConfig) (Entry, error) {
	play, err := strategy.New(run.StrategyConfig())
	if err != nil {
		return Entry{}, err
	}
	bets, err := betting.New(run.Betting)
	if err != nil {
		return Entry{}, err
	}

	settings := r.config.Settings
	res, err := simulator.Run(ctx, simulator.Config{
		Strategy:           play,
		Rounds:             run.Rounds,
		Betting:            bets,
		BaseBet:            settings.BaseBet,
		ReshuffleEachRound: run.Reshuffle(),
		Rules:              r.config.GameRules(),
		Seed:               settings.Seed,
		Workers:            settings.Workers,
		Logger:             r.logger.With("run", run.Name),
		Clock:              r.clock,
	})
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{Name: run.Name, Summary: res.Summary}

	if r.WriteFiles {
		path, err := results.Save(settings.OutputDir, run.Name, res.Outcomes)
		if err != nil {
			return Entry{}, err
		}
		entry.Path = path
		r.logger.Info("Saved detailed results", "run", run.Name, "path", path)
	}

	if r.store != nil {
		stored := &store.Run{
			Name:               run.Name,
			Strategy:           run.Strategy,
			Threshold:          run.Threshold,
			Betting:            bets.Name(),
			Rounds:             run.Rounds,
			BaseBet:            settings.BaseBet,
			Seed:               settings.Seed,
			ReshuffleEachRound: run.Reshuffle(),
			Summary:            res.Summary,
			CreatedAt:          r.clock.Now(),
		}
		if err := r.store.SaveRun(ctx, stored, res.Outcomes); err != nil {
			return Entry{}, fmt.Errorf("failed to store run: %w", err)
		}
		entry.RunID = stored.ID
		r.logger.Debug("Stored run", "run", run.Name, "id", stored.ID)
	}

	return entry, nil
}
