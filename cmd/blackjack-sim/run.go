package main

import (
	"fmt"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjacksim/internal/betting"
	"github.com/lox/blackjacksim/internal/game"
	"github.com/lox/blackjacksim/internal/report"
	"github.com/lox/blackjacksim/internal/results"
	"github.com/lox/blackjacksim/internal/simulator"
	"github.com/lox/blackjacksim/internal/store"
	"github.com/lox/blackjacksim/internal/strategy"
)

type RunCmd struct {
	Strategy  string  `default:"basic" enum:"${strategies}" help:"Playing strategy (${enum})"`
	Threshold int     `default:"15" help:"Stand-on total for fixed-threshold (12-20)"`
	Betting   string  `default:"flat" enum:"flat,martingale" help:"Betting system (ignored by card-counter)"`
	Rounds    int     `short:"n" default:"100000" help:"Number of rounds to simulate"`
	BaseBet   float64 `default:"10" help:"Base bet"`
	Seed      int64   `help:"RNG seed (0 for random)"`
	Workers   int     `default:"1" help:"Independent parallel streams"`
	Reshuffle bool    `default:"true" negatable:"" help:"Rebuild the shoe before every round (non-counting strategies)"`

	Decks            int     `default:"6" help:"Decks in the shoe"`
	BlackjackPayout  float64 `default:"1.5" help:"Profit multiple paid for a natural"`
	DoubleAfterSplit bool    `default:"true" negatable:"" help:"Allow doubling on split hands"`

	Name     string `help:"Run name for output files (defaults to the strategy)"`
	Output   string `type:"path" help:"Directory to write <name>_results.json to"`
	Database string `type:"path" help:"SQLite database to store the run in"`
	LogLevel string `default:"info" enum:"debug,info,warn,error" help:"Log level"`
}

func (c *RunCmd) Run() error {
	logger := newLogger(c.LogLevel)
	ctx, cancel := signalContext(logger)
	defer cancel()

	play, err := strategy.New(strategy.Config{Name: c.Strategy, Threshold: c.Threshold})
	if err != nil {
		return err
	}
	bets, err := betting.New(c.Betting)
	if err != nil {
		return err
	}

	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	name := c.Name
	if name == "" {
		name = c.Strategy
	}

	db, err := openStore(c.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	fmt.Printf("Simulating %d rounds of %s (seed: %d)\n", c.Rounds, name, c.Seed)

	clock := quartz.NewReal()
	res, err := simulator.Run(ctx, simulator.Config{
		Strategy:           play,
		Rounds:             c.Rounds,
		Betting:            bets,
		BaseBet:            c.BaseBet,
		ReshuffleEachRound: c.Reshuffle,
		Rules: game.Rules{
			Decks:            c.Decks,
			BlackjackPayout:  c.BlackjackPayout,
			DoubleAfterSplit: c.DoubleAfterSplit,
		},
		Seed:    c.Seed,
		Workers: c.Workers,
		Logger:  logger,
		Clock:   clock,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, report.RunSummary(name, res.Summary))
	if secs := res.Duration.Seconds(); secs > 0 {
		fmt.Printf("Completed in %v (%.0f rounds/sec)\n", res.Duration.Round(time.Millisecond),
			float64(res.Summary.Rounds)/secs)
	}

	if c.Output != "" {
		path, err := results.Save(c.Output, name, res.Outcomes)
		if err != nil {
			return err
		}
		fmt.Printf("Saved detailed results to %s\n", path)
	}

	if db != nil {
		run := &store.Run{
			Name:               name,
			Strategy:           c.Strategy,
			Threshold:          c.Threshold,
			Betting:            bets.Name(),
			Rounds:             c.Rounds,
			BaseBet:            c.BaseBet,
			Seed:               c.Seed,
			ReshuffleEachRound: c.Reshuffle,
			Summary:            res.Summary,
			CreatedAt:          clock.Now(),
		}
		if err := db.SaveRun(ctx, run, res.Outcomes); err != nil {
			return fmt.Errorf("failed to store run: %w", err)
		}
		fmt.Printf("Stored run %s\n", run.ID)
	}

	return nil
}
