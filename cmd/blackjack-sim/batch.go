package main

import (
	"fmt"

	"github.com/coder/quartz"
	"github.com/lox/blackjacksim/internal/batch"
	"github.com/lox/blackjacksim/internal/config"
	"github.com/lox/blackjacksim/internal/report"
)

type BatchCmd struct {
	Config   string `arg:"" optional:"" default:"batch.hcl" type:"path" help:"Batch configuration file (default batch when missing)"`
	Rounds   int    `short:"n" help:"Override rounds for every run"`
	Output   string `type:"path" help:"Override the output directory"`
	Database string `type:"path" help:"Override the results database"`
	NoFiles  bool   `help:"Do not write per-run results files"`
	LogLevel string   `help:"Log level (defaults to the config file)"`
	Only     []string `help:"Run only the named runs from the config"`
}

func (c *BatchCmd) Run() error {
	cfg, err := config.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := c.applyOverrides(cfg); err != nil {
		return err
	}

	level := c.LogLevel
	if level == "" {
		level = cfg.Settings.LogLevel
	}
	logger := newLogger(level)
	ctx, cancel := signalContext(logger)
	defer cancel()

	db, err := openStore(cfg.Settings.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	runner := batch.NewRunner(cfg, db, logger, quartz.NewReal())
	runner.WriteFiles = !c.NoFiles

	fmt.Printf("Running %d simulations\n", len(cfg.Runs))
	entries, err := runner.Run(ctx, func(e batch.Entry) {
		logger.Info("Run complete", "run", e.Name, "profit", e.Summary.TotalProfit)
	})

	rows := make([]report.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, report.Row{Name: e.Name, Summary: e.Summary})
	}
	if len(rows) > 0 {
		fmt.Println(report.SummaryTable(rows))
	}
	return err
}

func (c *BatchCmd) applyOverrides(cfg *config.Config) error {
	if len(c.Only) > 0 {
		runs := make([]config.RunConfig, 0, len(c.Only))
		for _, name := range c.Only {
			run := cfg.GetRunByName(name)
			if run == nil {
				return fmt.Errorf("no run named %q in %s", name, c.Config)
			}
			runs = append(runs, *run)
		}
		cfg.Runs = runs
	}
	if c.Rounds > 0 {
		cfg.Settings.Rounds = c.Rounds
		for i := range cfg.Runs {
			cfg.Runs[i].Rounds = c.Rounds
		}
	}
	if c.Output != "" {
		cfg.Settings.OutputDir = c.Output
	}
	if c.Database != "" {
		cfg.Settings.Database = c.Database
	}
	return nil
}
