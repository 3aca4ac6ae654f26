package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lox/blackjacksim/internal/analysis"
	"github.com/lox/blackjacksim/internal/fileutil"
	"github.com/lox/blackjacksim/internal/report"
	"github.com/lox/blackjacksim/internal/results"
)

type AnalyzeCmd struct {
	Files    []string `arg:"" optional:"" type:"existingfile" help:"Results files to analyze (defaults to every file in --dir)"`
	Dir      string   `default:"results" type:"path" help:"Directory of <name>_results.json files"`
	Database string   `type:"path" help:"Analyze runs from this database instead of files"`
	RunID    []string `name:"run" help:"Stored run IDs to analyze (defaults to all)"`
	Bankroll float64  `default:"10000" help:"Starting bankroll for ruin and drawdown"`
	Alpha    float64  `default:"0.05" help:"Significance level"`
	Output   string   `type:"path" help:"Also write the analysis to this file"`
	LogLevel string   `default:"info" enum:"debug,info,warn,error" help:"Log level"`
}

func (c *AnalyzeCmd) Run() error {
	ctx, cancel := signalContext(newLogger(c.LogLevel))
	defer cancel()

	var (
		reports []analysis.Report
		err     error
	)
	if c.Database != "" {
		reports, err = c.fromStore(ctx)
	} else {
		reports, err = c.fromFiles(ctx)
	}
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return fmt.Errorf("no results found")
	}

	out := report.Analysis(reports, c.Alpha)
	fmt.Fprint(os.Stdout, out)

	if c.Output != "" {
		if err := fileutil.WriteFileAtomic(c.Output, []byte(out), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (c *AnalyzeCmd) fromFiles(ctx context.Context) ([]analysis.Report, error) {
	paths := c.Files
	if len(paths) == 0 {
		found, err := results.Find(c.Dir)
		if err != nil {
			return nil, err
		}
		paths = found
	}

	reports := make([]analysis.Report, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcomes, err := results.Load(path)
		if err != nil {
			return nil, err
		}
		reports = append(reports, analysis.Analyze(results.NameFromPath(path), outcomes, c.Bankroll))
	}
	return reports, nil
}

func (c *AnalyzeCmd) fromStore(ctx context.Context) ([]analysis.Report, error) {
	db, err := openStore(c.Database)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ids := c.RunID
	if len(ids) == 0 {
		runs, err := db.ListRuns(ctx, 0)
		if err != nil {
			return nil, err
		}
		for _, r := range runs {
			ids = append(ids, r.ID)
		}
	}

	reports := make([]analysis.Report, 0, len(ids))
	for _, id := range ids {
		run, err := db.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		outcomes, err := db.GetOutcomes(ctx, id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, analysis.Analyze(run.Name, outcomes, c.Bankroll))
	}
	return reports, nil
}

// RunsCmd lists or deletes stored runs
type RunsCmd struct {
	Database string `required:"" type:"path" help:"Results database"`
	Limit    int    `default:"20" help:"Maximum runs to list (0 for all)"`
	Delete   string `help:"Delete the run with this ID"`
	LogLevel string `default:"info" enum:"debug,info,warn,error" help:"Log level"`
}

func (c *RunsCmd) Run() error {
	ctx, cancel := signalContext(newLogger(c.LogLevel))
	defer cancel()

	db, err := openStore(c.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if c.Delete != "" {
		if err := db.DeleteRun(ctx, c.Delete); err != nil {
			return err
		}
		fmt.Printf("Deleted run %s\n", c.Delete)
		return nil
	}

	runs, err := db.ListRuns(ctx, c.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No stored runs")
		return nil
	}
	fmt.Println(report.RunsTable(runs))
	return nil
}
