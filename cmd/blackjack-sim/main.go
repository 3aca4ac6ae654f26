package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Run     RunCmd           `cmd:"" help:"Simulate a single strategy"`
	Batch   BatchCmd         `cmd:"" help:"Run a batch of simulations from an HCL file"`
	Analyze AnalyzeCmd       `cmd:"" help:"Analyze edge and bankroll risk of saved results"`
	Runs    RunsCmd          `cmd:"" help:"List runs stored in the results database"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack-sim"),
		kong.Description("Blackjack strategy simulator and analyzer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":    version,
			"strategies": strategyNames(),
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
