package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pdash/renderer"
	"github.com/google/subcommands"
)

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct {
	sims     simFlags
	title    string
	json     bool
	raw      bool
	skipSims bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the dashboard, optionally with simulated trades" }
func (*showCmd) Usage() string {
	return `pdash show [-sim SYMBOL:QUANTITY@PRICE[CURRENCY]]... [-json] [-raw]

  Displays the positions and account figures of the current snapshot.

  Each -sim flag adds a simulated trade for this invocation only, for instance
  -sim AAPL:5@160 buys 5 AAPL at 160 USD, -sim SAP:-3@120EUR sells 3 SAP.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.sims, "sim", "simulated trade SYMBOL:QUANTITY@PRICE[CURRENCY], repeatable")
	f.StringVar(&c.title, "title", "Portfolio Dashboard", "title of the dashboard")
	f.BoolVar(&c.json, "json", false, "print the view as JSON")
	f.BoolVar(&c.raw, "raw", false, "print raw markdown, without terminal rendering")
	f.BoolVar(&c.skipSims, "skip-simulations", false, "do not list the simulated trades")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Unexpected arguments: %v\n", f.Args())
		return subcommands.ExitUsageError
	}
	cfg, log, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}

	engine, err := loadEngine(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, s := range c.sims {
		if err := engine.AddSimulation(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding simulation: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	view := engine.View()

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding view: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	d := renderer.NewDashboard(c.title, view)
	printMarkdown(renderer.RenderDashboard(d, renderer.DashboardRenderOptions{SkipSimulations: c.skipSims}), c.raw)
	return subcommands.ExitSuccess
}
