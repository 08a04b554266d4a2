package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pdash"
	"github.com/etnz/pdash/renderer"
	"github.com/google/subcommands"
)

// quoteCmd holds the flags for the 'quote' subcommand.
type quoteCmd struct {
	alloc float64
	raw   bool
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "display the price of a symbol and size a trade" }
func (*quoteCmd) Usage() string {
	return `pdash quote [-alloc <percent>] [-raw] <symbol>

  Displays the latest price of a symbol. With -alloc, it also displays the
  whole number of shares worth that percent of the net liquidity.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.alloc, "alloc", 0, "target allocation in percent of the net liquidity")
	f.BoolVar(&c.raw, "raw", false, "print raw markdown, without terminal rendering")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Expected exactly one symbol")
		return subcommands.ExitUsageError
	}
	if c.alloc < 0 {
		fmt.Fprintf(os.Stderr, "Invalid allocation %v, must not be negative\n", c.alloc)
		return subcommands.ExitUsageError
	}
	cfg, log, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}

	client, err := openBackend(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening backend: %v\n", err)
		return subcommands.ExitFailure
	}
	q, err := client.Quote(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching quote: %v\n", err)
		return subcommands.ExitFailure
	}

	rq := &renderer.Quote{
		Symbol: q.Symbol,
		Name:   q.Name,
		Price:  pdash.M(q.Price, q.Currency),
	}
	if c.alloc > 0 {
		engine, err := loadEngine(ctx, cfg, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
		fx := engine.FX()
		netLiq := engine.View().KPI.NetLiquidityUSD
		rq.Quantity = pdash.QuantityForAllocation(fx, netLiq, pdash.Percent(c.alloc), rq.Price)
		rq.Cost = rq.Price.Mul(rq.Quantity)
		rq.Allocation = pdash.Allocation(fx, netLiq, rq.Quantity, rq.Price)
	}

	printMarkdown(renderer.RenderQuote(rq), c.raw)
	return subcommands.ExitSuccess
}
