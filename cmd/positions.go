package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mlvd/ledger"
	"github.com/mlvd/ledger/renderer"
)

// positionsCmd reports every investment position.
type positionsCmd struct {
	date   string
	method string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "report investment positions and gains" }
func (*positionsCmd) Usage() string {
	return `lgr positions [-d <date>] [-method <average|fifo>]

  Derives every investment account's position: shares held, cost basis,
  realized and unrealized gains and collected dividends.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "report date, defaults to today")
	f.StringVar(&c.method, "method", "", "cost basis method, overrides the configured one")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cancel := commandContext(ctx)
	defer cancel()

	asOf, err := parseDateFlag(c.date)
	if err != nil {
		return fail(err)
	}

	a, err := loadApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	method, err := a.costBasisMethod()
	if err != nil {
		return fail(err)
	}
	if c.method != "" {
		if method, err = ledger.ParseCostBasisMethod(c.method); err != nil {
			return fail(err)
		}
	}

	positions, err := ledger.Positions(a.book, a.prices, a.mainCurrency, method, asOf)
	if err != nil {
		// Partial results still render; the failures are reported after.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	printMarkdown(renderer.PositionsMarkdown(positions, method, asOf))
	return subcommands.ExitSuccess
}
