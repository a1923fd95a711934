package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/mlvd/ledger"
	"github.com/mlvd/ledger/renderer"
)

// networthCmd renders the rolled-up balance sheet.
type networthCmd struct {
	date string
}

func (*networthCmd) Name() string     { return "networth" }
func (*networthCmd) Synopsis() string { return "report the converted net worth" }
func (*networthCmd) Usage() string {
	return `lgr networth [-d <date>]

  Rolls the whole account tree up into the main currency, converting
  each subtree through the stored price graph, and prints the report.
`
}

func (c *networthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "report date, defaults to today")
}

func (c *networthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	agg := ledger.NewAggregator(a.book, a.prices, a.mainCurrency)
	totals, err := agg.Rollup(asOf)
	if err != nil {
		return fail(err)
	}

	report := renderer.NewNetWorthReport(a.book, totals, a.mainCurrency, asOf)
	printMarkdown(renderer.RenderNetWorth(report))
	return subcommands.ExitSuccess
}
