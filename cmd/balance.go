package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/mlvd/ledger"
)

// balanceCmd prints per-account balances in their own commodity.
type balanceCmd struct {
	date  string
	start string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "print account balances" }
func (*balanceCmd) Usage() string {
	return `lgr balance [-d <date>] [-start <date>] [account path...]

  Prints the balance of the named accounts (all accounts by default) in
  each account's own commodity. With -start, only the flows inside the
  period are summed; otherwise balances are cumulative from inception.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "balance as of this date, defaults to today")
	f.StringVar(&c.start, "start", "", "start of the period; sums only flows from this date on")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cancel := commandContext(ctx)
	defer cancel()

	to, err := parseDateFlag(c.date)
	if err != nil {
		return fail(err)
	}
	in := ledger.AsOf(to)
	if c.start != "" {
		from, err := ledger.ParseDate(c.start)
		if err != nil {
			return fail(err)
		}
		in = ledger.Range{From: from, To: to}
	}

	a, err := loadApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	var guids []string
	if f.NArg() == 0 {
		for _, account := range a.book.Accounts() {
			if account.Type == ledger.TypeRoot {
				continue
			}
			guids = append(guids, account.GUID)
		}
	} else {
		for _, path := range f.Args() {
			account, err := findAccountByPath(a.book, path)
			if err != nil {
				return fail(err)
			}
			guids = append(guids, account.GUID)
		}
	}

	agg := ledger.NewAggregator(a.book, a.prices, a.mainCurrency)
	totals, err := agg.AccountTotals(guids, in)
	if err != nil {
		return fail(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Balances on %s\n\n", to)
	for _, guid := range guids {
		path, err := a.book.Path(guid, false)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(&b, "- %s: %s\n", path, totals[guid])
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
