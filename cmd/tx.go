package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/mlvd/ledger"
)

// txCmd posts a balanced transaction between two accounts.
type txCmd struct {
	date        string
	description string
	from        string
	to          string
	amount      string
	quantity    string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "post a transaction between two accounts" }
func (*txCmd) Usage() string {
	return `lgr tx -from <path> -to <path> -amount <value> [-q <quantity>] [-d <date>] [-desc <text>]

  Posts a two-leg transaction: the amount is debited to the destination
  account and credited from the source. For investment destinations -q
  gives the number of units bought (negative to sell); the amount stays
  denominated in the source account's currency.

Usage Examples:
# Monthly salary.
$ lgr tx -from Salary -to Assets:Bank -amount 3000 -desc "march salary"
# Buy 10 shares for 500.
$ lgr tx -from Assets:Bank -to Assets:Broker -amount 500 -q 10
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "transaction date, defaults to today")
	f.StringVar(&c.description, "desc", "", "description")
	f.StringVar(&c.from, "from", "", "path of the source account")
	f.StringVar(&c.to, "to", "", "path of the destination account")
	f.StringVar(&c.amount, "amount", "", "amount moved, in the source account's currency")
	f.StringVar(&c.quantity, "q", "", "units posted to the destination, for investment accounts")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cancel := commandContext(ctx)
	defer cancel()

	on, err := parseDateFlag(c.date)
	if err != nil {
		return fail(err)
	}
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return fail(fmt.Errorf("parsing -amount: %w", err))
	}

	a, err := loadApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	from, err := findAccountByPath(a.book, c.from)
	if err != nil {
		return fail(err)
	}
	to, err := findAccountByPath(a.book, c.to)
	if err != nil {
		return fail(err)
	}

	// The destination leg is the main split and receives the amount;
	// the source leg mirrors it with the opposite sign.
	quantity := amount
	if c.quantity != "" {
		if quantity, err = decimal.NewFromString(c.quantity); err != nil {
			return fail(fmt.Errorf("parsing -q: %w", err))
		}
	}
	main := ledger.Split{AccountGUID: to.GUID, Value: amount, Quantity: quantity}
	other := ledger.Split{AccountGUID: from.GUID, Value: amount.Neg(), Quantity: amount.Neg()}

	tx, err := a.balancer().CreateTransaction(ctx, on, c.description, main, []ledger.Split{other})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("posted %s on %s (%s)\n", c.description, tx.Date, tx.GUID)
	return subcommands.ExitSuccess
}
