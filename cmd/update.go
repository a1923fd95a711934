package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"k8s.io/klog"

	"github.com/mlvd/ledger"
	"github.com/mlvd/ledger/yahoo"
)

// updateCmd fetches and stores today's quotes for every security.
type updateCmd struct{}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "fetch the latest security quotes" }
func (*updateCmd) Usage() string {
	return `lgr update

  Fetches the latest quote for every non-currency commodity and stores
  it in the price table, dated today. Securities without a resolvable
  quote are skipped with a warning.
`
}

func (*updateCmd) SetFlags(*flag.FlagSet) {}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cancel := commandContext(ctx)
	defer cancel()

	a, err := loadApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	var symbols []string
	for _, account := range a.book.Accounts() {
		if !account.Type.IsInvestment() {
			continue
		}
		if commodity := a.book.AccountCommodity(account); commodity != nil {
			symbols = append(symbols, commodity.PriceIdentity())
		}
	}
	if len(symbols) == 0 {
		fmt.Println("no securities to update")
		return subcommands.ExitSuccess
	}

	results, err := yahoo.New().Latest(ctx, symbols)
	if err != nil {
		return fail(err)
	}
	for _, symbol := range symbols {
		if _, ok := results[symbol]; !ok {
			klog.Warningf("no quote for %q, skipped", symbol)
		}
	}

	today := ledger.Today()
	for _, p := range ledger.LivePrices(results, today) {
		p.GUID = uuid.NewString()
		if err := a.store.UpsertPrice(ctx, p); err != nil {
			return fail(err)
		}
		a.prices.Upsert(p)
		fmt.Printf("%s: %s %s\n", p.Commodity, p.Value, p.Currency)
	}
	return subcommands.ExitSuccess
}
