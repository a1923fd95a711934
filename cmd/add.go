package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/mlvd/ledger"
)

// addCommodityCmd declares a new commodity in the book.
type addCommodityCmd struct {
	namespace string
	mnemonic  string
	fullname  string
	cusip     string
}

func (*addCommodityCmd) Name() string     { return "add-commodity" }
func (*addCommodityCmd) Synopsis() string { return "declare a currency or security" }
func (*addCommodityCmd) Usage() string {
	return `lgr add-commodity -ns <namespace> -m <mnemonic> [-name <fullname>] [-cusip <id>]

  Declares a commodity. Currencies use the CURRENCY namespace and an
  ISO 4217 mnemonic; securities use STOCK or FUND.
`
}

func (c *addCommodityCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.namespace, "ns", "CURRENCY", "namespace (CURRENCY, STOCK, FUND, OTHER)")
	f.StringVar(&c.mnemonic, "m", "", "mnemonic, e.g. EUR or AAPL")
	f.StringVar(&c.fullname, "name", "", "human readable name")
	f.StringVar(&c.cusip, "cusip", "", "exchange identifier used for quotes")
}

func (c *addCommodityCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cancel := commandContext(ctx)
	defer cancel()

	ns, err := ledger.ParseNamespace(c.namespace)
	if err != nil {
		return fail(err)
	}
	if ns == ledger.NamespaceCurrency {
		if err := ledger.ValidateCurrency(c.mnemonic); err != nil {
			return fail(err)
		}
	}
	if c.mnemonic == "" {
		return fail(fmt.Errorf("missing -m mnemonic"))
	}

	a, err := loadApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	commodity := &ledger.Commodity{
		GUID:      uuid.NewString(),
		Namespace: ns,
		Mnemonic:  c.mnemonic,
		Fullname:  c.fullname,
		CUSIP:     c.cusip,
	}
	if err := a.store.SaveCommodity(ctx, commodity); err != nil {
		return fail(err)
	}
	fmt.Printf("declared %s %s (%s)\n", ns, c.mnemonic, commodity.GUID)
	return subcommands.ExitSuccess
}

// addAccountCmd creates an account under a parent.
type addAccountCmd struct {
	name      string
	accType   string
	commodity string
	parent    string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create an account in the tree" }
func (*addAccountCmd) Usage() string {
	return `lgr add-account -name <name> -type <type> -commodity <mnemonic> [-parent <path>]

  Creates an account denominated in an existing commodity. The parent is
  an account path like "Assets:Bank"; it defaults to the root.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "account name")
	f.StringVar(&c.accType, "type", "ASSET", "account type (ASSET, BANK, CASH, STOCK, MUTUAL, INCOME, EXPENSE, ...)")
	f.StringVar(&c.commodity, "commodity", "", "mnemonic of the account's commodity")
	f.StringVar(&c.parent, "parent", "", "path of the parent account, e.g. Assets")
}

func (c *addAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cancel := commandContext(ctx)
	defer cancel()

	if c.name == "" {
		return fail(fmt.Errorf("missing -name"))
	}
	accType, err := ledger.ParseAccountType(c.accType)
	if err != nil {
		return fail(err)
	}

	a, err := loadApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	commodity := a.book.CommodityByMnemonic(c.commodity)
	if commodity == nil {
		return fail(fmt.Errorf("unknown commodity %q, declare it with add-commodity first", c.commodity))
	}
	parent, err := findAccountByPath(a.book, c.parent)
	if err != nil {
		return fail(err)
	}

	account := &ledger.Account{
		GUID:          uuid.NewString(),
		Name:          c.name,
		Type:          accType,
		CommodityGUID: commodity.GUID,
		ParentGUID:    parent.GUID,
	}
	if err := a.store.SaveAccount(ctx, account); err != nil {
		return fail(err)
	}
	fmt.Printf("created account %s (%s)\n", c.name, account.GUID)
	return subcommands.ExitSuccess
}

// findAccountByPath resolves a colon-separated path to an account. An
// empty path resolves to the root.
func findAccountByPath(book *ledger.Book, path string) (*ledger.Account, error) {
	if path == "" {
		return book.Root(), nil
	}
	for _, account := range book.Accounts() {
		p, err := book.Path(account.GUID, false)
		if err != nil {
			return nil, err
		}
		if p == path {
			return account, nil
		}
	}
	return nil, fmt.Errorf("no account at path %q", path)
}
