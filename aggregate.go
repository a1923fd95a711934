package ledger

import "fmt"

// Aggregator computes converted account totals over an already-loaded
// in-memory snapshot. It is a pure reader: it may run concurrently with
// other reads, but not with an in-flight Balancer call on the same book.
type Aggregator struct {
	book         *Book
	prices       *PriceDB
	mainCurrency string
}

// NewAggregator wires an aggregator. mainCurrency denominates the ROOT
// total; subtree totals are denominated in each account's own commodity.
func NewAggregator(book *Book, prices *PriceDB, mainCurrency string) *Aggregator {
	return &Aggregator{book: book, prices: prices, mainCurrency: mainCurrency}
}

// Rollup recursively totals every account as of a date, usually today.
//
// Investment accounts convert their unit balance through the latest quote
// immediately; every other account starts from its own ledger balance and
// adds each child's total, converted into the parent's commodity when the
// currencies differ. ROOT has no balance of its own and sums its children
// in the main currency.
//
// The price graph must be loaded: an empty graph fails with
// ErrPricesNotLoaded rather than reporting zero totals.
func (a *Aggregator) Rollup(asOf Date) (map[string]Money, error) {
	if a.prices.IsEmpty() {
		return nil, fmt.Errorf("computing rollup: %w", ErrPricesNotLoaded)
	}
	totals := make(map[string]Money, len(a.book.accounts))
	if _, err := a.rollup(a.book.Root(), asOf, totals); err != nil {
		return nil, err
	}
	return totals, nil
}

// NetWorth is the rolled-up ROOT total in the main currency.
func (a *Aggregator) NetWorth(asOf Date) (Money, error) {
	totals, err := a.Rollup(asOf)
	if err != nil {
		return Money{}, err
	}
	return totals[a.book.rootGUID], nil
}

func (a *Aggregator) rollup(account *Account, asOf Date, totals map[string]Money) (Money, error) {
	var total Money
	switch {
	case account.Type == TypeRoot:
		total = M(0, a.mainCurrency)
	case account.Type.IsInvestment():
		units := a.book.BalanceQuantity(account.GUID, AsOf(asOf))
		if !units.IsZero() {
			commodity := a.book.AccountCommodity(account)
			quote, err := a.prices.StockPrice(commodity.PriceIdentity(), asOf)
			if err != nil {
				return Money{}, fmt.Errorf("valuing account %q: %w", account.Name, err)
			}
			total = M(units.Decimal().Mul(quote.Value), quote.Currency)
		}
	default:
		commodity := a.book.AccountCommodity(account)
		total = M(a.book.BalanceQuantity(account.GUID, AsOf(asOf)).Decimal(), commodity.Mnemonic)
	}

	for _, childGUID := range account.ChildrenGUIDs {
		child := a.book.Account(childGUID)
		childTotal, err := a.rollup(child, asOf, totals)
		if err != nil {
			return Money{}, err
		}
		if childTotal.Currency() != "" && total.Currency() != "" && childTotal.Currency() != total.Currency() {
			rate, err := a.prices.Rate(childTotal.Currency(), total.Currency(), asOf)
			if err != nil {
				return Money{}, fmt.Errorf("converting account %q into %q: %w", child.Name, account.Name, err)
			}
			childTotal = childTotal.Convert(total.Currency(), rate.Value)
		}
		total, err = total.Add(childTotal)
		if err != nil {
			return Money{}, err
		}
	}

	totals[account.GUID] = total
	return total, nil
}

// AccountTotals sums the split quantities posted to each account inside
// the range, returning Money in each account's own commodity. No
// cross-currency conversion happens at this stage. Balance-sheet balances
// are cumulative from inception, so pass a lower-open range (AsOf) for a
// point-in-time balance.
func (a *Aggregator) AccountTotals(guids []string, in Range) (map[string]Money, error) {
	totals := make(map[string]Money, len(guids))
	for _, guid := range guids {
		account := a.book.Account(guid)
		if account == nil {
			return nil, fmt.Errorf("unknown account %q", guid)
		}
		commodity := a.book.AccountCommodity(account)
		if commodity == nil {
			return nil, fmt.Errorf("account %q has no commodity", account.Name)
		}
		totals[guid] = M(a.book.BalanceQuantity(guid, in).Decimal(), commodity.Mnemonic)
	}
	return totals, nil
}
