package ledger

import (
	"errors"
	"fmt"
)

// CostBasisMethod defines how realized gains match sold shares to their
// purchase cost. Average cost is the default policy; FIFO is available as
// an explicit alternative.
type CostBasisMethod int

const (
	// AverageCost spreads the cost basis evenly over all held shares.
	AverageCost CostBasisMethod = iota
	// FIFO assumes the first shares purchased are the first ones sold.
	FIFO
)

func (m CostBasisMethod) String() string {
	switch m {
	case AverageCost:
		return "average"
	case FIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses a string into a CostBasisMethod.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch s {
	case "average":
		return AverageCost, nil
	case "fifo":
		return FIFO, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}

// Position is the derived state of one investment account: units held,
// what they cost, and what selling or holding them has earned.
//
// CostBasis, RealizedGain, RealizedDividends, Value and UnrealizedGain are
// denominated in the main currency; MarketValue in the commodity's natural
// quote currency.
type Position struct {
	AccountGUID       string
	AccountName       string
	Commodity         *Commodity
	Shares            Quantity
	CostBasis         Money
	RealizedGain      Money
	RealizedDividends Money
	MarketValue       Money
	Value             Money
	UnrealizedGain    Money
	Closed            bool
}

// NewPosition derives the position of one investment account by walking
// its splits in transaction-date order.
//
// A split with a non-zero quantity is a trade: buys add shares and their
// main-currency cost, sells realize gain against the cost basis under the
// chosen method. A zero-quantity split with a value is a distribution and
// accumulates into RealizedDividends. After the walk, open positions are
// valued at the latest quote on or before asOf.
//
// Any unresolvable price lookup along the way fails with an
// *InvestmentError naming the account.
func NewPosition(book *Book, prices *PriceDB, mainCurrency string, accountGUID string, method CostBasisMethod, asOf Date) (*Position, error) {
	account := book.Account(accountGUID)
	if account == nil {
		return nil, fmt.Errorf("unknown account %q", accountGUID)
	}
	if !account.Type.IsInvestment() {
		return nil, fmt.Errorf("account %q is not an investment account", account.Name)
	}
	commodity := book.AccountCommodity(account)

	pos := &Position{
		AccountGUID:       accountGUID,
		AccountName:       account.Name,
		Commodity:         commodity,
		CostBasis:         M(0, mainCurrency),
		RealizedGain:      M(0, mainCurrency),
		RealizedDividends: M(0, mainCurrency),
	}
	fail := func(err error) (*Position, error) {
		return nil, &InvestmentError{Account: account.Name, Err: err}
	}

	var held lots
	for _, ref := range book.splitsFor(accountGUID) {
		quantity := Q(ref.split.Quantity)
		value, err := convertAt(prices, M(ref.split.Value, ref.tx.Currency), mainCurrency, ref.tx.Date)
		if err != nil {
			return fail(err)
		}
		switch {
		case quantity.IsPositive(): // buy
			pos.Shares = pos.Shares.Add(quantity)
			pos.CostBasis = sum(pos.CostBasis, value)
			held = append(held, lot{Day: ref.tx.Date, Quantity: quantity, Cost: value})
		case quantity.IsNegative(): // sell
			sold := quantity.Abs()
			var soldCost Money
			if method == FIFO {
				soldCost = held.costOfSelling(sold)
				held = held.sell(sold)
			} else if !pos.Shares.IsZero() {
				soldCost = pos.CostBasis.Mul(sold).Div(pos.Shares)
			}
			proceeds := value.Neg() // a sell posts a negative value to the account
			pos.RealizedGain = sum(pos.RealizedGain, sub(proceeds, soldCost))
			pos.Shares = pos.Shares.Sub(sold)
			pos.CostBasis = sub(pos.CostBasis, soldCost)
		default: // distribution or dividend
			if !ref.split.Value.IsZero() {
				pos.RealizedDividends = sum(pos.RealizedDividends, value)
			}
		}
	}

	pos.Closed = pos.Shares.IsZero()
	if pos.Closed {
		pos.MarketValue = M(0, mainCurrency)
		pos.Value = M(0, mainCurrency)
		pos.UnrealizedGain = M(0, mainCurrency)
		return pos, nil
	}

	quote, err := prices.StockPrice(commodity.PriceIdentity(), asOf)
	if err != nil {
		return fail(err)
	}
	pos.MarketValue = M(pos.Shares.Decimal().Mul(quote.Value), quote.Currency)
	pos.Value, err = convertAt(prices, pos.MarketValue, mainCurrency, asOf)
	if err != nil {
		return fail(err)
	}
	pos.UnrealizedGain = sub(pos.Value, pos.CostBasis)
	return pos, nil
}

// Positions derives every investment account of the book. Accounts that
// fail keep the listing going: successes are returned alongside the joined
// failures, and the caller decides whether to degrade or abort.
func Positions(book *Book, prices *PriceDB, mainCurrency string, method CostBasisMethod, asOf Date) ([]*Position, error) {
	var positions []*Position
	var errs error
	for _, account := range book.Accounts() {
		if !account.Type.IsInvestment() {
			continue
		}
		pos, err := NewPosition(book, prices, mainCurrency, account.GUID, method, asOf)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		positions = append(positions, pos)
	}
	return positions, errs
}

// convertAt expresses an amount in the target currency using the rate on
// the given date.
func convertAt(prices *PriceDB, m Money, target string, on Date) (Money, error) {
	if m.Currency() == target {
		return m, nil
	}
	rate, err := prices.Rate(m.Currency(), target, on)
	if err != nil {
		return Money{}, err
	}
	return m.Convert(target, rate.Value), nil
}
