package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// QuoteResult is one answer from the external quote provider.
type QuoteResult struct {
	Symbol    string
	Price     decimal.Decimal
	Currency  string
	ChangeAbs decimal.Decimal
	ChangePct decimal.Decimal
}

// QuoteProvider is the external market-data collaborator.
//
// Implementations must distinguish an unknown identifier (ErrQuoteNotFound)
// from a transport failure, so callers can choose to skip or fail. Calls
// block on network I/O and must honor the context deadline.
type QuoteProvider interface {
	// Latest returns "now" quotes for a list of ticker-like identifiers.
	// Identifiers that cannot be resolved are absent from the result.
	Latest(ctx context.Context, symbols []string) (map[string]QuoteResult, error)

	// Historical returns the quote for a single identifier on a given day.
	Historical(ctx context.Context, symbol string, on Date) (QuoteResult, error)
}

// LivePrices converts provider results into price rows dated 'on', keyed
// by the commodity identity the symbol was requested for. The rows merge
// into a PriceDB after historical data so they win for today.
func LivePrices(results map[string]QuoteResult, on Date) []Price {
	prices := make([]Price, 0, len(results))
	for _, symbol := range sortedKeys(results) {
		r := results[symbol]
		prices = append(prices, Price{
			Commodity: symbol,
			Currency:  r.Currency,
			Date:      on,
			Value:     r.Price,
			Source:    "live",
			ChangeAbs: r.ChangeAbs,
			ChangePct: r.ChangePct,
		})
	}
	return prices
}
