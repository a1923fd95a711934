package ledger

import (
	"errors"
	"fmt"
)

// The engine reports recoverable failures through this closed taxonomy.
// Callers match with errors.Is / errors.As.
var (
	// ErrCurrencyMismatch is returned by Money arithmetic across
	// incompatible currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrNoConversionPath is returned when the price graph cannot resolve
	// a rate between two commodities, even through a pivot.
	ErrNoConversionPath = errors.New("no conversion path")

	// ErrInsufficientData is returned when main-currency inference has no
	// INCOME or EXPENSE accounts to count.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoMainCurrency is returned by the balancer when the book's main
	// currency cannot be resolved.
	ErrNoMainCurrency = errors.New("no main currency")

	// ErrQuoteUnavailable is returned when the external quote provider
	// fails or times out.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrQuoteNotFound is returned by quote providers when the identifier
	// is unknown, as opposed to a transport failure.
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrUnbalancedTransaction is returned when a transaction's splits do
	// not sum to zero in the transaction currency. The balancer checks it
	// defensively before persisting.
	ErrUnbalancedTransaction = errors.New("unbalanced transaction")

	// ErrPricesNotLoaded is returned by aggregation when the price graph
	// is empty: totals are not ready, not zero.
	ErrPricesNotLoaded = errors.New("prices not loaded")
)

// InvestmentError wraps a failure encountered while deriving an investment
// position, naming the account that failed.
type InvestmentError struct {
	Account string
	Err     error
}

func (e *InvestmentError) Error() string {
	return fmt.Sprintf("computing position for account %q: %v", e.Account, e.Err)
}

func (e *InvestmentError) Unwrap() error { return e.Err }
