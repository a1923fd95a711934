package ledger

import "context"

// Repository is the storage collaborator the balancer writes through.
// The engine never calls storage directly, only through this seam.
type Repository interface {
	// SaveTransaction persists a transaction and all its splits as one
	// atomic unit. Any failure leaves no partial state.
	SaveTransaction(ctx context.Context, tx *Transaction) error

	// UpsertPrice inserts or replaces the price row keyed by
	// (commodity, currency, date).
	UpsertPrice(ctx context.Context, p Price) error
}
