package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultQuoteTimeout bounds calls to the quote provider when the Balancer
// is built without an explicit timeout.
const DefaultQuoteTimeout = 10 * time.Second

// Balancer builds balanced transactions for one book and is its sole
// writer. Creation is serialized with a mutex: the FX upsert and the
// transaction save must not interleave with another caller.
type Balancer struct {
	mu           sync.Mutex
	book         *Book
	prices       *PriceDB
	repo         Repository
	quotes       QuoteProvider
	mainCurrency string
	quoteTimeout time.Duration
}

// NewBalancer wires a balancer for a book. mainCurrency is the reporting
// currency resolved once per book-load; pass "" to have it inferred from
// the book when first needed.
func NewBalancer(book *Book, prices *PriceDB, repo Repository, quotes QuoteProvider, mainCurrency string) *Balancer {
	return &Balancer{
		book:         book,
		prices:       prices,
		repo:         repo,
		quotes:       quotes,
		mainCurrency: mainCurrency,
		quoteTimeout: DefaultQuoteTimeout,
	}
}

// SetQuoteTimeout bounds the provider call made while creating
// cross-currency investment transactions.
func (b *Balancer) SetQuoteTimeout(d time.Duration) { b.quoteTimeout = d }

// CreateTransaction builds, validates and persists a transaction from a
// proposed set of splits.
//
// The transaction currency is the main split account's commodity, except
// for investment accounts where it is the commodity of the asset leg among
// the other splits (never the security itself). Splits on accounts
// denominated in that currency are normalized to value := quantity, so
// same-currency legs carry no independent rounding; quantity stays the
// caller's ground truth for investment legs.
//
// When the resolved currency differs from the book's main currency and the
// main split is an investment leg, the implied FX rate for that day is
// fetched from the quote provider and upserted into price storage.
//
// The transaction and all splits are persisted as one atomic unit; any
// failure before persistence leaves no partial state.
func (b *Balancer) CreateTransaction(ctx context.Context, on Date, description string, main Split, others []Split) (*Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	mainAccount := b.book.Account(main.AccountGUID)
	if mainAccount == nil {
		return nil, fmt.Errorf("unknown account %q", main.AccountGUID)
	}
	if len(others) == 0 {
		return nil, fmt.Errorf("transaction needs at least two splits")
	}

	currency, err := b.resolveCurrency(mainAccount, others)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		GUID:        uuid.NewString(),
		Currency:    currency,
		Date:        on,
		Description: description,
		Splits:      append([]Split{main}, others...),
	}
	for i := range tx.Splits {
		s := &tx.Splits[i]
		if s.GUID == "" {
			s.GUID = uuid.NewString()
		}
		s.TransactionGUID = tx.GUID
		account := b.book.Account(s.AccountGUID)
		if account == nil {
			return nil, fmt.Errorf("unknown account %q", s.AccountGUID)
		}
		if c := b.book.AccountCommodity(account); c != nil && c.Mnemonic == currency {
			s.Value = s.Quantity
		}
	}

	if !tx.Balanced() {
		return nil, fmt.Errorf("splits sum to %s %s: %w", tx.Imbalance(), currency, ErrUnbalancedTransaction)
	}

	if mainAccount.Type.IsInvestment() {
		if err := b.recordImpliedRate(ctx, currency, on); err != nil {
			return nil, err
		}
	}

	if err := b.repo.SaveTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("persisting transaction: %w", err)
	}
	b.book.Append(*tx)
	return tx, nil
}

// resolveCurrency picks the authoritative currency for the transaction.
func (b *Balancer) resolveCurrency(mainAccount *Account, others []Split) (string, error) {
	if mainAccount.Type.IsInvestment() {
		for _, s := range others {
			account := b.book.Account(s.AccountGUID)
			if account == nil || !account.Type.IsAsset() {
				continue
			}
			c := b.book.AccountCommodity(account)
			if c != nil && c.IsCurrency() {
				return c.Mnemonic, nil
			}
		}
		return "", fmt.Errorf("investment transaction on %q has no asset-account leg to take its currency from", mainAccount.Name)
	}
	c := b.book.AccountCommodity(mainAccount)
	if c == nil {
		return "", fmt.Errorf("account %q has no commodity", mainAccount.Name)
	}
	if err := ValidateCurrency(c.Mnemonic); err != nil {
		return "", fmt.Errorf("account %q is not denominated in a currency: %w", mainAccount.Name, err)
	}
	return c.Mnemonic, nil
}

// recordImpliedRate upserts the transactionCurrency→mainCurrency price for
// the transaction date, so cross-currency investments stay convertible.
func (b *Balancer) recordImpliedRate(ctx context.Context, currency string, on Date) error {
	mainCurrency := b.mainCurrency
	if mainCurrency == "" {
		inferred, err := b.book.MainCurrency()
		if err != nil {
			return fmt.Errorf("resolving book main currency: %w", errors.Join(ErrNoMainCurrency, err))
		}
		mainCurrency = inferred
		b.mainCurrency = inferred
	}
	if currency == mainCurrency {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, b.quoteTimeout)
	defer cancel()
	// The pair symbol follows FX convention: base then quote currency.
	result, err := b.quotes.Historical(ctx, currency+mainCurrency, on)
	if err != nil {
		return fmt.Errorf("fetching %s→%s rate for %s: %w", currency, mainCurrency, on, errors.Join(ErrQuoteUnavailable, err))
	}

	p := Price{
		GUID:      uuid.NewString(),
		Commodity: currency,
		Currency:  mainCurrency,
		Date:      on,
		Value:     result.Price,
		Source:    "transaction",
	}
	if err := b.repo.UpsertPrice(ctx, p); err != nil {
		return fmt.Errorf("recording %s→%s rate: %w", currency, mainCurrency, err)
	}
	b.prices.Upsert(p)
	return nil
}
