package ledger

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Quote is a resolved conversion rate: 1 unit of the queried commodity is
// worth Value units of Currency.
type Quote struct {
	Value     decimal.Decimal
	Currency  string
	ChangeAbs decimal.Decimal
	ChangePct decimal.Decimal
}

var one = decimal.NewFromInt(1)

// PriceDB resolves conversion rates between commodities and currencies at
// a given date. It is built from the union of historical price rows and
// live quotes, keyed by commodity pricing identity, and falls back through
// reciprocal rates and a one-hop pivot when no direct row exists.
type PriceDB struct {
	// pairs[commodity][currency] is the dated series of direct prices.
	pairs map[string]map[string]*History[Price]
}

// NewPriceDB merges price lists into one lookup. Later lists win on
// identical (commodity, currency, date) keys, so live quotes should be
// passed after historical rows.
func NewPriceDB(lists ...[]Price) *PriceDB {
	db := &PriceDB{pairs: make(map[string]map[string]*History[Price])}
	for _, list := range lists {
		for _, p := range list {
			db.Upsert(p)
		}
	}
	return db
}

// IsEmpty is true only when neither historical nor live data is loaded.
// Aggregation treats an empty db as "not ready", never as "all zero".
func (db *PriceDB) IsEmpty() bool { return len(db.pairs) == 0 }

// Upsert records a price row, replacing any earlier row for the same
// (commodity, currency, date) key.
func (db *PriceDB) Upsert(p Price) {
	byCurrency, ok := db.pairs[p.Commodity]
	if !ok {
		byCurrency = make(map[string]*History[Price])
		db.pairs[p.Commodity] = byCurrency
	}
	h, ok := byCurrency[p.Currency]
	if !ok {
		h = &History[Price]{}
		byCurrency[p.Currency] = h
	}
	h.Append(p.Date, p)
}

// Rate resolves the conversion rate between two commodities or currencies
// as of a date. Resolution order: the most recent direct row dated on or
// before asOf (live quotes included), the reciprocal of the most recent
// opposite-direction row, then a one-hop composition through a pivot with
// direct or invertible prices to both sides. If no path resolves it fails
// with ErrNoConversionPath.
func (db *PriceDB) Rate(from, to string, asOf Date) (Quote, error) {
	if from == to {
		return Quote{Value: one, Currency: to}, nil
	}
	if p, ok := db.direct(from, to, asOf); ok {
		return Quote{Value: p.Value, Currency: to, ChangeAbs: p.ChangeAbs, ChangePct: p.ChangePct}, nil
	}
	if p, ok := db.direct(to, from, asOf); ok && !p.Value.IsZero() {
		return Quote{Value: one.Div(p.Value), Currency: to}, nil
	}
	for _, pivot := range db.pivots(from) {
		if pivot == to {
			continue
		}
		r1, ok := db.oneStep(from, pivot, asOf)
		if !ok {
			continue
		}
		r2, ok := db.oneStep(pivot, to, asOf)
		if !ok {
			continue
		}
		return Quote{Value: r1.Mul(r2), Currency: to}, nil
	}
	return Quote{}, fmt.Errorf("converting %s to %s as of %s: %w", from, to, asOf, ErrNoConversionPath)
}

// StockPrice returns the most recent quote for a tradable commodity on or
// before asOf, in its natural quote currency (the currency of that most
// recent row).
func (db *PriceDB) StockPrice(identity string, asOf Date) (Quote, error) {
	var (
		found bool
		day   Date
		best  Price
	)
	byCurrency := db.pairs[identity]
	for _, currency := range sortedKeys(byCurrency) {
		on, p, ok := byCurrency[currency].AsOf(asOf)
		if !ok {
			continue
		}
		if !found || on.After(day) {
			found, day, best = true, on, p
		}
	}
	if !found {
		return Quote{}, fmt.Errorf("no price for %s as of %s: %w", identity, asOf, ErrNoConversionPath)
	}
	return Quote{Value: best.Value, Currency: best.Currency, ChangeAbs: best.ChangeAbs, ChangePct: best.ChangePct}, nil
}

// direct returns the most recent from→to row dated on or before asOf.
func (db *PriceDB) direct(from, to string, asOf Date) (Price, bool) {
	h, ok := db.pairs[from][to]
	if !ok {
		return Price{}, false
	}
	return h.ValueAsOf(asOf)
}

// oneStep resolves a rate using a direct or reciprocal row only.
func (db *PriceDB) oneStep(from, to string, asOf Date) (decimal.Decimal, bool) {
	if p, ok := db.direct(from, to, asOf); ok {
		return p.Value, true
	}
	if p, ok := db.direct(to, from, asOf); ok && !p.Value.IsZero() {
		return one.Div(p.Value), true
	}
	return decimal.Decimal{}, false
}

// pivots lists candidate pivot currencies one step away from a commodity,
// in deterministic order.
func (db *PriceDB) pivots(from string) []string {
	set := make(map[string]bool)
	for currency := range db.pairs[from] {
		set[currency] = true
	}
	for commodity, byCurrency := range db.pairs {
		if _, ok := byCurrency[from]; ok {
			set[commodity] = true
		}
	}
	delete(set, from)
	return sortedKeys(set)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
