package ledger

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// currencySymbols lists the codes rendered with a symbol prefix.
// Unrecognized codes render as "<amount> <code>".
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"HKD": "HK$",
	"SGD": "S$",
	"CAD": "C$",
}

// Money represents an exact monetary value tagged with a currency code.
//
// The amount is held as a decimal (integer mantissa plus scale), never a
// float, so double-entry invariants hold exactly.
type Money struct {
	value decimal.Decimal
	cur   string
}

// M creates a Money value in the given currency.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// Currency returns the money's currency code.
func (m Money) Currency() string { return m.cur }

// Amount returns the underlying decimal amount.
func (m Money) Amount() decimal.Decimal { return m.value }

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsPositive() bool { return m.value.IsPositive() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }
func (m Money) Neg() Money       { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money       { return Money{value: m.value.Abs(), cur: m.cur} }

// Mul scales the amount by a unit count, keeping the currency.
func (m Money) Mul(q Quantity) Money { return Money{value: m.value.Mul(q.value), cur: m.cur} }

// Div divides the amount by a unit count, keeping the currency.
func (m Money) Div(q Quantity) Money { return Money{value: m.value.Div(q.value), cur: m.cur} }

// Add returns m+n, or ErrCurrencyMismatch if the currencies differ.
// A zero Money with an empty currency is a neutral element.
func (m Money) Add(n Money) (Money, error) {
	cur, err := sameCurrency(m, n)
	if err != nil {
		return Money{}, err
	}
	return Money{value: m.value.Add(n.value), cur: cur}, nil
}

// Sub returns m-n, or ErrCurrencyMismatch if the currencies differ.
func (m Money) Sub(n Money) (Money, error) {
	cur, err := sameCurrency(m, n)
	if err != nil {
		return Money{}, err
	}
	return Money{value: m.value.Sub(n.value), cur: cur}, nil
}

// Cmp compares two amounts of the same currency, returning -1, 0 or 1.
// Comparing across currencies fails with ErrCurrencyMismatch.
func (m Money) Cmp(n Money) (int, error) {
	if _, err := sameCurrency(m, n); err != nil {
		return 0, err
	}
	return m.value.Cmp(n.value), nil
}

// Equal reports whether two values have the same currency and amount.
func (m Money) Equal(n Money) bool {
	return m.cur == n.cur && m.value.Equal(n.value)
}

// Convert returns the value expressed in the target currency at the given
// rate, rounded half away from zero at the target currency's display scale.
// Currencies without a known display scale pass through unrounded.
func (m Money) Convert(target string, rate decimal.Decimal) Money {
	v := m.value.Mul(rate)
	if cur := money.GetCurrency(target); cur != nil {
		v = v.Round(int32(cur.Fraction))
	}
	return Money{value: v, cur: target}
}

// String renders the value with the symbol table for recognized codes,
// e.g. "€150.00", and as "<amount> <code>" otherwise.
func (m Money) String() string {
	v := m.value
	if cur := money.GetCurrency(m.cur); cur != nil {
		v = v.Round(int32(cur.Fraction))
		if sym, ok := currencySymbols[m.cur]; ok {
			return sym + v.StringFixed(int32(cur.Fraction))
		}
		return fmt.Sprintf("%s %s", v.StringFixed(int32(cur.Fraction)), m.cur)
	}
	return fmt.Sprintf("%s %s", v.String(), m.cur)
}

// SignedString is String with an explicit sign, and "-" for zero.
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func sameCurrency(a, b Money) (string, error) {
	if a.cur == "" {
		return b.cur, nil
	}
	if b.cur == "" {
		return a.cur, nil
	}
	if a.cur != b.cur {
		return "", fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, a.cur, b.cur)
	}
	return a.cur, nil
}
