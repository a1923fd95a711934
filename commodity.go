package ledger

import (
	"fmt"
	"regexp"
)

// currencyCodeRegex checks for the ISO 4217 format: 3 uppercase letters.
var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency checks that a string is a validly formatted currency code.
func ValidateCurrency(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid currency code %q: must be 3 uppercase letters", code)
	}
	return nil
}

// Namespace classifies a commodity.
type Namespace int

const (
	NamespaceCurrency Namespace = iota
	NamespaceStock
	NamespaceFund
	NamespaceOther
)

func (n Namespace) String() string {
	switch n {
	case NamespaceCurrency:
		return "CURRENCY"
	case NamespaceStock:
		return "STOCK"
	case NamespaceFund:
		return "FUND"
	case NamespaceOther:
		return "OTHER"
	default:
		return "unknown"
	}
}

// ParseNamespace parses a string into a Namespace.
func ParseNamespace(s string) (Namespace, error) {
	switch s {
	case "CURRENCY":
		return NamespaceCurrency, nil
	case "STOCK":
		return NamespaceStock, nil
	case "FUND":
		return NamespaceFund, nil
	case "OTHER":
		return NamespaceOther, nil
	default:
		return 0, fmt.Errorf("unknown commodity namespace: %q", s)
	}
}

// Commodity is a unit accounts can be denominated in: a currency, or a
// tradable security. Immutable once referenced by a Split.
type Commodity struct {
	GUID      string
	Namespace Namespace
	Mnemonic  string // e.g. "EUR", "AAPL"
	CUSIP     string // optional security identifier
	Fullname  string
}

// PriceIdentity is the key the price graph tracks this commodity under:
// the CUSIP when present, the mnemonic otherwise.
func (c *Commodity) PriceIdentity() string {
	if c.CUSIP != "" {
		return c.CUSIP
	}
	return c.Mnemonic
}

// IsCurrency reports whether the commodity is a currency.
func (c *Commodity) IsCurrency() bool { return c.Namespace == NamespaceCurrency }
