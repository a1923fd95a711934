package ledger

import "github.com/shopspring/decimal"

// Price states that 1 unit of Commodity was worth Value units of Currency
// on Date. Commodity carries the pricing identity (cusip or mnemonic),
// Currency a currency mnemonic.
//
// Prices are immutable except through upsert keyed by
// (Commodity, Currency, Date): a later write for the same key replaces the
// earlier one, one price per commodity/currency/day.
type Price struct {
	GUID      string
	Commodity string
	Currency  string
	Date      Date
	Value     decimal.Decimal
	Source    string

	// Live-quote metadata, populated when Source is a live provider.
	ChangeAbs decimal.Decimal
	ChangePct decimal.Decimal
}
