package ledger

import "github.com/shopspring/decimal"

// Split is one debit/credit leg of a transaction against one account.
//
// Value is expressed in the owning transaction's currency; Quantity is
// expressed in the account's commodity. For accounts denominated in the
// transaction currency the two must be numerically equal.
type Split struct {
	GUID            string
	AccountGUID     string
	TransactionGUID string
	Memo            string
	Value           decimal.Decimal
	Quantity        decimal.Decimal
}

// Transaction is a dated, described set of splits that sum to zero in the
// transaction currency. Transactions and their splits are created
// atomically: a transaction never exists with zero or unbalanced splits.
type Transaction struct {
	GUID        string
	Currency    string
	Date        Date
	Description string
	Splits      []Split
}

// Imbalance returns the sum of split values, zero for a valid transaction.
func (t *Transaction) Imbalance() decimal.Decimal {
	var sum decimal.Decimal
	for _, s := range t.Splits {
		sum = sum.Add(s.Value)
	}
	return sum
}

// Balanced reports whether the double-entry invariant holds.
func (t *Transaction) Balanced() bool { return t.Imbalance().IsZero() }
