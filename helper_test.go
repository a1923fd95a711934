package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// Shared fixture: a small book with a currency mix and one investment
// account.
//
//	Root
//	├── Assets (ASSET, EUR)
//	│   ├── Bank (BANK, EUR)
//	│   ├── USD Bank (BANK, USD)
//	│   └── Broker (STOCK, X)
//	├── Equity (EQUITY, EUR)
//	├── Salary (INCOME, EUR)
//	├── Food (EXPENSE, EUR)
//	└── Travel (EXPENSE, USD)

func testCommodities() []*Commodity {
	return []*Commodity{
		{GUID: "c-eur", Namespace: NamespaceCurrency, Mnemonic: "EUR", Fullname: "Euro"},
		{GUID: "c-usd", Namespace: NamespaceCurrency, Mnemonic: "USD", Fullname: "US Dollar"},
		{GUID: "c-x", Namespace: NamespaceStock, Mnemonic: "X", Fullname: "X Corp"},
	}
}

func testAccounts() []*Account {
	return []*Account{
		{GUID: "root", Name: "Root", Type: TypeRoot},
		{GUID: "assets", Name: "Assets", Type: TypeAsset, CommodityGUID: "c-eur", ParentGUID: "root"},
		{GUID: "bank", Name: "Bank", Type: TypeBank, CommodityGUID: "c-eur", ParentGUID: "assets"},
		{GUID: "usdbank", Name: "USD Bank", Type: TypeBank, CommodityGUID: "c-usd", ParentGUID: "assets"},
		{GUID: "broker", Name: "Broker", Type: TypeStock, CommodityGUID: "c-x", ParentGUID: "assets"},
		{GUID: "equity", Name: "Equity", Type: TypeEquity, CommodityGUID: "c-eur", ParentGUID: "root"},
		{GUID: "salary", Name: "Salary", Type: TypeIncome, CommodityGUID: "c-eur", ParentGUID: "root"},
		{GUID: "food", Name: "Food", Type: TypeExpense, CommodityGUID: "c-eur", ParentGUID: "root"},
		{GUID: "travel", Name: "Travel", Type: TypeExpense, CommodityGUID: "c-usd", ParentGUID: "root"},
	}
}

func newTestBook(t *testing.T, transactions ...Transaction) *Book {
	t.Helper()
	book, err := NewBook(testAccounts(), testCommodities(), transactions)
	if err != nil {
		t.Fatalf("NewBook() error = %v", err)
	}
	return book
}

// sp builds a split with equal value and quantity, the same-currency case.
func sp(account string, amount float64) Split {
	d := decimal.NewFromFloat(amount)
	return Split{AccountGUID: account, Value: d, Quantity: d}
}

// spq builds a split with distinct value and quantity.
func spq(account string, value, quantity float64) Split {
	return Split{
		AccountGUID: account,
		Value:       decimal.NewFromFloat(value),
		Quantity:    decimal.NewFromFloat(quantity),
	}
}

func newTx(guid, currency string, on Date, description string, splits ...Split) Transaction {
	for i := range splits {
		splits[i].TransactionGUID = guid
	}
	return Transaction{GUID: guid, Currency: currency, Date: on, Description: description, Splits: splits}
}

func day(y int, m time.Month, d int) Date { return NewDate(y, m, d) }

func wantDecimal(t *testing.T, got decimal.Decimal, want float64, what string) {
	t.Helper()
	if !got.Equal(decimal.NewFromFloat(want)) {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func wantMoney(t *testing.T, got Money, want float64, currency string, what string) {
	t.Helper()
	if !got.Equal(M(want, currency)) {
		t.Errorf("%s = %v, want %v %s", what, got, want, currency)
	}
}
