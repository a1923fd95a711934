package cmd

import (
	"testing"

	"github.com/mlvd/ledger"
)

func testCmdBook(t *testing.T) *ledger.Book {
	t.Helper()
	commodities := []*ledger.Commodity{
		{GUID: "c-eur", Namespace: ledger.NamespaceCurrency, Mnemonic: "EUR"},
	}
	accounts := []*ledger.Account{
		{GUID: "root", Name: "Root", Type: ledger.TypeRoot},
		{GUID: "assets", Name: "Assets", Type: ledger.TypeAsset, CommodityGUID: "c-eur", ParentGUID: "root"},
		{GUID: "bank", Name: "Bank", Type: ledger.TypeBank, CommodityGUID: "c-eur", ParentGUID: "assets"},
	}
	book, err := ledger.NewBook(accounts, commodities, nil)
	if err != nil {
		t.Fatalf("NewBook() error = %v", err)
	}
	return book
}
