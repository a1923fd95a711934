package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/mlvd/ledger"
)

func testBook(t *testing.T) *ledger.Book {
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

func TestRenderNetWorth(t *testing.T) {
	book := testBook(t)
	totals := map[string]ledger.Money{
		"root":   ledger.M(150, "EUR"),
		"assets": ledger.M(150, "EUR"),
		"bank":   ledger.M(150, "EUR"),
	}
	report := NewNetWorthReport(book, totals, "EUR", ledger.NewDate(2025, time.March, 3))
	got := RenderNetWorth(report)

	for _, want := range []string{
		"# Net Worth on 2025-03-03",
		"**€150.00**",
		"- Assets: €150.00",
		"  - Bank: €150.00", // children are indented under their parent
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderNetWorth() missing %q in:\n%s", want, got)
		}
	}
}

func TestPositionsMarkdown(t *testing.T) {
	openPos := &ledger.Position{
		AccountName:       "Broker",
		Shares:            ledger.Q(6),
		CostBasis:         ledger.M(600, "EUR"),
		RealizedGain:      ledger.M(100, "EUR"),
		RealizedDividends: ledger.M(0, "EUR"),
		MarketValue:       ledger.M(660, "EUR"),
		Value:             ledger.M(660, "EUR"),
		UnrealizedGain:    ledger.M(60, "EUR"),
	}
	closedPos := &ledger.Position{
		AccountName:  "Old Broker",
		RealizedGain: ledger.M(200, "EUR"),
		Closed:       true,
	}
	got := PositionsMarkdown([]*ledger.Position{openPos, closedPos}, ledger.AverageCost, ledger.NewDate(2025, time.March, 3))

	for _, want := range []string{
		"# Positions on 2025-03-03",
		"Cost basis method: average",
		"Broker",
		"+€60.00",
		"## Closed",
		"Old Broker: realized +€200.00",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("PositionsMarkdown() missing %q in:\n%s", want, got)
		}
	}
}

func TestPositionsMarkdown_NoClosedSection(t *testing.T) {
	openPos := &ledger.Position{
		AccountName: "Broker",
		Shares:      ledger.Q(1),
		CostBasis:   ledger.M(10, "EUR"),
	}
	got := PositionsMarkdown([]*ledger.Position{openPos}, ledger.FIFO, ledger.NewDate(2025, time.March, 3))
	if strings.Contains(got, "## Closed") {
		t.Errorf("empty closed section rendered:\n%s", got)
	}
}
