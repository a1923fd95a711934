package ledger

import (
	"errors"
	"testing"
	"time"
)

func TestAggregator_Rollup(t *testing.T) {
	on := day(2025, time.March, 10)
	book := newTestBook(t,
		newTx("t1", "EUR", day(2025, time.March, 1), "salary", sp("bank", 100), sp("salary", -100)),
		newTx("t2", "USD", day(2025, time.March, 2), "buy X", spq("broker", 50, 10), spq("usdbank", -50, -50)),
	)
	prices := NewPriceDB([]Price{
		price("X", "EUR", day(2025, time.March, 5), 5),
		price("USD", "EUR", day(2025, time.March, 5), 0.9),
	})
	agg := NewAggregator(book, prices, "EUR")

	totals, err := agg.Rollup(on)
	if err != nil {
		t.Fatalf("Rollup() error = %v", err)
	}

	// Bank 100 EUR, USD Bank -50 USD (-45 EUR), Broker 10 X at 5 EUR.
	wantMoney(t, totals["bank"], 100, "EUR", "bank")
	wantMoney(t, totals["usdbank"], -50, "USD", "usdbank")
	wantMoney(t, totals["broker"], 50, "EUR", "broker")
	wantMoney(t, totals["assets"], 105, "EUR", "assets")
	wantMoney(t, totals["salary"], -100, "EUR", "salary")

	// ROOT sums every subtree, income included, so what remains is the
	// unrealized revaluation: 50 USD of stock now worth 50 EUR.
	wantMoney(t, totals["root"], 5, "EUR", "root")

	nw, err := agg.NetWorth(on)
	if err != nil {
		t.Fatalf("NetWorth() error = %v", err)
	}
	wantMoney(t, nw, 5, "EUR", "NetWorth()")
}

func TestAggregator_RollupRequiresPrices(t *testing.T) {
	book := newTestBook(t)
	agg := NewAggregator(book, NewPriceDB(), "EUR")
	if _, err := agg.Rollup(day(2025, time.March, 10)); !errors.Is(err, ErrPricesNotLoaded) {
		t.Errorf("Rollup() error = %v, want ErrPricesNotLoaded", err)
	}
}

func TestAggregator_RollupNoConversionPath(t *testing.T) {
	book := newTestBook(t,
		newTx("t1", "USD", day(2025, time.March, 1), "cash in", sp("usdbank", 50), sp("travel", -50)),
	)
	// A price exists so the graph is non-empty, but nothing links USD to
	// EUR: converting USD Bank into Assets must fail.
	prices := NewPriceDB([]Price{price("X", "CHF", day(2025, time.March, 1), 1)})
	agg := NewAggregator(book, prices, "EUR")

	if _, err := agg.Rollup(day(2025, time.March, 10)); !errors.Is(err, ErrNoConversionPath) {
		t.Errorf("Rollup() error = %v, want ErrNoConversionPath", err)
	}
}

func TestAggregator_RollupEmptyInvestment(t *testing.T) {
	// An investment account with no units must not require a quote.
	book := newTestBook(t,
		newTx("t1", "EUR", day(2025, time.March, 1), "salary", sp("bank", 100), sp("salary", -100)),
	)
	prices := NewPriceDB([]Price{price("USD", "EUR", day(2025, time.March, 1), 0.9)})
	agg := NewAggregator(book, prices, "EUR")

	totals, err := agg.Rollup(day(2025, time.March, 10))
	if err != nil {
		t.Fatalf("Rollup() error = %v", err)
	}
	wantMoney(t, totals["assets"], 100, "EUR", "assets")
}

func TestAggregator_AccountTotals(t *testing.T) {
	d1 := day(2025, time.March, 1)
	d2 := day(2025, time.April, 1)
	book := newTestBook(t,
		newTx("t1", "EUR", d1, "salary", sp("bank", 100), sp("salary", -100)),
		newTx("t2", "EUR", d2, "groceries", sp("bank", -40), sp("food", 40)),
		newTx("t3", "USD", d2, "trip", sp("usdbank", -25), sp("travel", 25)),
	)
	agg := NewAggregator(book, NewPriceDB(), "EUR")

	totals, err := agg.AccountTotals([]string{"bank", "food", "travel"}, AsOf(d2))
	if err != nil {
		t.Fatalf("AccountTotals() error = %v", err)
	}
	wantMoney(t, totals["bank"], 60, "EUR", "bank")
	wantMoney(t, totals["food"], 40, "EUR", "food")
	wantMoney(t, totals["travel"], 25, "USD", "travel")

	// An interval range reports flows inside the period only.
	totals, err = agg.AccountTotals([]string{"bank"}, Range{From: d2, To: d2})
	if err != nil {
		t.Fatalf("AccountTotals() error = %v", err)
	}
	wantMoney(t, totals["bank"], -40, "EUR", "bank in april")

	if _, err := agg.AccountTotals([]string{"nope"}, AsOf(d2)); err == nil {
		t.Error("AccountTotals(unknown) = nil error")
	}
	if _, err := agg.AccountTotals([]string{"root"}, AsOf(d2)); err == nil {
		t.Error("AccountTotals(root) = nil error, ROOT has no commodity")
	}
}
