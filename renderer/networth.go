package renderer

import (
	"strings"

	"github.com/mlvd/ledger"
)

// NetWorthReport is the rolled-up balance sheet of a book on a date.
type NetWorthReport struct {
	Date         ledger.Date
	MainCurrency string
	NetWorth     ledger.Money
	Rows         []AccountRow
}

// AccountRow is one account line in the report, pre-indented for
// markdown so the template stays trivial.
type AccountRow struct {
	Name  string
	Depth int
	Total ledger.Money
}

// Indent returns the nested-list prefix for the row's depth.
func (r AccountRow) Indent() string { return strings.Repeat("  ", r.Depth) }

// NewNetWorthReport builds the report from rollup totals, walking the
// account tree depth-first so parents precede their children.
func NewNetWorthReport(book *ledger.Book, totals map[string]ledger.Money, mainCurrency string, asOf ledger.Date) *NetWorthReport {
	r := &NetWorthReport{
		Date:         asOf,
		MainCurrency: mainCurrency,
		NetWorth:     totals[book.Root().GUID],
	}
	var walk func(guid string, depth int)
	walk = func(guid string, depth int) {
		account := book.Account(guid)
		r.Rows = append(r.Rows, AccountRow{Name: account.Name, Depth: depth, Total: totals[guid]})
		for _, child := range account.ChildrenGUIDs {
			walk(child, depth+1)
		}
	}
	for _, child := range book.Root().ChildrenGUIDs {
		walk(child, 0)
	}
	return r
}
