package renderer

import (
	"bytes"
	"fmt"
	"io"

	md "github.com/nao1215/markdown"

	"github.com/mlvd/ledger"
)

// PositionsMarkdown renders the investment positions report: open
// positions as a table, closed ones as a shorter realized-only section.
func PositionsMarkdown(positions []*ledger.Position, method ledger.CostBasisMethod, asOf ledger.Date) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Positions on %s", asOf))
	doc.PlainText(fmt.Sprintf("Cost basis method: %s", method))

	open := md.TableSet{
		Header: []string{"Account", "Shares", "Cost Basis", "Market Value", "Value", "Unrealized", "Realized", "Dividends"},
	}
	for _, p := range positions {
		if p.Closed {
			continue
		}
		open.Rows = append(open.Rows, []string{
			p.AccountName,
			p.Shares.String(),
			p.CostBasis.String(),
			p.MarketValue.String(),
			p.Value.String(),
			p.UnrealizedGain.SignedString(),
			p.RealizedGain.SignedString(),
			p.RealizedDividends.String(),
		})
	}
	if len(open.Rows) > 0 {
		doc.H2("Open")
		doc.Table(open)
	}

	var closed bytes.Buffer
	ConditionalBlock(&closed, func(w io.Writer) bool {
		var any bool
		fmt.Fprintf(w, "\n## Closed\n\n")
		for _, p := range positions {
			if !p.Closed {
				continue
			}
			any = true
			fmt.Fprintf(w, "- %s: realized %s, dividends %s\n", p.AccountName, p.RealizedGain.SignedString(), p.RealizedDividends)
		}
		return any
	})
	return doc.String() + closed.String()
}
