package renderer

import (
	"bytes"

	"github.com/etnz/costbasis"
	md "github.com/nao1215/markdown"
)

// PositionsMarkdown renders the open positions of a snapshot. Values
// converted without a known exchange rate are marked with a "~".
func PositionsMarkdown(title string, s *costbasis.Snapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1f("%s on %s", title, s.On)

	securities := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: row("Ticker", "Quantity", "Avg Cost", "Cost", "Price", "Value", "Return"),
	}
	cash := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    row("Account", "Balance", "Cost", "Value"),
	}

	for _, pos := range s.Positions {
		value := pos.ValueBase.String()
		if !pos.Exact {
			value = "~" + value
		}
		if pos.Cash {
			cash.Rows = append(cash.Rows, row(pos.Currency, pos.Quantity.String(), pos.Cost.String(), value))
			continue
		}
		securities.Rows = append(securities.Rows, row(
			pos.Ticker,
			pos.Quantity.String(),
			pos.PriceBase.String(),
			pos.Cost.String(),
			pos.Price.String(),
			value,
			pos.Return.SignedString(),
		))
	}

	if len(securities.Rows) > 0 {
		doc.H2("Securities")
		doc.Table(securities)
	}
	if len(cash.Rows) > 0 {
		doc.H2("Cash")
		doc.Table(cash)
	}

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    row("", "Cost", "Value", "Return"),
		Rows: [][]string{row(
			md.Bold("Total"),
			md.Bold(s.TotalCost.String()),
			md.Bold(s.TotalValue.String()),
			md.Bold(s.TotalReturn.SignedString()),
		)},
	})
	return doc.String()
}

// LotsMarkdown renders the open lots of one position.
func LotsMarkdown(ticker string, lots []costbasis.OpenLot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2f("Open lots of %s", ticker)

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: row("Acquired", "Quantity", "Unit Cost", "Cost", "Value", "Gain"),
	}
	for _, lot := range lots {
		table.Rows = append(table.Rows, row(
			lot.Date.String(),
			lot.Quantity.String(),
			lot.UnitCost().String(),
			lot.Cost.String(),
			lot.Value.String(),
			lot.Gain.SignedString(),
		))
	}
	doc.Table(table)
	return doc.String()
}
