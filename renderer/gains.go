package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/costbasis"
	md "github.com/nao1215/markdown"
)

// ClosedMarkdown renders the realized gains of a period. When detailed is
// set every closed lot gets its own row below its ticker.
func ClosedMarkdown(r *costbasis.ClosedReport, detailed bool) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1f("Closed Positions, %s", r.Range.Name())
	writeClosed(doc, r, detailed)
	return doc.String()
}

func writeClosed(doc *md.Markdown, r *costbasis.ClosedReport, detailed bool) {
	if len(r.Tickers) == 0 {
		doc.PlainText("No position closed.")
		doc.LF()
		return
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: row("Ticker", "Quantity", "Cost", "Proceeds", "Gain", "Return"),
	}
	for _, g := range r.Tickers {
		table.Rows = append(table.Rows, row(g.Ticker, g.Quantity.String(), g.Cost.String(), g.Proceeds.String(), g.Gain.SignedString(), g.Return.SignedString()))
		if !detailed {
			continue
		}
		for _, lot := range g.Lots {
			table.Rows = append(table.Rows, row(
				fmt.Sprintf("%s → %s", lot.BuyDate, lot.SellDate),
				lot.Quantity.String(),
				lot.Cost.String(),
				lot.Proceeds.String(),
				lot.Gain().SignedString(),
				"",
			))
		}
	}
	table.Rows = append(table.Rows, row(
		md.Bold("Total"),
		"",
		md.Bold(r.Cost.String()),
		md.Bold(r.Proceeds.String()),
		md.Bold(r.Gain.SignedString()),
		md.Bold(r.Return.SignedString()),
	))
	doc.Table(table)
}

// IncomesMarkdown renders the dividends received.
func IncomesMarkdown(incomes []costbasis.Income) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Incomes")
	writeIncomes(doc, incomes)
	return doc.String()
}

// writeIncomes writes nothing when there is no income.
func writeIncomes(doc *md.Markdown, incomes []costbasis.Income) {
	if len(incomes) == 0 {
		return
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft},
		Header:    row("Date", "Ticker", "Amount", "Memo"),
	}
	for _, in := range incomes {
		table.Rows = append(table.Rows, row(in.Date.String(), in.Ticker, in.Amount.String(), in.Memo))
	}
	doc.Table(table)
}

// TaxMarkdown renders a yearly tax report: realized gains, incomes, and
// the positions held at the start and the end of the year. Empty sections
// are left out.
func TaxMarkdown(r *costbasis.TaxReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1f("Tax Report %d", r.Year)

	doc.H2("Realized Gains")
	writeClosed(doc, r.Closed, true)

	if len(r.Incomes) > 0 {
		doc.H2f("Incomes (%s)", r.Income)
		writeIncomes(doc, r.Incomes)
	}

	for _, s := range []struct {
		title string
		snap  *costbasis.Snapshot
	}{
		{"Opening Positions", r.Opening},
		{"Closing Positions", r.Closing},
	} {
		holdings := holdingsTable(s.snap)
		if len(holdings.Rows) == 0 {
			continue
		}
		doc.H2f("%s (%s)", s.title, s.snap.On)
		doc.Table(holdings)
	}
	return doc.String()
}

// holdingsTable lists the securities held in a snapshot, without cash.
func holdingsTable(s *costbasis.Snapshot) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    row("Ticker", "Quantity", "Cost", "Value"),
	}
	for _, pos := range s.Positions {
		if pos.Cash {
			continue
		}
		table.Rows = append(table.Rows, row(pos.Ticker, pos.Quantity.String(), pos.Cost.String(), pos.ValueBase.String()))
	}
	return table
}
