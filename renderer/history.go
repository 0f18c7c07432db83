package renderer

import (
	"bytes"

	"github.com/etnz/costbasis"
	md "github.com/nao1215/markdown"
)

// EvolutionMarkdown renders evolution records, one table per ticker.
func EvolutionMarkdown(records []costbasis.Record) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Evolution")

	var (
		table   *md.TableSet
		current string
	)
	flush := func() {
		if table != nil {
			doc.Table(*table)
		}
	}
	for _, r := range records {
		if table == nil || r.Ticker != current {
			flush()
			current = r.Ticker
			doc.H2(r.Ticker)
			table = &md.TableSet{
				Alignment: []md.TableAlignment{
					md.AlignLeft,
					md.AlignRight,
					md.AlignRight,
					md.AlignRight,
					md.AlignRight,
				},
				Header: row("Date", "Quantity", "Price", "Value", "Cost"),
			}
		}
		table.Rows = append(table.Rows, row(r.Date.String(), r.Quantity.String(), r.Price.String(), r.ValueBase.String(), r.Cost.String()))
	}
	flush()
	return doc.String()
}
