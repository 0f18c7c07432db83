package renderer

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/etnz/costbasis"
	md "github.com/nao1215/markdown"
)

// Transaction renders a transaction to a string.
func Transaction(tx costbasis.Transaction) string {
	ticker := tx.Instrument().Ticker()
	switch v := tx.(type) {
	case costbasis.Buy:
		return fmt.Sprintf("Bought %s of %s for %s", v.Quantity, ticker, v.TotalBase)
	case costbasis.Sell:
		return fmt.Sprintf("Sold %s of %s for %s", v.Quantity, ticker, v.TotalBase)
	case costbasis.Dividend:
		return fmt.Sprintf("Dividend of %s for %s", v.TotalBase, ticker)
	case costbasis.Deposit:
		return fmt.Sprintf("Deposited %s", v.Total)
	case costbasis.Withdraw:
		return fmt.Sprintf("Withdrew %s", v.Total)
	case costbasis.Split:
		return fmt.Sprintf("Split %s by %s", ticker, v.Factor)
	default:
		return string(tx.What())
	}
}

// TransactionsMarkdown renders a transaction list. Synthetic cash entries
// are included only when all is set.
func TransactionsMarkdown(txs iter.Seq[costbasis.Transaction], all bool) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Transactions")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: row("Date", "Type", "Ticker", "Quantity", "Price", "Total", "Origin", "Memo"),
		Rows:   [][]string{},
	}
	for tx := range txs {
		if tx.Origin() != costbasis.External && !all {
			continue
		}
		quantity, price, total := "", "", ""
		switch v := tx.(type) {
		case costbasis.Buy:
			quantity, price, total = v.Quantity.String(), v.Price.String(), v.TotalBase.String()
		case costbasis.Sell:
			quantity, price, total = v.Quantity.String(), v.Price.String(), v.TotalBase.String()
		case costbasis.Deposit:
			quantity, price, total = v.Quantity.String(), v.Price.String(), v.TotalBase.String()
		case costbasis.Withdraw:
			quantity, price, total = v.Quantity.String(), v.Price.String(), v.TotalBase.String()
		case costbasis.Dividend:
			quantity, price, total = v.Quantity.String(), v.Price.String(), v.TotalBase.String()
		case costbasis.Split:
			quantity, total = "×"+v.Factor.String(), v.Residual.String()
		}
		table.Rows = append(table.Rows, row(tx.When().String(), string(tx.What()), tx.Instrument().Ticker(), quantity, price, total, tx.Origin().String(), tx.Memo()))
	}
	doc.Table(table)
	return doc.String()
}
