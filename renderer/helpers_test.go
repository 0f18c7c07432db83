package renderer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/etnz/costbasis"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const definition = `{
  "name": "Test",
  "currency": "EUR",
  "transactions": [
    {"date": "2025-01-01", "type": "deposit", "quantity": 1000},
    {"date": "2025-01-02", "type": "buy", "ticker": "ACME", "quantity": 10, "price": 10},
    {"date": "2025-01-05", "type": "buy", "ticker": "AAPL", "quantity": 2, "price": 100, "currency": "USD", "exchange_rate": 0.8},
    {"date": "2025-01-06", "type": "sell", "ticker": "ACME", "quantity": 10, "price": 12},
    {"date": "2025-01-07", "type": "buy", "ticker": "ACME", "quantity": 5, "price": 11},
    {"date": "2025-01-09", "type": "dividend", "ticker": "ACME", "quantity": 5, "price": 0.4, "memo": "Q4"}
  ]
}`

// fixture returns the test portfolio and its market.
func fixture(t *testing.T) (*costbasis.Portfolio, costbasis.MarketData) {
	t.Helper()
	def, err := costbasis.DecodeDefinition(strings.NewReader(definition), costbasis.JSON)
	if err != nil {
		t.Fatalf("DecodeDefinition() error = %v", err)
	}
	p, err := costbasis.New(def)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	market := costbasis.NewMemoryMarket().
		Append("ACME", costbasis.NewDate(2025, 1, 8), decimal.NewFromInt(13)).
		Append("AAPL", costbasis.NewDate(2025, 1, 6), decimal.NewFromInt(120))
	return p, market
}

func eur(v float64) string { return costbasis.M(v, "EUR").String() }

// mdTable is a markdown table parsed back: the header, then the rows.
type mdTable [][]string

// row returns the first row whose first cell is key.
func (t mdTable) row(key string) []string {
	for _, r := range t[1:] {
		if len(r) > 0 && r[0] == key {
			return r
		}
	}
	return nil
}

// parseTables parses md as GitHub flavored markdown and returns the text
// of the cells of every table.
func parseTables(t *testing.T, md string) []mdTable {
	t.Helper()
	source := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	var tables []mdTable
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *extast.Table:
			tables = append(tables, nil)
		case *extast.TableHeader, *extast.TableRow:
			last := len(tables) - 1
			tables[last] = append(tables[last], nil)
		case *extast.TableCell:
			last := len(tables) - 1
			row := len(tables[last]) - 1
			tables[last][row] = append(tables[last][row], cellText(n, source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walking markdown: %v", err)
	}
	return tables
}

func cellText(cell ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(cell, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if txt, ok := n.(*ast.Text); ok && entering {
			b.Write(txt.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func TestRow(t *testing.T) {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    row("Name|Alias", "Value"),
		Rows:      [][]string{row("a|b", "1"), row("c", "2")},
	})
	if err := doc.Error(); err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	tables := parseTables(t, doc.String())
	if len(tables) != 1 || len(tables[0]) != 3 {
		t.Fatalf("parsed tables = %v, want one table of 3 rows", tables)
	}
	if got := tables[0][0]; len(got) != 2 || got[0] != "Name|Alias" {
		t.Errorf("header = %v, want [Name|Alias Value]", got)
	}
	if got := tables[0].row("a|b"); len(got) != 2 || got[1] != "1" {
		t.Errorf("row a|b = %v, want [a|b 1]", got)
	}
}

func TestTransactionsMarkdown_PipeInMemo(t *testing.T) {
	def, err := costbasis.DecodeDefinition(strings.NewReader(`{
  "name": "Memo",
  "currency": "EUR",
  "transactions": [
    {"date": "2025-01-01", "type": "deposit", "quantity": 100, "memo": "salary | january"}
  ]
}`), costbasis.JSON)
	if err != nil {
		t.Fatalf("DecodeDefinition() error = %v", err)
	}
	p, err := costbasis.New(def)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	tables := parseTables(t, TransactionsMarkdown(p.Transactions(), false))
	if len(tables) != 1 || len(tables[0]) != 2 {
		t.Fatalf("parsed tables = %v, want one row", tables)
	}
	if got := tables[0][1]; len(got) != 8 || got[7] != "salary | january" {
		t.Errorf("row = %q, want 8 cells ending with the memo", got)
	}
}
