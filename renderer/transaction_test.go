package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/costbasis"
)

func TestTransactionsMarkdown(t *testing.T) {
	p, _ := fixture(t)

	external := parseTables(t, TransactionsMarkdown(p.Transactions(), false))[0]
	if got := len(external) - 1; got != 6 {
		t.Errorf("got %d transactions, want the 6 recorded ones", got)
	}
	for _, row := range external[1:] {
		if row[6] != costbasis.External.String() {
			t.Errorf("row %v is not an external transaction", row)
		}
	}

	all := parseTables(t, TransactionsMarkdown(p.Transactions(), true))[0]
	if len(all) <= len(external) {
		t.Errorf("got %d rows with derived entries, want more than %d", len(all), len(external))
	}
}

func TestTransaction(t *testing.T) {
	p, _ := fixture(t)
	var lines []string
	for tx := range p.Transactions() {
		if tx.Origin() == costbasis.External {
			lines = append(lines, Transaction(tx))
		}
	}
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "Deposited") {
		t.Fatalf("Transaction() lines = %v, want a deposit first", lines)
	}
	if !strings.HasPrefix(lines[1], "Bought 10 of ACME") {
		t.Errorf("Transaction(buy) = %q", lines[1])
	}
	if !strings.HasPrefix(lines[5], "Dividend of") {
		t.Errorf("Transaction(dividend) = %q", lines[5])
	}
}
