package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	start string
	date  string
	head  int
	tail  int
	all   bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of the portfolio" }
func (*txCmd) Usage() string {
	return `cbs tx [-s <start_date>] [-d <end_date>] [-head <n>] [-tail <n>] [-all]

  Lists the transactions of the portfolio in date order. With -all, the cash
  entries derived from the trades and the splits are listed too.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.start, "s", "", "The start date of the range. Defaults to the first transaction.")
	f.StringVar(&p.date, "d", "", "The end date of the range. Defaults to the last transaction.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
	f.BoolVar(&p.all, "all", false, "Also show the derived cash entries and splits.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	pf, err := LoadPortfolio()
	if err != nil {
		return fail("loading portfolio: %v", err)
	}
	r, err := parseRange(pf, p.start, p.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}

	var transactions []costbasis.Transaction
	for tx := range pf.Transactions() {
		if !r.Contains(tx.When()) {
			continue
		}
		if tx.Origin() != costbasis.External && !p.all {
			continue
		}
		transactions = append(transactions, tx)
	}

	if p.head > 0 && len(transactions) > p.head {
		transactions = transactions[:p.head]
	}
	if p.tail > 0 && len(transactions) > p.tail {
		transactions = transactions[len(transactions)-p.tail:]
	}

	printMarkdown(renderer.TransactionsMarkdown(slices.Values(transactions), true))
	return subcommands.ExitSuccess
}
