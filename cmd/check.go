package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate the portfolio definition" }
func (*checkCmd) Usage() string {
	return `cbs check

  Decodes the portfolio definition, builds every ledger and replays it to
  the last transaction. Reports the validation errors and the oversold
  positions, if any.
`
}

func (*checkCmd) SetFlags(f *flag.FlagSet) {}

func (*checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := LoadPortfolio()
	if err != nil {
		return fail("loading portfolio: %v", err)
	}
	if err := p.Verify(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s is not consistent:\n%v\n", config.Portfolio, err)
		return subcommands.ExitFailure
	}

	txs, ledgers := 0, 0
	for range p.Transactions() {
		txs++
	}
	for range p.Ledgers() {
		ledgers++
	}
	fmt.Printf("%s: %d transactions in %d ledgers, from %s to %s\n", config.Portfolio, txs, ledgers, p.StartDate(), p.EndDate())
	return subcommands.ExitSuccess
}
