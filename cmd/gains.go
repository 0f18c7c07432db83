package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/costbasis/renderer"
	"github.com/google/subcommands"
)

// closedCmd holds the flags for the 'closed' subcommand.
type closedCmd struct {
	start    string
	end      string
	year     int
	detailed bool
	cash     bool
}

func (*closedCmd) Name() string     { return "closed" }
func (*closedCmd) Synopsis() string { return "realized gains of the lots closed in a period" }
func (*closedCmd) Usage() string {
	return `cbs closed [-s <date>] [-d <date>] [-lots] [-cash]
cbs closed -y <year>

  Lists the lots consumed by the sells of a period, matched first in first
  out, with their cost, proceeds and gain in the base currency.

  With -y, prints the tax report of a year instead: realized gains,
  dividends, and the positions at the start and the end of the year.
`
}

func (c *closedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Start date of the reporting period. Defaults to the first transaction.")
	f.StringVar(&c.end, "d", "", "End date of the reporting period. Defaults to the last transaction.")
	f.IntVar(&c.year, "y", 0, "Tax year to report on")
	f.BoolVar(&c.detailed, "lots", false, "List every closed lot")
	f.BoolVar(&c.cash, "cash", false, "Include the cash accounts (realized exchange gains)")
}

func (c *closedCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.year != 0 && (c.start != "" || c.end != "") {
		fmt.Fprintln(os.Stderr, "-y cannot be used with -s or -d")
		return subcommands.ExitUsageError
	}

	p, err := LoadPortfolio()
	if err != nil {
		return fail("loading portfolio: %v", err)
	}

	if c.year != 0 {
		report, err := p.TaxReport(c.year, OpenMarket())
		if err != nil {
			return fail("creating tax report: %v", err)
		}
		printMarkdown(renderer.TaxMarkdown(report))
		return subcommands.ExitSuccess
	}

	r, err := parseRange(p, c.start, c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	report, err := p.ClosedPositions(r, c.cash)
	if err != nil {
		return fail("creating closed positions report: %v", err)
	}

	md := renderer.ClosedMarkdown(report, c.detailed)
	if incomes := p.Incomes(r); len(incomes) > 0 {
		md += "\n" + renderer.IncomesMarkdown(incomes)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
