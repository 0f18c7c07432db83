package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	date    string
	lots    string
	csv     bool
	pngFile string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the open positions at a date" }
func (*positionsCmd) Usage() string {
	return `cbs positions [-d <date>] [-lots <ticker>] [-csv] [-png <file>]

  Displays the open positions (securities and cash) with their remaining
  cost, market value and return. The default date is the most recent day
  for which every held security has a price.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the report. See the user manual for supported date formats.")
	f.StringVar(&c.lots, "lots", "", "Also list the open lots of these comma separated tickers")
	f.BoolVar(&c.csv, "csv", false, "Print the positions as CSV")
	f.StringVar(&c.pngFile, "png", "", "Also write a pie chart of the positions to this PNG file")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := LoadPortfolio()
	if err != nil {
		return fail("loading portfolio: %v", err)
	}
	market := OpenMarket()

	var on costbasis.Date
	if c.date == "" {
		on, err = p.DefaultDate(market)
	} else {
		on, err = costbasis.ParseDate(c.date)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := p.Snapshot(on, market)
	if err != nil {
		return fail("creating snapshot: %v", err)
	}

	if c.pngFile != "" {
		png, err := renderer.PositionsPie(s)
		if err != nil {
			return fail("rendering chart: %v", err)
		}
		if err := os.WriteFile(c.pngFile, png, 0644); err != nil {
			return fail("writing chart: %v", err)
		}
		log.Info().Str("file", c.pngFile).Int("positions", len(s.Positions)).Msg("chart written")
	}

	if c.csv {
		if err := renderer.PositionsCSV(os.Stdout, s); err != nil {
			return fail("writing CSV: %v", err)
		}
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	b.WriteString(renderer.PositionsMarkdown(p.Name(), s))
	if c.lots != "" {
		for _, ticker := range strings.Split(c.lots, ",") {
			ticker = strings.TrimSpace(ticker)
			lots, err := s.OpenLots(ticker)
			if err != nil {
				return fail("listing lots: %v", err)
			}
			b.WriteString(renderer.LotsMarkdown(ticker, lots))
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
