package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type evolutionCmd struct {
	start   string
	end     string
	ticker  string
	total   bool
	csv     bool
	json    bool
	pngFile string
}

func (*evolutionCmd) Name() string     { return "evolution" }
func (*evolutionCmd) Synopsis() string { return "display the value and cost of every position over time" }
func (*evolutionCmd) Usage() string {
	return `cbs evolution [-s <date>] [-d <date>] [-ticker <ticker>] [-total] [-csv | -json] [-png <file>]

  Displays, for every instrument and every date with a price, the quantity
  held, the market value and the remaining cost in the base currency.
`
}

func (c *evolutionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Start date of the period. Defaults to the first transaction.")
	f.StringVar(&c.end, "d", "", "End date of the period. Defaults to the last transaction.")
	f.StringVar(&c.ticker, "ticker", "", "Only report on this ticker, and chart it with -png")
	f.BoolVar(&c.total, "total", false, "Only report the portfolio total")
	f.BoolVar(&c.csv, "csv", false, "Print the records as CSV")
	f.BoolVar(&c.json, "json", false, "Print the records as JSON")
	f.StringVar(&c.pngFile, "png", "", "Also write a chart of the total value and cost, or of the -ticker, to this PNG file")
}

func (c *evolutionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.csv && c.json {
		fmt.Fprintln(os.Stderr, "-csv and -json are mutually exclusive")
		return subcommands.ExitUsageError
	}

	p, err := LoadPortfolio()
	if err != nil {
		return fail("loading portfolio: %v", err)
	}
	r, err := parseRange(p, c.start, c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}

	records, err := p.Evolution(OpenMarket(), r)
	if err != nil {
		return fail("computing evolution: %v", err)
	}
	totals := costbasis.Totals(records, p.Currency())

	if c.pngFile != "" {
		var png []byte
		if c.ticker != "" {
			png, err = renderer.TickerChart(c.ticker, records)
		} else {
			png, err = renderer.EvolutionChart(p.Name(), totals)
		}
		if err != nil {
			return fail("rendering chart: %v", err)
		}
		if err := os.WriteFile(c.pngFile, png, 0644); err != nil {
			return fail("writing chart: %v", err)
		}
		log.Info().Str("file", c.pngFile).Msg("chart written")
	}

	switch {
	case c.total:
		records = totals
	case c.ticker != "":
		records = filterTicker(records, c.ticker)
	default:
		records = append(records, totals...)
	}

	switch {
	case c.csv:
		err = renderer.RecordsCSV(os.Stdout, records)
	case c.json:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(records)
	default:
		printMarkdown(renderer.EvolutionMarkdown(records))
	}
	if err != nil {
		return fail("writing records: %v", err)
	}
	return subcommands.ExitSuccess
}

func filterTicker(records []costbasis.Record, ticker string) []costbasis.Record {
	var filtered []costbasis.Record
	for _, r := range records {
		if r.Ticker == ticker {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
