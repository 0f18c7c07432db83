package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/costbasis"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type fetchCmd struct{}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetches price series from the remote provider" }
func (*fetchCmd) Usage() string {
	return `cbs fetch [<ticker>...]

Fetches the price series of the given tickers, or of every security of the
portfolio, from the remote provider configured in [market] url, and merges
them into the local price directory. Prices already stored locally are
overwritten by the fetched ones for the same day.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if config.Market.URL == "" {
		fmt.Fprintln(os.Stderr, "Error: no remote provider configured, set [market] url in the configuration.")
		return subcommands.ExitUsageError
	}

	tickers := f.Args()
	if len(tickers) == 0 {
		p, err := LoadPortfolio()
		if err != nil {
			return fail("loading portfolio: %v", err)
		}
		for l := range p.Ledgers() {
			if !costbasis.IsCash(l.Instrument()) {
				tickers = append(tickers, l.Ticker())
			}
		}
	}
	if len(tickers) == 0 {
		fmt.Println("No security to fetch.")
		return subcommands.ExitSuccess
	}

	local := costbasis.NewMarketDir(config.Market.Dir)
	remote := costbasis.NewRemoteMarket(config.Market.Remote())

	failed := 0
	for _, ticker := range tickers {
		n, err := fetchTicker(ctx, local, remote, ticker)
		if err != nil {
			// other tickers may still succeed.
			fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", ticker, err)
			failed++
			continue
		}
		log.Info().Str("ticker", ticker).Int("days", n).Msg("prices fetched")
	}
	if failed > 0 {
		return subcommands.ExitFailure
	}
	fmt.Printf("Fetched %d price series into %s\n", len(tickers), config.Market.Dir)
	return subcommands.ExitSuccess
}

// fetchTicker merges the remote series of ticker into the local one and
// returns the number of days fetched.
func fetchTicker(ctx context.Context, local *costbasis.MarketDir, remote *costbasis.RemoteMarket, ticker string) (int, error) {
	if err := remote.Fetch(ctx, ticker); err != nil {
		return 0, err
	}
	fetched, err := remote.PriceSeries(ticker)
	if err != nil {
		return 0, err
	}

	merged, err := local.PriceSeries(ticker)
	var noData *costbasis.NoDataError
	switch {
	case errors.As(err, &noData):
		merged = new(costbasis.History)
	case err != nil:
		return 0, err
	}
	for on, price := range fetched.Values() {
		merged.Append(on, price)
	}
	return fetched.Len(), local.Save(ticker, merged)
}
