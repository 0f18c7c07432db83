// Package cmd implements the cbs command line application.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/etnz/costbasis"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// commands returns the subcommands of cbs with their group.
func commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"reports":   {&positionsCmd{}, &closedCmd{}, &evolutionCmd{}, &txCmd{}},
		"portfolio": {&checkCmd{}, &topicCmd{}},
		"market":    {&fetchCmd{}},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, group := range []string{"reports", "portfolio", "market"} {
		for _, cmd := range commands()[group] {
			c.Register(cmd, group)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", envOr(EnvConfig, "cbs.toml"), "Path to the TOML configuration file")
var portfolioFile = flag.String("portfolio", "", "Path to the portfolio definition (JSON or YAML). Overrides the configuration.")
var Verbose = flag.Bool("v", false, "Log debug messages")

// config is loaded once by Setup.
var config = NewDefaultConfig()

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Setup loads the configuration and configures logging. It must be called
// after flag.Parse.
func Setup() error {
	c, err := LoadConfig(*configFile)
	if err != nil {
		return err
	}
	if *portfolioFile != "" {
		c.Portfolio = *portfolioFile
	}
	if *Verbose {
		c.Log.Level = "debug"
	}
	config = c
	SetupLogging(config.Log.Level, os.Stderr)
	log.Debug().Str("config", *configFile).Str("portfolio", config.Portfolio).Msg("configuration loaded")
	return nil
}

// LoadPortfolio is the central function to load the configured portfolio.
func LoadPortfolio() (*costbasis.Portfolio, error) {
	p, err := costbasis.Load(config.Portfolio)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// OpenMarket returns the configured market data: the local price
// directory, then the remote provider when a URL is configured.
func OpenMarket() costbasis.MarketData {
	local := costbasis.NewMarketDir(config.Market.Dir)
	if config.Market.URL == "" {
		return local
	}
	return costbasis.Chain(local, costbasis.NewRemoteMarket(config.Market.Remote()))
}

// parseRange returns the range from start to end. An empty start means the
// start of the portfolio.
func parseRange(p *costbasis.Portfolio, start, end string) (costbasis.Range, error) {
	to := p.EndDate()
	if end != "" {
		d, err := costbasis.ParseDate(end)
		if err != nil {
			return costbasis.Range{}, fmt.Errorf("invalid end date: %w", err)
		}
		to = d
	}
	from := p.StartDate()
	if start != "" {
		d, err := costbasis.ParseDate(start)
		if err != nil {
			return costbasis.Range{}, fmt.Errorf("invalid start date: %w", err)
		}
		from = d
	}
	return costbasis.NewRange(from, to), nil
}

// fail prints an error in the CLI format and returns ExitFailure.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error "+format+"\n", args...)
	return subcommands.ExitFailure
}
