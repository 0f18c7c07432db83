package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/etnz/costbasis"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvConfig    = "CBS_CONFIG"
	EnvPortfolio = "CBS_PORTFOLIO"
	EnvLogLevel  = "CBS_LOG_LEVEL"
)

// Config is the content of the cbs.toml file.
type Config struct {
	Portfolio string       `toml:"portfolio"`
	Log       LogConfig    `toml:"log"`
	Market    MarketConfig `toml:"market"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// MarketConfig locates the price series: a local directory of JSONL
// files, and optionally a remote JSON endpoint.
type MarketConfig struct {
	Dir        string `toml:"dir"`
	URL        string `toml:"url"`
	DatesPath  string `toml:"dates_path"`
	PricesPath string `toml:"prices_path"`
	CacheDir   string `toml:"cache_dir"`
	Interval   string `toml:"interval"`
}

// GetInterval returns the minimum delay between remote calls.
func (c *MarketConfig) GetInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d < 0 {
		return time.Second
	}
	return d
}

// Remote returns the configuration of the remote price provider.
func (c *MarketConfig) Remote() costbasis.RemoteConfig {
	return costbasis.RemoteConfig{
		URL:        c.URL,
		DatesPath:  c.DatesPath,
		PricesPath: c.PricesPath,
		CacheDir:   c.CacheDir,
		Interval:   c.GetInterval(),
	}
}

func NewDefaultConfig() *Config {
	return &Config{
		Portfolio: "portfolio.json",
		Log:       LogConfig{Level: "info"},
		Market: MarketConfig{
			Dir:        "prices",
			DatesPath:  "$.dates",
			PricesPath: "$.prices",
			Interval:   "1s",
		},
	}
}

// LoadConfig loads the configuration file at path over the defaults, then
// applies the environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := NewDefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			log.Debug().Str("path", path).Msg("no config file, using defaults")
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}
	applyEnvOverrides(config)
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv(EnvPortfolio); v != "" {
		config.Portfolio = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Log.Level = v
	}
}

// parseLevel maps a config level name to a zerolog level.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetupLogging configures the global logger to write human readable lines
// to w.
func SetupLogging(level string, w io.Writer) {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
	}
	log.Logger = zerolog.New(output).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}
