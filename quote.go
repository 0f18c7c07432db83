package costbasis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// RemoteConfig configures a RemoteMarket.
type RemoteConfig struct {
	// URL of the price series of a ticker; "{ticker}" is replaced by the
	// escaped ticker.
	URL string
	// DatesPath and PricesPath are jsonpath expressions selecting two
	// arrays of the same length in the response: the dates (ISO strings
	// or unix seconds) and the closing prices.
	DatesPath  string
	PricesPath string
	// CacheDir holds the series fetched today. Empty disables the cache.
	CacheDir string
	// Interval is the minimum delay between two requests.
	Interval time.Duration
	Client   *http.Client
}

// RemoteMarket is a MarketData fetching price series over HTTP. Series
// are kept in memory, and on disk for the rest of the day. A ticker the
// service does not know (404) fails with a NoDataError and is not asked
// for again.
type RemoteMarket struct {
	cfg     RemoteConfig
	limiter *rate.Limiter

	mu     sync.Mutex
	series map[string]*History
}

// NewRemoteMarket returns a RemoteMarket for cfg.
func NewRemoteMarket(cfg RemoteConfig) *RemoteMarket {
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}
	return &RemoteMarket{
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		series:  make(map[string]*History),
	}
}

// Fetch resolves the series of tickers ahead of any query.
func (m *RemoteMarket) Fetch(ctx context.Context, tickers ...string) error {
	for _, ticker := range tickers {
		if _, err := m.series1(ctx, ticker); err != nil {
			return err
		}
	}
	return nil
}

func (m *RemoteMarket) PriceSeries(ticker string) (*History, error) {
	h, err := m.series1(context.Background(), ticker)
	if err != nil {
		return nil, err
	}
	return nonEmpty(ticker, h)
}

func (m *RemoteMarket) Price(ticker string, on Date) (decimal.Decimal, error) {
	h, err := m.PriceSeries(ticker)
	if err != nil {
		return decimal.Zero, err
	}
	v, ok := h.Get(on)
	if !ok {
		return decimal.Zero, &NoDataError{Ticker: ticker, Date: on}
	}
	return v, nil
}

// series1 returns the series of ticker from memory, the daily cache, or
// the remote service, in that order.
func (m *RemoteMarket) series1(ctx context.Context, ticker string) (*History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.series[ticker]; ok {
		return h, nil
	}

	cache := m.cacheFile(ticker)
	if cache != "" {
		h, err := readHistoryFile(cache)
		if err == nil {
			m.series[ticker] = h
			return h, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("file", cache).Msg("price cache ignored")
		}
	}

	h, err := m.fetch(ctx, ticker)
	var noData *NoDataError
	if errors.As(err, &noData) {
		// remembered as an empty series so that the service is asked once.
		log.Info().Str("ticker", ticker).Msg("no remote prices")
		h = new(History)
		m.series[ticker] = h
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot fetch prices of %s: %w", ticker, err)
	}
	m.series[ticker] = h
	if cache != "" {
		if err := writeHistoryFile(cache, h); err != nil {
			log.Warn().Err(err).Str("file", cache).Msg("price cache write failed")
		}
	}
	return h, nil
}

// cacheFile names the cache of ticker after the current day, so that the
// cache expires daily.
func (m *RemoteMarket) cacheFile(ticker string) string {
	if m.cfg.CacheDir == "" {
		return ""
	}
	day := Today().Time().Format("20060102")
	return filepath.Join(m.cfg.CacheDir, day+"-"+tickerFile(ticker))
}

func (m *RemoteMarket) fetch(ctx context.Context, ticker string) (*History, error) {
	if m.cfg.URL == "" {
		return nil, &NoDataError{Ticker: ticker}
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	addr := strings.ReplaceAll(m.cfg.URL, "{ticker}", url.PathEscape(ticker))
	var jobj any
	err := jwget(ctx, m.cfg.Client, addr, &jobj)
	var status *httpStatusError
	if errors.As(err, &status) && status.Code == http.StatusNotFound {
		return nil, &NoDataError{Ticker: ticker}
	}
	if err != nil {
		return nil, err
	}
	return decodeSeries(jobj, m.cfg.DatesPath, m.cfg.PricesPath)
}

// decodeSeries extracts a price series from a decoded JSON document.
// Null prices are skipped.
func decodeSeries(jobj any, datesPath, pricesPath string) (*History, error) {
	jdates, err := jsonList(jobj, datesPath)
	if err != nil {
		return nil, err
	}
	jprices, err := jsonList(jobj, pricesPath)
	if err != nil {
		return nil, err
	}
	if len(jdates) != len(jprices) {
		return nil, fmt.Errorf("%q has %d items but %q has %d", datesPath, len(jdates), pricesPath, len(jprices))
	}

	h := new(History)
	for i, jd := range jdates {
		if jprices[i] == nil {
			continue
		}
		on, err := jsonDate(jd)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", datesPath, i, err)
		}
		price, err := jsonDecimal(jprices[i])
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", pricesPath, i, err)
		}
		h.Append(on, price)
	}
	return h, nil
}

func jsonList(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%q is not a list: %v", path, jval)
	}
	return jlist, nil
}

func jsonDate(jval any) (Date, error) {
	switch v := jval.(type) {
	case string:
		return parseDataDate(v)
	case json.Number:
		secs, err := v.Int64()
		if err != nil {
			return Date{}, fmt.Errorf("invalid timestamp %q", v)
		}
		return NewDate(time.Unix(secs, 0).UTC().Date()), nil
	case float64:
		return NewDate(time.Unix(int64(v), 0).UTC().Date()), nil
	}
	return Date{}, fmt.Errorf("not a date: %v", jval)
}

func jsonDecimal(jval any) (decimal.Decimal, error) {
	switch v := jval.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return decimal.NewFromString(v)
	}
	return decimal.Zero, fmt.Errorf("not a number: %v", jval)
}
