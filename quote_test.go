package costbasis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuoteServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/series/AAPL":
			fmt.Fprint(w, `{"chart":{"dates":["2025-01-02","2025-01-03","2025-01-06"],"close":[243.85,null,245.1]}}`)
		case "/series/MSFT":
			fmt.Fprint(w, `{"chart":{"dates":[1735776000],"close":[418.58]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteMarket(t *testing.T) {
	var calls atomic.Int32
	srv := newQuoteServer(t, &calls)

	m := NewRemoteMarket(RemoteConfig{
		URL:        srv.URL + "/series/{ticker}",
		DatesPath:  "$.chart.dates",
		PricesPath: "$.chart.close",
	})

	h, err := m.PriceSeries("AAPL")
	require.NoError(t, err)
	assert.Equal(t, 2, h.Len(), "null prices are skipped")

	price, err := m.Price("AAPL", NewDate(2025, 1, 6))
	require.NoError(t, err)
	assert.Equal(t, "245.1", price.String())

	_, err = m.Price("AAPL", NewDate(2025, 1, 3))
	var noData *NoDataError
	assert.True(t, errors.As(err, &noData))

	// unix timestamps are read as UTC days.
	price, err = m.Price("MSFT", NewDate(2025, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, "418.58", price.String())

	assert.Equal(t, int32(2), calls.Load(), "series are fetched once")

	_, err = m.PriceSeries("UNKNOWN")
	assert.Error(t, err)
}

func TestRemoteMarketDailyCache(t *testing.T) {
	var calls atomic.Int32
	srv := newQuoteServer(t, &calls)
	cfg := RemoteConfig{
		URL:        srv.URL + "/series/{ticker}",
		DatesPath:  "$.chart.dates",
		PricesPath: "$.chart.close",
		CacheDir:   t.TempDir(),
	}

	require.NoError(t, NewRemoteMarket(cfg).Fetch(context.Background(), "AAPL"))
	entries, err := os.ReadDir(cfg.CacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// a second market reads today's cache instead of the server.
	h, err := NewRemoteMarket(cfg).PriceSeries("AAPL")
	require.NoError(t, err)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, int32(1), calls.Load())
}

func TestRemoteMarketNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := newQuoteServer(t, &calls)
	m := NewRemoteMarket(RemoteConfig{
		URL:        srv.URL + "/series/{ticker}",
		DatesPath:  "$.chart.dates",
		PricesPath: "$.chart.close",
		CacheDir:   t.TempDir(),
	})

	for range 2 {
		_, err := m.PriceSeries("UNKNOWN")
		var noData *NoDataError
		require.True(t, errors.As(err, &noData), "PriceSeries() error = %v, want a NoDataError", err)
		assert.Equal(t, "UNKNOWN", noData.Ticker)
	}
	assert.Equal(t, int32(1), calls.Load(), "unknown tickers are asked once")

	// a chain falls through to the next market.
	market := Chain(m, NewMemoryMarket().Append("UNKNOWN", NewDate(2025, 1, 2), decimal.NewFromInt(7)))
	price, err := market.Price("UNKNOWN", NewDate(2025, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, "7", price.String())

	// evolution skips the ticker instead of failing.
	p := newBuilder(t, "EUR").
		deposit("2025-01-01", 100).
		buy("2025-01-02", "UNKNOWN", 1, 10).
		build()
	records, err := p.Evolution(Chain(m), NewRange(NewDate(2025, 1, 1), NewDate(2025, 1, 2)))
	require.NoError(t, err)
	for _, r := range records {
		assert.NotEqual(t, "UNKNOWN", r.Ticker)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestRemoteMarketServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	m := NewRemoteMarket(RemoteConfig{URL: srv.URL + "/{ticker}", DatesPath: "$.d", PricesPath: "$.p"})

	_, err := m.PriceSeries("AAPL")
	require.Error(t, err)
	var noData *NoDataError
	assert.False(t, errors.As(err, &noData), "a server error is not a missing series")
}

func TestDecodeSeriesMismatch(t *testing.T) {
	jobj := map[string]any{"d": []any{"2025-01-02"}, "p": []any{}}
	_, err := decodeSeries(jobj, "$.d", "$.p")
	assert.Error(t, err)
}
