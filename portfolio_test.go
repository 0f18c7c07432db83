package costbasis

import (
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioLedgers(t *testing.T) {
	p := newBuilder(t, "EUR").
		deposit("2025-01-01", 1000).
		deposit("2025-01-01", 500, withCurrency("USD"), withRate(1.1)).
		buy("2025-01-03", "MSFT", 1, 300, withCurrency("USD"), withRate(1.1), withSettlement("USD")).
		buy("2025-01-02", "ACME", 2, 10).
		build()

	var tickers []string
	for l := range p.Ledgers() {
		tickers = append(tickers, l.Ticker())
	}
	assert.Equal(t, []string{"ACME", "MSFT", "__EUR", "__USD"}, tickers)
	assert.Equal(t, NewDate(2025, 1, 1), p.StartDate())
	assert.Equal(t, NewDate(2025, 1, 3), p.EndDate())
	assert.Equal(t, "EUR", p.Currency())
	assert.Equal(t, "test", p.Name())

	usd := mustLedger(t, p, CashTicker("USD"))
	q, err := usd.QuantityAt(p.EndDate())
	require.NoError(t, err)
	assert.True(t, q.Equal(Q(200)), "USD cash = %v, want 200", q)

	var dates []Date
	for tx := range p.Transactions() {
		dates = append(dates, tx.When())
	}
	assert.True(t, slices.IsSortedFunc(dates, compareDates), "Transactions() not in date order: %v", dates)
	assert.Len(t, dates, 6)

	_, ok := p.Ledger("NONE")
	assert.False(t, ok)
}

func TestPortfolioCurrencyMismatch(t *testing.T) {
	b := newBuilder(t, "EUR").
		deposit("2025-01-01", 1000).
		buy("2025-01-02", "ACME", 2, 10).
		buy("2025-01-03", "ACME", 1, 10, withCurrency("USD"), withRate(1.1))
	_, err := New(b.def)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "New() error = %v", err)
	assert.Equal(t, 2, verr.Index)
	assert.Equal(t, "currency", verr.Field)
}

func TestPortfolioSplits(t *testing.T) {
	t.Run("unknown ticker", func(t *testing.T) {
		p := newBuilder(t, "EUR").
			deposit("2025-01-01", 1000).
			split("2025-02-01", "NONE", 2, 5).
			build()
		_, ok := p.Ledger("NONE")
		assert.False(t, ok)
		cash := mustLedger(t, p, CashTicker("EUR"))
		assert.Equal(t, 1, cash.Len(), "the residual of an ignored split is not paid")
	})

	t.Run("duplicate", func(t *testing.T) {
		b := newBuilder(t, "EUR").
			deposit("2025-01-01", 1000).
			buy("2025-01-02", "ACME", 2, 10).
			split("2025-02-01", "ACME", 2, 0).
			split("2025-02-01", "ACME", 3, 0)
		_, err := New(b.def)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "New() error = %v", err)
		assert.Equal(t, "split", verr.Record)
		assert.Equal(t, 1, verr.Index)
	})

	t.Run("split takes the security currency", func(t *testing.T) {
		p := newBuilder(t, "EUR").
			deposit("2025-01-01", 1000).
			buy("2025-01-02", "AAPL", 2, 10, withCurrency("USD"), withRate(1)).
			split("2025-02-01", "AAPL", 2, 0).
			build()
		l := mustLedger(t, p, "AAPL")
		for tx := range l.Transactions() {
			assert.Equal(t, "USD", tx.Instrument().Currency(), "%s on %s", tx.What(), tx.When())
		}
	})
}

func TestPortfolioVerify(t *testing.T) {
	p := newBuilder(t, "EUR").
		deposit("2025-01-01", 10).
		buy("2025-01-02", "ACME", 2, 10).
		sell("2025-01-03", "OTHR", 1, 10).
		build()

	err := p.Verify()
	require.Error(t, err)

	// the buy overdraws the cash and the sell has no lots.
	var overdrawn []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var insufficient *InsufficientLotsError
		require.True(t, errors.As(e, &insufficient))
		overdrawn = append(overdrawn, insufficient.Ticker)
	}
	assert.ElementsMatch(t, []string{"OTHR", "__EUR"}, overdrawn)
}

func TestPortfolioUnknownCurrency(t *testing.T) {
	_, err := New(Definition{Name: "bad", Currency: "XYZ"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "portfolio", verr.Record)
}

func TestPortfolioDecimalQuantities(t *testing.T) {
	p := newBuilder(t, "EUR").
		deposit("2025-01-01", 1000).
		buy("2025-01-02", "ACME", 0.1, 10).
		buy("2025-01-02", "ACME", 0.2, 10).
		sell("2025-01-03", "ACME", 0.3, 10).
		build()
	q, err := mustLedger(t, p, "ACME").QuantityAt(p.EndDate())
	require.NoError(t, err)
	assert.True(t, q.Decimal().Equal(decimal.Zero), "0.1 + 0.2 - 0.3 = %v, want 0", q)
}
