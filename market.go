package costbasis

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MarketData provides historical closing prices in the instrument currency.
// Both methods fail with a *NoDataError when the ticker, or the ticker at
// that date, is unavailable.
type MarketData interface {
	PriceSeries(ticker string) (*History, error)
	Price(ticker string, on Date) (decimal.Decimal, error)
}

// MemoryMarket is a MarketData held in memory.
type MemoryMarket struct {
	series map[string]*History
}

// NewMemoryMarket returns an empty MemoryMarket.
func NewMemoryMarket() *MemoryMarket {
	return &MemoryMarket{series: make(map[string]*History)}
}

// Append records the price of ticker at on.
func (m *MemoryMarket) Append(ticker string, on Date, price decimal.Decimal) *MemoryMarket {
	h, ok := m.series[ticker]
	if !ok {
		h = new(History)
		m.series[ticker] = h
	}
	h.Append(on, price)
	return m
}

// Set replaces the whole series of ticker.
func (m *MemoryMarket) Set(ticker string, h *History) { m.series[ticker] = h }

func (m *MemoryMarket) PriceSeries(ticker string) (*History, error) {
	h, ok := m.series[ticker]
	if !ok || h.Len() == 0 {
		return nil, &NoDataError{Ticker: ticker}
	}
	return h, nil
}

func (m *MemoryMarket) Price(ticker string, on Date) (decimal.Decimal, error) {
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

// priceAsOf returns the price of ticker at on. When the market has no
// price that day it falls back to the nearest earlier priced day, and
// fails with a *NoDataError only if there is none.
func priceAsOf(m MarketData, ticker string, on Date) (Date, decimal.Decimal, error) {
	price, err := m.Price(ticker, on)
	if err == nil {
		return on, price, nil
	}
	var noData *NoDataError
	if !errors.As(err, &noData) {
		return Date{}, decimal.Zero, err
	}
	h, err := m.PriceSeries(ticker)
	if err != nil {
		return Date{}, decimal.Zero, err
	}
	day, price, ok := h.ValueAsOf(on)
	if !ok {
		return Date{}, decimal.Zero, &NoDataError{Ticker: ticker, Date: on}
	}
	return day, price, nil
}

// Chain returns a MarketData querying markets in order: the first one
// that has data for a ticker answers.
func Chain(markets ...MarketData) MarketData { return chain(markets) }

type chain []MarketData

func (c chain) PriceSeries(ticker string) (*History, error) {
	for _, m := range c {
		h, err := m.PriceSeries(ticker)
		var noData *NoDataError
		if errors.As(err, &noData) {
			continue
		}
		return h, err
	}
	return nil, &NoDataError{Ticker: ticker}
}

func (c chain) Price(ticker string, on Date) (decimal.Decimal, error) {
	h, err := c.PriceSeries(ticker)
	if err != nil {
		return decimal.Zero, err
	}
	v, ok := h.Get(on)
	if !ok {
		return decimal.Zero, &NoDataError{Ticker: ticker, Date: on}
	}
	return v, nil
}
