package costbasis

import "testing"

// fxPortfolio buys a USD security at rate 0.90 and receives a dividend at
// rate 0.95 later on.
func fxPortfolio(t *testing.T) *Portfolio {
	return newBuilder(t, "EUR").
		deposit("2025-01-01", 1000).
		buy("2025-01-02", "AAPL", 1, 100, withCurrency("USD"), withRate(0.90)).
		dividend("2025-03-01", "AAPL", 1, 1, withCurrency("USD"), withRate(0.95)).
		build()
}

func TestCostAndValuationRatesDiverge(t *testing.T) {
	l := mustLedger(t, fxPortfolio(t), "AAPL")
	on := NewDate(2025, 3, 31)

	cost, err := l.CostPrice(on)
	if err != nil {
		t.Fatalf("CostPrice() error = %v", err)
	}
	if got, want := cost.Round(), EUR(111.11); !got.Equal(want) {
		t.Errorf("CostPrice() = %v, want %v", got, want)
	}

	value, exact := l.ValuePerUnit(USD(100), on)
	if !exact {
		t.Errorf("ValuePerUnit() exact = false, want true")
	}
	if got, want := value.Round(), EUR(105.26); !got.Equal(want) {
		t.Errorf("ValuePerUnit() = %v, want %v", got, want)
	}

	// before the dividend the trade rate is the latest one.
	value, _ = l.ValuePerUnit(USD(100), NewDate(2025, 2, 1))
	if got, want := value.Round(), EUR(111.11); !got.Equal(want) {
		t.Errorf("ValuePerUnit() before the dividend = %v, want %v", got, want)
	}
}

func TestLatestRate(t *testing.T) {
	p := fxPortfolio(t)
	l := mustLedger(t, p, "AAPL")
	tests := []struct {
		on   Date
		want Rate
		ok   bool
	}{
		{NewDate(2025, 1, 1), Rate{}, false},
		{NewDate(2025, 1, 2), R(0.90), true},
		{NewDate(2025, 2, 28), R(0.90), true},
		{NewDate(2025, 3, 1), R(0.95), true},
	}
	for _, tt := range tests {
		got, ok := l.LatestRate(tt.on)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("LatestRate(%v) = %v, %v, want %v, %v", tt.on, got, ok, tt.want, tt.ok)
		}
	}

	cash := mustLedger(t, p, CashTicker("EUR"))
	if got, ok := cash.LatestRate(NewDate(2020, 1, 1)); !ok || !got.Equal(One) {
		t.Errorf("base cash LatestRate() = %v, %v, want 1, true", got, ok)
	}
}

func TestValuePerUnitWithoutRate(t *testing.T) {
	l := mustLedger(t, fxPortfolio(t), "AAPL")

	value, exact := l.ValuePerUnit(USD(100), NewDate(2024, 12, 31))
	if exact {
		t.Errorf("ValuePerUnit() exact = true, want false")
	}
	if got, want := value, EUR(100); !got.Equal(want) {
		t.Errorf("ValuePerUnit() = %v, want the unconverted %v", got, want)
	}
}

func TestForeignCashValuation(t *testing.T) {
	p := newBuilder(t, "EUR").
		deposit("2025-01-01", 1000, withCurrency("USD"), withRate(1.25)).
		build()
	l := mustLedger(t, p, CashTicker("USD"))

	cost, err := l.CostAt(NewDate(2025, 1, 1))
	if err != nil {
		t.Fatalf("CostAt() error = %v", err)
	}
	if got, want := cost.Total, EUR(800); !got.Equal(want) {
		t.Errorf("CostAt().Total = %v, want %v", got, want)
	}
	if got, want := l.instrument.Currency(), "USD"; got != want {
		t.Errorf("cash currency = %q, want %q", got, want)
	}
	value, exact := l.ValuePerUnit(M(1, "USD"), NewDate(2025, 1, 1))
	if !exact || !value.Equal(EUR(0.8)) {
		t.Errorf("ValuePerUnit() = %v, %v, want %v, true", value, exact, EUR(0.8))
	}
}
