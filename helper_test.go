package costbasis

import (
	"testing"

	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// dec returns a set NullDecimal.
func dec(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

type option func(*TradeInput)

func withRate(r float64) option         { return func(in *TradeInput) { in.Rate = dec(r) } }
func withFee(f float64) option          { return func(in *TradeInput) { in.Fee = dec(f) } }
func withCurrency(c string) option      { return func(in *TradeInput) { in.Currency = c } }
func withSettlement(c string) option    { return func(in *TradeInput) { in.Settlement = c } }
func withTotalBase(v float64) option    { return func(in *TradeInput) { in.TotalBase = dec(v) } }
func withoutPrice() option              { return func(in *TradeInput) { in.Price = decimal.NullDecimal{} } }
func withTotal(v float64) option        { return func(in *TradeInput) { in.Total = dec(v) } }
func withSubtotalBase(v float64) option { return func(in *TradeInput) { in.Subtotal = dec(v) } }

// builder assembles a portfolio definition in tests.
type builder struct {
	t   *testing.T
	def Definition
}

func newBuilder(t *testing.T, base string) *builder {
	t.Helper()
	return &builder{t: t, def: Definition{Name: "test", Currency: base}}
}

func (b *builder) add(kind Kind, on, ticker string, quantity, price float64, opts ...option) *builder {
	b.t.Helper()
	in := TradeInput{Date: MustParse(on), Ticker: ticker, Quantity: decimal.NewFromFloat(quantity), Price: dec(price)}
	for _, o := range opts {
		o(&in)
	}
	tx, err := NewTransaction(kind, in, b.def.Currency)
	if err != nil {
		b.t.Fatalf("NewTransaction(%s on %s) error = %v", kind, on, err)
	}
	b.def.Transactions = append(b.def.Transactions, tx)
	return b
}

func (b *builder) deposit(on string, amount float64, opts ...option) *builder {
	b.t.Helper()
	return b.add(KindDeposit, on, "", amount, 1, opts...)
}

func (b *builder) withdraw(on string, amount float64, opts ...option) *builder {
	b.t.Helper()
	return b.add(KindWithdrawal, on, "", amount, 1, opts...)
}

func (b *builder) buy(on, ticker string, quantity, price float64, opts ...option) *builder {
	b.t.Helper()
	return b.add(KindBuy, on, ticker, quantity, price, opts...)
}

func (b *builder) sell(on, ticker string, quantity, price float64, opts ...option) *builder {
	b.t.Helper()
	return b.add(KindSell, on, ticker, quantity, price, opts...)
}

func (b *builder) dividend(on, ticker string, shares, perShare float64, opts ...option) *builder {
	b.t.Helper()
	return b.add(KindDividend, on, ticker, shares, perShare, opts...)
}

func (b *builder) split(on, ticker string, factor, residual float64) *builder {
	b.t.Helper()
	s, err := NewSplit(MustParse(on), ticker, decimal.NewFromFloat(factor), decimal.NewFromFloat(residual), b.def.Currency)
	if err != nil {
		b.t.Fatalf("NewSplit() error = %v", err)
	}
	b.def.Splits = append(b.def.Splits, s)
	return b
}

func (b *builder) build() *Portfolio {
	b.t.Helper()
	p, err := New(b.def)
	if err != nil {
		b.t.Fatalf("New() error = %v", err)
	}
	return p
}

// mustLedger returns the ledger of ticker or fails the test.
func mustLedger(t *testing.T, p *Portfolio, ticker string) *Ledger {
	t.Helper()
	l, ok := p.Ledger(ticker)
	if !ok {
		t.Fatalf("Ledger(%q) not found", ticker)
	}
	return l
}
