package costbasis

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies the variant of a transaction.
type Kind string

const (
	KindBuy        Kind = "buy"
	KindSell       Kind = "sell"
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDividend   Kind = "dividend"
	KindSplit      Kind = "split"
)

// ParseKind parses a transaction type as found in portfolio definitions.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindBuy, KindSell, KindDeposit, KindWithdrawal, KindDividend:
		return k, nil
	case "withdraw":
		return KindWithdrawal, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Origin tells where a ledger entry comes from.
type Origin int

const (
	External      Origin = iota // recorded by the user
	Trade                       // cash side of a buy or sell
	DividendCash                // cash side of a dividend
	SplitResidual               // cash paid out by a split
)

func (o Origin) String() string {
	switch o {
	case Trade:
		return "trade"
	case DividendCash:
		return "income"
	case SplitResidual:
		return "split"
	default:
		return "external"
	}
}

// Transaction is an immutable ledger entry. Concrete types are Buy, Sell,
// Deposit, Withdraw, Dividend and Split.
type Transaction interface {
	What() Kind
	When() Date
	Instrument() Instrument
	Origin() Origin
	Memo() string
}

type baseCmd struct {
	kind       Kind
	date       Date
	instrument Instrument
	origin     Origin
	memo       string
}

func (t baseCmd) What() Kind             { return t.kind }
func (t baseCmd) When() Date             { return t.date }
func (t baseCmd) Instrument() Instrument { return t.instrument }
func (t baseCmd) Origin() Origin         { return t.origin }
func (t baseCmd) Memo() string           { return t.memo }

// Amounts are the figures of a trade. Price and Total are in the
// instrument currency; the *Base fields are in the portfolio base currency.
type Amounts struct {
	Quantity     Quantity
	Price        Money
	Rate         Rate
	Total        Money
	SubtotalBase Money
	FeeBase      Money
	TotalBase    Money
	// Settlement is the currency of the cash account the trade settles in.
	Settlement string
}

// Cost is the base amount absorbed into a lot: subtotal plus fees.
func (a Amounts) Cost() Money { return a.SubtotalBase.Add(a.FeeBase) }

// Buy acquires Quantity units of an instrument.
type Buy struct {
	baseCmd
	Amounts
}

// Sell disposes of Quantity units of an instrument.
type Sell struct {
	baseCmd
	Amounts
}

// Deposit brings cash into a cash account.
type Deposit struct {
	baseCmd
	Amounts
}

// Withdraw takes cash out of a cash account.
type Withdraw struct {
	baseCmd
	Amounts
}

// Dividend is a cash distribution for Quantity shares at Price per share.
type Dividend struct {
	baseCmd
	Amounts
}

// Split multiplies the held quantity of a security by Factor. Residual is
// the cash paid out for fractional shares, in base currency.
type Split struct {
	baseCmd
	Factor   decimal.Decimal
	Residual Money
}

// TradeInput holds the raw figures of a buy, sell, deposit, withdrawal or
// dividend. Null fields are derived from the others.
type TradeInput struct {
	Date       Date
	Memo       string
	Ticker     string // empty for cash
	Currency   string // empty for the base currency
	Quantity   decimal.Decimal
	Price      decimal.NullDecimal
	Rate       decimal.NullDecimal
	Fee        decimal.NullDecimal // base currency
	Total      decimal.NullDecimal
	Subtotal   decimal.NullDecimal // base currency
	TotalBase  decimal.NullDecimal
	Settlement string
}

// totalBaseTolerance is the accepted rounding gap on a provided total_base.
var totalBaseTolerance = decimal.NewFromFloat(0.01)

// NewBuy validates in and returns the Buy of a security.
func NewBuy(in TradeInput, base string) (Buy, error) {
	b, a, err := newTrade(KindBuy, in, base)
	if err != nil {
		return Buy{}, err
	}
	return Buy{b, a}, nil
}

// NewSell validates in and returns the Sell of a security.
func NewSell(in TradeInput, base string) (Sell, error) {
	b, a, err := newTrade(KindSell, in, base)
	if err != nil {
		return Sell{}, err
	}
	return Sell{b, a}, nil
}

// NewDeposit validates in and returns a Deposit of Quantity units of cash.
func NewDeposit(in TradeInput, base string) (Deposit, error) {
	b, a, err := newTrade(KindDeposit, in, base)
	if err != nil {
		return Deposit{}, err
	}
	return Deposit{b, a}, nil
}

// NewWithdraw validates in and returns a Withdraw of Quantity units of cash.
func NewWithdraw(in TradeInput, base string) (Withdraw, error) {
	b, a, err := newTrade(KindWithdrawal, in, base)
	if err != nil {
		return Withdraw{}, err
	}
	return Withdraw{b, a}, nil
}

// NewDividend validates in and returns a Dividend.
func NewDividend(in TradeInput, base string) (Dividend, error) {
	b, a, err := newTrade(KindDividend, in, base)
	if err != nil {
		return Dividend{}, err
	}
	return Dividend{b, a}, nil
}

// NewTransaction dispatches to the constructor of kind.
func NewTransaction(kind Kind, in TradeInput, base string) (Transaction, error) {
	switch kind {
	case KindBuy:
		return NewBuy(in, base)
	case KindSell:
		return NewSell(in, base)
	case KindDeposit:
		return NewDeposit(in, base)
	case KindWithdrawal:
		return NewWithdraw(in, base)
	case KindDividend:
		return NewDividend(in, base)
	}
	return nil, invalid("type", "unknown transaction type %q", kind)
}

// NewSplit validates and returns a split of ticker by factor.
func NewSplit(on Date, ticker string, factor, residual decimal.Decimal, base string) (Split, error) {
	switch {
	case on.IsZero():
		return Split{}, invalid("date", "is required")
	case ticker == "":
		return Split{}, invalid("ticker", "is required")
	case reservedTicker(ticker):
		return Split{}, invalid("ticker", "%q cannot be split", ticker)
	case !factor.IsPositive():
		return Split{}, invalid("split_factor", "must be positive, got %s", factor)
	case residual.IsNegative():
		return Split{}, invalid("amount", "must not be negative, got %s", residual)
	}
	return Split{
		baseCmd:  baseCmd{kind: KindSplit, date: on, instrument: NewSecurity(ticker, "")},
		Factor:   factor,
		Residual: M(residual, base),
	}, nil
}

// newTrade validates the input common to every trade and derives the
// missing amounts.
func newTrade(kind Kind, in TradeInput, base string) (baseCmd, Amounts, *ValidationError) {
	var a Amounts
	if in.Date.IsZero() {
		return baseCmd{}, a, invalid("date", "is required")
	}
	currency := in.Currency
	if currency == "" {
		currency = base
	}
	if !KnownCurrency(currency) {
		return baseCmd{}, a, invalid("currency", "unknown currency %q", currency)
	}

	var instrument Instrument
	switch kind {
	case KindDeposit, KindWithdrawal:
		if in.Ticker != "" && in.Ticker != CashTicker(currency) {
			return baseCmd{}, a, invalid("ticker", "a %s moves cash and cannot name security %q", kind, in.Ticker)
		}
		instrument = NewCashAccount(currency)
	default:
		if in.Ticker == "" {
			return baseCmd{}, a, invalid("ticker", "is required for a %s", kind)
		}
		if reservedTicker(in.Ticker) {
			return baseCmd{}, a, invalid("ticker", "%q uses the reserved cash prefix %q", in.Ticker, cashPrefix)
		}
		instrument = NewSecurity(in.Ticker, currency)
	}

	if !in.Quantity.IsPositive() {
		return baseCmd{}, a, invalid("quantity", "must be positive, got %s", in.Quantity)
	}
	a.Quantity = Q(in.Quantity)

	switch {
	case in.Price.Valid:
		a.Price = M(in.Price.Decimal, currency)
	case IsCash(instrument):
		a.Price = M(1, currency)
	case in.Total.Valid:
		a.Price = M(in.Total.Decimal.Div(in.Quantity), currency)
	default:
		return baseCmd{}, a, invalid("price", "is required for a %s", kind)
	}
	if a.Price.IsNegative() {
		return baseCmd{}, a, invalid("price", "must not be negative, got %s", a.Price.Decimal())
	}

	a.Total = a.Price.Mul(a.Quantity)
	if in.Total.Valid {
		a.Total = M(in.Total.Decimal, currency)
	}

	switch {
	case in.Rate.Valid:
		a.Rate = R(in.Rate.Decimal)
	case currency == base:
		a.Rate = One
	case in.Subtotal.Valid && in.Subtotal.Decimal.IsPositive():
		a.Rate = R(a.Total.Decimal().Div(in.Subtotal.Decimal))
	default:
		return baseCmd{}, a, invalid("exchange_rate", "is required for a %s in %s", kind, currency)
	}
	if !a.Rate.IsPositive() {
		return baseCmd{}, a, invalid("exchange_rate", "must be positive, got %s", a.Rate)
	}

	a.SubtotalBase = a.Rate.ToBase(a.Total, base)
	if in.Subtotal.Valid {
		a.SubtotalBase = M(in.Subtotal.Decimal, base)
	}
	a.FeeBase = M(0, base)
	if in.Fee.Valid {
		if in.Fee.Decimal.IsNegative() {
			return baseCmd{}, a, invalid("fee", "must not be negative, got %s", in.Fee.Decimal)
		}
		a.FeeBase = M(in.Fee.Decimal, base)
	}

	// fees increase purchase cost and reduce proceeds.
	switch kind {
	case KindBuy, KindDeposit:
		a.TotalBase = a.SubtotalBase.Add(a.FeeBase)
	default:
		a.TotalBase = a.SubtotalBase.Sub(a.FeeBase)
	}
	if in.TotalBase.Valid {
		if in.TotalBase.Decimal.Sub(a.TotalBase.Decimal()).Abs().GreaterThan(totalBaseTolerance) {
			return baseCmd{}, a, invalid("total_base", "%s does not match subtotal_base and fee (%s)", in.TotalBase.Decimal, a.TotalBase.Decimal())
		}
		a.TotalBase = M(in.TotalBase.Decimal, base)
	}

	a.Settlement = base
	if in.Settlement != "" {
		if IsCash(instrument) {
			return baseCmd{}, a, invalid("settlement_currency", "does not apply to a %s", kind)
		}
		if in.Settlement != base && in.Settlement != currency {
			return baseCmd{}, a, invalid("settlement_currency", "must be %s or %s, got %q", base, currency, in.Settlement)
		}
		a.Settlement = in.Settlement
	}

	return baseCmd{kind: kind, date: in.Date, instrument: instrument, memo: in.Memo}, a, nil
}
