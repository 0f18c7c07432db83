package costbasis

import "strings"

// cashPrefix marks the reserved tickers of cash accounts.
const cashPrefix = "__"

// Instrument is either a Security or a CashAccount.
type Instrument interface {
	// Ticker is the ledger key, unique across the portfolio.
	Ticker() string
	// Currency is the currency the instrument is priced in.
	Currency() string
	isInstrument()
}

// Security is a tradable instrument quoted in a currency.
type Security struct {
	ticker   string
	currency string
}

// NewSecurity returns the security for ticker quoted in currency.
func NewSecurity(ticker, currency string) Security {
	return Security{ticker: ticker, currency: currency}
}

func (s Security) Ticker() string   { return s.ticker }
func (s Security) Currency() string { return s.currency }
func (Security) isInstrument()      {}

// CashAccount is the synthetic instrument mirroring the cash side of the
// trades settled in one currency.
type CashAccount struct {
	currency string
}

// NewCashAccount returns the cash account of a currency.
func NewCashAccount(currency string) CashAccount { return CashAccount{currency: currency} }

func (c CashAccount) Ticker() string   { return CashTicker(c.currency) }
func (c CashAccount) Currency() string { return c.currency }
func (CashAccount) isInstrument()      {}

// CashTicker returns the reserved ticker of the cash account in currency.
func CashTicker(currency string) string { return cashPrefix + currency }

// reservedTicker reports whether ticker collides with cash account tickers.
func reservedTicker(ticker string) bool { return strings.HasPrefix(ticker, cashPrefix) }

// IsCash reports whether the instrument is a cash account.
func IsCash(i Instrument) bool {
	_, ok := i.(CashAccount)
	return ok
}
