package costbasis

import "github.com/rs/zerolog/log"

// Two conversions to base currency coexist and must not be mixed:
//
//   - the cost-basis price comes from the lots, each converted at the rate
//     of its own transaction. Later rate moves never change it.
//   - the market valuation price converts a market price at the most
//     recent rate known at the valuation date.

// CostPrice returns the average unit cost at on, in base currency.
func (l *Ledger) CostPrice(on Date) (Money, error) {
	c, err := l.CostAt(on)
	if err != nil {
		return Money{}, err
	}
	return c.Average, nil
}

// LatestRate returns the exchange rate of the most recent entry dated on
// or before on. The base currency cash account always has rate 1.
func (l *Ledger) LatestRate(on Date) (Rate, bool) {
	if IsCash(l.instrument) && l.Currency() == l.base {
		return One, true
	}
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if e.When().After(on) {
			continue
		}
		if a, ok := amountsOf(e.Transaction); ok && a.Rate.IsPositive() {
			return a.Rate, true
		}
	}
	return Rate{}, false
}

// ValuePerUnit converts a market price, in the instrument currency, to
// base currency at the latest rate known on on.
//
// When no rate is known yet the price is returned unconverted, relabeled
// in base currency, and exact is false. This is an approximation kept for
// instruments valued before their first transaction.
func (l *Ledger) ValuePerUnit(price Money, on Date) (value Money, exact bool) {
	rate, ok := l.LatestRate(on)
	if !ok {
		if price.Currency() != l.base {
			log.Warn().Str("ticker", l.Ticker()).Stringer("date", on).Msg("no exchange rate known, using unconverted price")
		}
		return price.In(l.base), false
	}
	return rate.ToBase(price, l.base), true
}

// amountsOf returns the amounts of the transactions that carry some.
func amountsOf(tx Transaction) (Amounts, bool) {
	switch v := tx.(type) {
	case Buy:
		return v.Amounts, true
	case Sell:
		return v.Amounts, true
	case Deposit:
		return v.Amounts, true
	case Withdraw:
		return v.Amounts, true
	case Dividend:
		return v.Amounts, true
	}
	return Amounts{}, false
}
