package costbasis

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Position is the valuation of an open position at a date.
type Position struct {
	Ticker       string
	Currency     string
	Cash         bool
	Quantity     Quantity
	Cost         Money // remaining cost, base currency
	PriceBase    Money // average unit cost, base currency
	Price        Money // market price, instrument currency
	PriceDate    Date  // day of the market price, on or before the snapshot date
	ValuePerUnit Money // market price in base currency
	Value        Money // instrument currency
	ValueBase    Money
	Return       Percent
	// Exact is false when the market price could not be converted for lack
	// of a known exchange rate.
	Exact bool
}

// Snapshot is the valuation of every open position of a portfolio at a date.
type Snapshot struct {
	On          Date
	Currency    string
	Positions   []Position
	TotalCost   Money
	TotalValue  Money
	TotalReturn Percent

	portfolio *Portfolio
	market    MarketData
}

// Snapshot values the portfolio at the end of day on. Positions with no
// quantity left are excluded. Prices missing at on are taken from the
// nearest earlier priced day.
func (p *Portfolio) Snapshot(on Date, market MarketData) (*Snapshot, error) {
	s := &Snapshot{
		On:         on,
		Currency:   p.base,
		TotalCost:  M(0, p.base),
		TotalValue: M(0, p.base),
		portfolio:  p,
		market:     market,
	}
	for l := range p.Ledgers() {
		cost, err := l.CostAt(on)
		if err != nil {
			return nil, err
		}
		if !cost.Quantity.IsPositive() {
			continue
		}
		pos, err := s.value(l, cost)
		if err != nil {
			return nil, err
		}
		s.Positions = append(s.Positions, pos)
		s.TotalCost = s.TotalCost.Add(pos.Cost)
		s.TotalValue = s.TotalValue.Add(pos.ValueBase)
	}
	s.TotalReturn = ReturnOf(s.TotalValue, s.TotalCost)
	return s, nil
}

// value joins the ledger cost with the market price at the snapshot date.
func (s *Snapshot) value(l *Ledger, cost Cost) (Position, error) {
	priceDate, price, err := s.marketPrice(l)
	if err != nil {
		return Position{}, err
	}
	native := M(price, l.Currency())
	perUnit, exact := l.ValuePerUnit(native, s.On)
	valueBase := perUnit.Mul(cost.Quantity)
	return Position{
		Ticker:       l.Ticker(),
		Currency:     l.Currency(),
		Cash:         IsCash(l.instrument),
		Quantity:     cost.Quantity,
		Cost:         cost.Total,
		PriceBase:    cost.Average,
		Price:        native,
		PriceDate:    priceDate,
		ValuePerUnit: perUnit,
		Value:        native.Mul(cost.Quantity),
		ValueBase:    valueBase,
		Return:       ReturnOf(valueBase, cost.Total),
		Exact:        exact,
	}, nil
}

// marketPrice returns the price of a ledger instrument. Cash is worth 1
// unit of its own currency and needs no market data.
func (s *Snapshot) marketPrice(l *Ledger) (Date, decimal.Decimal, error) {
	if IsCash(l.instrument) {
		return s.On, decimal.NewFromInt(1), nil
	}
	return priceAsOf(s.market, l.Ticker(), s.On)
}

// Position returns the open position of ticker.
func (s *Snapshot) Position(ticker string) (Position, bool) {
	for _, pos := range s.Positions {
		if pos.Ticker == ticker {
			return pos, true
		}
	}
	return Position{}, false
}

// OpenLot is an open lot valued at the snapshot price.
type OpenLot struct {
	Lot
	Value Money // base currency
	Gain  Money // unrealized, base currency
}

// OpenLots returns the open lots of ticker valued at the snapshot price.
func (s *Snapshot) OpenLots(ticker string) ([]OpenLot, error) {
	pos, ok := s.Position(ticker)
	if !ok {
		return nil, fmt.Errorf("no open position for %s on %s", ticker, s.On)
	}
	l, _ := s.portfolio.Ledger(ticker)
	open, err := l.OpenLotsAt(s.On)
	if err != nil {
		return nil, err
	}
	lots := make([]OpenLot, 0, len(open))
	for _, lot := range open {
		value := pos.ValuePerUnit.Mul(lot.Quantity)
		lots = append(lots, OpenLot{Lot: lot, Value: value, Gain: value.Sub(lot.Cost)})
	}
	return lots, nil
}

// DefaultDate returns the most recent day for which every security still
// held has market data, or the last transaction date if none is held.
func (p *Portfolio) DefaultDate(market MarketData) (Date, error) {
	var on Date
	for l := range p.Ledgers() {
		if IsCash(l.instrument) {
			continue
		}
		q, err := l.QuantityAt(p.end)
		if err != nil {
			return Date{}, err
		}
		if !q.IsPositive() {
			continue
		}
		h, err := market.PriceSeries(l.Ticker())
		if err != nil {
			return Date{}, err
		}
		last, _ := h.Latest()
		if on.IsZero() || last.Before(on) {
			on = last
		}
	}
	if on.IsZero() {
		return p.end, nil
	}
	return on, nil
}
