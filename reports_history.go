package costbasis

import (
	"errors"
	"slices"

	"github.com/rs/zerolog/log"
)

// TotalTicker is the ticker of the records summing all instruments.
const TotalTicker = "TOTAL"

// Record is the state of one instrument at one date.
type Record struct {
	Date      Date
	Ticker    string
	Quantity  Quantity
	Price     Money // market price, instrument currency
	PriceBase Money // average unit cost, or market value per unit when nothing is held
	Value     Money // instrument currency
	ValueBase Money
	Cost      Money
}

func (r Record) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", r.Date)
	w.Append("ticker", r.Ticker)
	w.Append("quantity", r.Quantity)
	w.Append("price", r.Price.Decimal())
	w.Append("price_base", r.PriceBase.Decimal())
	w.Append("value", r.Value.Decimal())
	w.Append("value_base", r.ValueBase.Decimal())
	w.Append("cost", r.Cost.Decimal())
	return w.MarshalJSON()
}

// Evolution returns the records of every instrument over r, ordered by
// ticker then date. Cash accounts have a record for every day of r from
// their first entry. Securities have one for every day of r from their
// first price, valued at the most recent price, so that days without
// quotes do not drop out of the totals. Securities without any market data
// are skipped.
func (p *Portfolio) Evolution(market MarketData, r Range) ([]Record, error) {
	var records []Record
	for l := range p.Ledgers() {
		if IsCash(l.instrument) {
			for on := range r.Days() {
				if on.Before(l.FirstDate()) {
					continue
				}
				rec, err := p.record(l, on, M(1, l.Currency()))
				if err != nil {
					return nil, err
				}
				records = append(records, rec)
			}
			continue
		}

		h, err := market.PriceSeries(l.Ticker())
		var noData *NoDataError
		if errors.As(err, &noData) {
			log.Warn().Str("ticker", l.Ticker()).Msg("no market data, skipped from evolution")
			continue
		}
		if err != nil {
			return nil, err
		}
		for on := range r.Days() {
			_, price, ok := h.ValueAsOf(on)
			if !ok {
				continue
			}
			rec, err := p.record(l, on, M(price, l.Currency()))
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

func (p *Portfolio) record(l *Ledger, on Date, price Money) (Record, error) {
	cost, err := l.CostAt(on)
	if err != nil {
		return Record{}, err
	}
	perUnit, _ := l.ValuePerUnit(price, on)
	priceBase := cost.Average
	if !cost.Quantity.IsPositive() {
		priceBase = perUnit
	}
	return Record{
		Date:      on,
		Ticker:    l.Ticker(),
		Quantity:  cost.Quantity,
		Price:     price,
		PriceBase: priceBase,
		Value:     price.Mul(cost.Quantity),
		ValueBase: perUnit.Mul(cost.Quantity),
		Cost:      cost.Total,
	}, nil
}

// Totals sums the base currency value and cost of records per date. The
// result is in chronological order and uses TotalTicker.
func Totals(records []Record, base string) []Record {
	index := make(map[Date]int)
	var totals []Record
	for _, r := range records {
		i, ok := index[r.Date]
		if !ok {
			i = len(totals)
			index[r.Date] = i
			totals = append(totals, Record{Date: r.Date, Ticker: TotalTicker, ValueBase: M(0, base), Cost: M(0, base)})
		}
		totals[i].ValueBase = totals[i].ValueBase.Add(r.ValueBase)
		totals[i].Cost = totals[i].Cost.Add(r.Cost)
	}
	sortRecords(totals)
	return totals
}

func sortRecords(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int { return compareDates(a.Date, b.Date) })
}
