package costbasis

// TickerGains sums the closed lots of one instrument.
type TickerGains struct {
	Ticker   string
	Quantity Quantity
	Cost     Money
	Proceeds Money
	Gain     Money
	Return   Percent
	Lots     []ClosedLot
}

// ClosedReport lists the lots closed during a period, grouped by ticker.
type ClosedReport struct {
	Range    Range
	Currency string
	Tickers  []TickerGains
	Cost     Money
	Proceeds Money
	Gain     Money
	Return   Percent
}

// ClosedPositions returns the realized gains of the sells dated within r.
// Cash ledgers, whose closed lots are realized exchange gains, are only
// reported when includeCash is set.
func (p *Portfolio) ClosedPositions(r Range, includeCash bool) (*ClosedReport, error) {
	report := &ClosedReport{
		Range:    r,
		Currency: p.base,
		Cost:     M(0, p.base),
		Proceeds: M(0, p.base),
		Gain:     M(0, p.base),
	}
	for l := range p.Ledgers() {
		if IsCash(l.instrument) && !includeCash {
			continue
		}
		closed, err := l.ClosedLotsBetween(r)
		if err != nil {
			return nil, err
		}
		if len(closed) == 0 {
			continue
		}
		g := TickerGains{Ticker: l.Ticker(), Cost: M(0, p.base), Proceeds: M(0, p.base), Lots: closed}
		for _, c := range closed {
			g.Quantity = g.Quantity.Add(c.Quantity)
			g.Cost = g.Cost.Add(c.Cost)
			g.Proceeds = g.Proceeds.Add(c.Proceeds)
		}
		g.Gain = g.Proceeds.Sub(g.Cost)
		g.Return = ReturnOf(g.Proceeds, g.Cost)
		report.Tickers = append(report.Tickers, g)
		report.Cost = report.Cost.Add(g.Cost)
		report.Proceeds = report.Proceeds.Add(g.Proceeds)
	}
	report.Gain = report.Proceeds.Sub(report.Cost)
	report.Return = ReturnOf(report.Proceeds, report.Cost)
	return report, nil
}

// Income is a dividend received.
type Income struct {
	Date   Date
	Ticker string
	Amount Money // base currency, net of withholding
	Memo   string
}

// Incomes returns the dividends dated within r, in chronological order.
func (p *Portfolio) Incomes(r Range) []Income {
	var incomes []Income
	for tx := range p.Transactions() {
		d, ok := tx.(Dividend)
		if !ok || !r.Contains(d.date) {
			continue
		}
		incomes = append(incomes, Income{Date: d.date, Ticker: d.instrument.Ticker(), Amount: d.TotalBase, Memo: d.memo})
	}
	return incomes
}

// TaxReport gathers what a yearly tax return needs: the lots closed in the
// year, the open positions at the start and end of the year, and the
// dividends received.
type TaxReport struct {
	Year    int
	Closed  *ClosedReport
	Opening *Snapshot
	Closing *Snapshot
	Incomes []Income
	Income  Money
}

// TaxReport builds the report of year.
func (p *Portfolio) TaxReport(year int, market MarketData) (*TaxReport, error) {
	r := Year(year)
	closed, err := p.ClosedPositions(r, false)
	if err != nil {
		return nil, err
	}
	opening, err := p.Snapshot(r.From.Add(-1), market)
	if err != nil {
		return nil, err
	}
	closing, err := p.Snapshot(r.To, market)
	if err != nil {
		return nil, err
	}
	report := &TaxReport{
		Year:    year,
		Closed:  closed,
		Opening: opening,
		Closing: closing,
		Incomes: p.Incomes(r),
		Income:  M(0, p.base),
	}
	for _, in := range report.Incomes {
		report.Income = report.Income.Add(in.Amount)
	}
	return report, nil
}
