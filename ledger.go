package costbasis

import (
	"iter"
	"slices"
)

// Ledger is the chronological log of the transactions of one instrument.
//
// The log is built once by the Portfolio and never mutated afterward.
// Every query replays it from the start into a scratch lot queue, so
// queries are read-only and may run concurrently.
type Ledger struct {
	instrument Instrument
	base       string
	entries    []entry
}

// entry is a transaction with its global insertion rank, used to break
// ties between transactions of the same date.
type entry struct {
	Transaction
	seq int
}

// Cost is the remaining cost of a ledger at a date.
type Cost struct {
	Quantity Quantity
	Total    Money
	Average  Money // per unit, zero when Quantity is zero
}

// ClosedLot is the portion of a lot consumed by a sell or withdrawal.
type ClosedLot struct {
	Ticker        string
	Quantity      Quantity
	BuyDate       Date
	BuyUnitCost   Money
	Cost          Money
	SellDate      Date
	SellUnitPrice Money
	Proceeds      Money
}

// Gain returns the realized gain of the closed lot in base currency.
func (c ClosedLot) Gain() Money { return c.Proceeds.Sub(c.Cost) }

func newLedger(instrument Instrument, base string) *Ledger {
	return &Ledger{instrument: instrument, base: base}
}

func (l *Ledger) Instrument() Instrument { return l.instrument }
func (l *Ledger) Ticker() string         { return l.instrument.Ticker() }
func (l *Ledger) Currency() string       { return l.instrument.Currency() }

// Transactions iterates over the ledger entries in chronological order.
func (l *Ledger) Transactions() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, e := range l.entries {
			if !yield(e.Transaction) {
				return
			}
		}
	}
}

// Len returns the number of entries in the ledger.
func (l *Ledger) Len() int { return len(l.entries) }

// FirstDate returns the date of the oldest entry.
func (l *Ledger) FirstDate() Date {
	if len(l.entries) == 0 {
		return Date{}
	}
	return l.entries[0].When()
}

func (l *Ledger) add(tx Transaction, seq int) {
	l.entries = append(l.entries, entry{tx, seq})
}

// sort orders the entries by date. Within a date splits come first
// and the other entries keep their insertion order.
func (l *Ledger) sort() { slices.SortStableFunc(l.entries, compareEntries) }

func compareEntries(a, b entry) int {
	switch {
	case a.When().Before(b.When()):
		return -1
	case a.When().After(b.When()):
		return 1
	}
	if r := splitRank(a) - splitRank(b); r != 0 {
		return r
	}
	return a.seq - b.seq
}

func splitRank(e entry) int {
	if e.What() == KindSplit {
		return 0
	}
	return 1
}

// QuantityAt returns the quantity held at the end of day on.
func (l *Ledger) QuantityAt(on Date) (Quantity, error) {
	q, err := l.replay(on, nil)
	if err != nil {
		return Quantity{}, err
	}
	return q.quantity(), nil
}

// CostAt returns the cost of the lots still open at the end of day on.
func (l *Ledger) CostAt(on Date) (Cost, error) {
	q, err := l.replay(on, nil)
	if err != nil {
		return Cost{}, err
	}
	c := Cost{
		Quantity: q.quantity(),
		Total:    q.cost().Add(M(0, l.base)),
		Average:  M(0, l.base),
	}
	if c.Quantity.IsPositive() {
		c.Average = c.Total.Div(c.Quantity)
	}
	return c, nil
}

// OpenLotsAt returns the lots still open at the end of day on, oldest first.
func (l *Ledger) OpenLotsAt(on Date) ([]Lot, error) {
	q, err := l.replay(on, nil)
	if err != nil {
		return nil, err
	}
	return q.open(), nil
}

// ClosedLotsBetween returns the lot portions consumed by the sells and
// withdrawals dated within r, in consumption order.
func (l *Ledger) ClosedLotsBetween(r Range) ([]ClosedLot, error) {
	var closed []ClosedLot
	_, err := l.replay(r.To, func(c ClosedLot) {
		if r.Contains(c.SellDate) {
			closed = append(closed, c)
		}
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

// replay folds the entries dated on or before on into a fresh lot queue.
// When closed is not nil it receives every lot portion consumed on the way.
func (l *Ledger) replay(on Date, closed func(ClosedLot)) (*lots, error) {
	q := new(lots)
	for _, e := range l.entries {
		if e.When().After(on) {
			break
		}
		switch v := e.Transaction.(type) {
		case Buy:
			q.push(Lot{Date: v.date, Quantity: v.Quantity, Cost: v.Cost()})
		case Deposit:
			q.push(Lot{Date: v.date, Quantity: v.Quantity, Cost: v.Cost()})
		case Sell:
			if err := l.dispose(q, v.date, v.Amounts, closed); err != nil {
				return nil, err
			}
		case Withdraw:
			if err := l.dispose(q, v.date, v.Amounts, closed); err != nil {
				return nil, err
			}
		case Split:
			q.split(v.Factor)
		}
	}
	return q, nil
}

// dispose consumes a.Quantity units from q, sharing the proceeds among the
// consumed lot portions in proportion to their quantity. The last portion
// gets the remainder so that the shares add up to a.TotalBase.
func (l *Ledger) dispose(q *lots, on Date, a Amounts, closed func(ClosedLot)) error {
	consumed, ok := q.consume(a.Quantity)
	if !ok {
		return &InsufficientLotsError{Ticker: l.Ticker(), Date: on, Requested: a.Quantity, Held: q.quantity()}
	}
	if closed == nil {
		return nil
	}
	unitPrice := a.TotalBase.Div(a.Quantity)
	remaining := a.TotalBase
	for i, lot := range consumed {
		proceeds := remaining
		if i < len(consumed)-1 {
			proceeds = a.TotalBase.Mul(lot.Quantity).Div(a.Quantity)
			remaining = remaining.Sub(proceeds)
		}
		closed(ClosedLot{
			Ticker:        l.Ticker(),
			Quantity:      lot.Quantity,
			BuyDate:       lot.Date,
			BuyUnitCost:   lot.UnitCost(),
			Cost:          lot.Cost,
			SellDate:      on,
			SellUnitPrice: unitPrice,
			Proceeds:      proceeds,
		})
	}
	return nil
}
