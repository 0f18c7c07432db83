package costbasis

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Lot is a quantity of an instrument acquired on Date for a total Cost
// in base currency, fees included.
type Lot struct {
	Date     Date
	Quantity Quantity
	Cost     Money
}

// UnitCost returns the base currency cost of one unit of the lot.
func (l Lot) UnitCost() Money {
	if l.Quantity.IsZero() {
		return l.Cost
	}
	return l.Cost.Div(l.Quantity)
}

// lots is the FIFO queue of open lots of a ledger. The front is the oldest lot.
type lots struct {
	queue []Lot
}

func (l *lots) push(lot Lot) {
	if !lot.Quantity.IsPositive() {
		return
	}
	l.queue = append(l.queue, lot)
}

// quantity returns the sum of the open lot quantities.
func (l *lots) quantity() Quantity {
	var q Quantity
	for _, lot := range l.queue {
		q = q.Add(lot.Quantity)
	}
	return q
}

// cost returns the sum of the open lot costs.
func (l *lots) cost() Money {
	var c Money
	for _, lot := range l.queue {
		c = c.Add(lot.Cost)
	}
	return c
}

// open returns a copy of the open lots.
func (l *lots) open() []Lot { return slices.Clone(l.queue) }

// consume removes q units from the front of the queue and returns the
// consumed portions, oldest first. A partially consumed lot keeps the
// remainder of its cost so that costs stay exact. If q exceeds the held
// quantity the queue is left untouched and ok is false.
func (l *lots) consume(q Quantity) (consumed []Lot, ok bool) {
	if q.GreaterThan(l.quantity()) {
		return nil, false
	}
	for q.IsPositive() {
		front := l.queue[0]
		if front.Quantity.GreaterThan(q) {
			portion := Lot{Date: front.Date, Quantity: q, Cost: front.Cost.Mul(q).Div(front.Quantity)}
			l.queue[0] = Lot{Date: front.Date, Quantity: front.Quantity.Sub(q), Cost: front.Cost.Sub(portion.Cost)}
			consumed = append(consumed, portion)
			break
		}
		consumed = append(consumed, front)
		l.queue = l.queue[1:]
		q = q.Sub(front.Quantity)
	}
	return consumed, true
}

// split rescales every open lot by factor. The cost of each lot is
// unchanged, so its unit cost is divided by factor.
func (l *lots) split(factor decimal.Decimal) {
	for i := range l.queue {
		l.queue[i].Quantity = Quantity{value: l.queue[i].Quantity.value.Mul(factor)}
	}
}
