package costbasis

import (
	"iter"
	"slices"

	"github.com/shopspring/decimal"
)

// History stores a chronological series of prices, at most one per day.
type History struct {
	days   []Date
	values []decimal.Decimal
}

func compareDates(d, t Date) int {
	switch {
	case d.Before(t):
		return -1
	case d.After(t):
		return 1
	}
	return 0
}

// Len returns the number of days in the history.
func (h *History) Len() int { return len(h.days) }

// Latest returns the most recent day and value, or zero values if the
// history is empty.
func (h *History) Latest() (Date, decimal.Decimal) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, decimal.Zero
	}
	return h.days[last], h.values[last]
}

// Append records value at day. An existing value at that day is overwritten.
func (h *History) Append(day Date, value decimal.Decimal) *History {
	i, found := slices.BinarySearchFunc(h.days, day, compareDates)
	if found {
		h.values[i] = value
		return h
	}
	h.days = slices.Insert(h.days, i, day)
	h.values = slices.Insert(h.values, i, value)
	return h
}

// Values iterates over the days and values in chronological order.
func (h *History) Values() iter.Seq2[Date, decimal.Decimal] {
	return func(yield func(Date, decimal.Decimal) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value recorded exactly at day.
func (h *History) Get(day Date) (decimal.Decimal, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, compareDates)
	if !found {
		return decimal.Zero, false
	}
	return h.values[i], true
}

// ValueAsOf returns the value at day or, failing that, the most recent
// value before it, together with the day it was recorded.
func (h *History) ValueAsOf(day Date) (Date, decimal.Decimal, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, compareDates)
	if found {
		return h.days[i], h.values[i], true
	}
	if i == 0 {
		return Date{}, decimal.Zero, false
	}
	return h.days[i-1], h.values[i-1], true
}
