package costbasis

import "github.com/shopspring/decimal"

// Rate is an exchange rate expressed as units of an instrument currency
// for one unit of the base currency: base = native / rate.
type Rate struct {
	value decimal.Decimal
}

// One is the rate of the base currency against itself.
var One = Rate{value: decimal.NewFromInt(1)}

func R[T float64 | int | int64 | decimal.Decimal](value T) Rate {
	return Rate{value: newDecimal(value)}
}

func (r Rate) IsZero() bool             { return r.value.IsZero() }
func (r Rate) IsPositive() bool         { return r.value.IsPositive() }
func (r Rate) Equal(s Rate) bool        { return r.value.Equal(s.value) }
func (r Rate) Decimal() decimal.Decimal { return r.value }
func (r Rate) String() string           { return r.value.String() }

// ToBase converts a native amount into the base currency.
func (r Rate) ToBase(m Money, base string) Money {
	return Money{value: m.value.Div(r.value), cur: base}
}

// FromBase converts a base amount into the given native currency.
func (r Rate) FromBase(m Money, currency string) Money {
	return Money{value: m.value.Mul(r.value), cur: currency}
}

// Inverse returns the value of one native unit in base currency.
func (r Rate) Inverse(base string) Money {
	return Money{value: decimal.NewFromInt(1).Div(r.value), cur: base}
}
