package costbasis

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Percent float64

var hundred = decimal.NewFromInt(100)

// ReturnOf returns (value - cost) / cost as a percentage. It is 0 when
// cost is zero, so it never yields an infinity or a NaN.
func ReturnOf(value, cost Money) Percent {
	if cost.IsZero() {
		return 0
	}
	r := value.Sub(cost).value.Div(cost.value).Mul(hundred)
	return Percent(r.InexactFloat64())
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
