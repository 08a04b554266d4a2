package pdash

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Percent float64

// percentOf returns part/whole*100, whole is expected to be non-zero.
func percentOf(part, whole decimal.Decimal) Percent {
	return Percent(part.Div(whole).Mul(hundred).InexactFloat64())
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
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}

var hundred = decimal.NewFromInt(100)
