package pdash

import "github.com/shopspring/decimal"

// MarginTier charges Rate (annual, in percent) on the part of a debt below
// UpTo. A zero UpTo means no upper limit.
type MarginTier struct {
	UpTo decimal.Decimal
	Rate decimal.Decimal
}

// MarginSchedule holds the tiered borrowing rates per currency.
type MarginSchedule struct {
	Tiers   map[string][]MarginTier
	Default decimal.Decimal // flat annual rate for currencies without tiers
}

// MarginCost is the interest charged on a negative balance.
type MarginCost struct {
	Annual        Money
	Daily         Money
	EffectiveRate Percent
}

func tier(upTo int64, rate string) MarginTier {
	return MarginTier{UpTo: decimal.NewFromInt(upTo), Rate: decimal.RequireFromString(rate)}
}

// DefaultMarginSchedule returns the IBKR style schedule (benchmark plus a
// spread decreasing with the size of the loan).
func DefaultMarginSchedule() MarginSchedule {
	return MarginSchedule{
		Tiers: map[string][]MarginTier{
			"USD": {
				tier(100_000, "5.14"),
				tier(1_000_000, "4.64"),
				tier(50_000_000, "4.39"),
				tier(0, "4.14"),
			},
			"EUR": {
				tier(100_000, "4.88"),
				tier(1_000_000, "4.38"),
				tier(0, "4.13"),
			},
			"CZK": {
				tier(2_500_000, "6.75"),
				tier(0, "6.25"),
			},
		},
		Default: decimal.NewFromInt(6),
	}
}

var negligible = decimal.RequireFromString("-0.01")

// dayCount returns the number of days in the interest year of currency.
func dayCount(currency string) decimal.Decimal {
	switch currency {
	case "USD", "EUR":
		return decimal.NewFromInt(360)
	}
	return decimal.NewFromInt(365)
}

// Cost computes the interest charged on balance. Balances above -0.01 cost
// nothing.
func (s MarginSchedule) Cost(balance Money) MarginCost {
	zero := MarginCost{Annual: M(0, balance.Currency()), Daily: M(0, balance.Currency())}
	if balance.value.GreaterThanOrEqual(negligible) {
		return zero
	}
	debt := balance.value.Abs()

	tiers, ok := s.Tiers[balance.Currency()]
	if !ok {
		tiers = []MarginTier{{Rate: s.Default}}
	}

	annual := decimal.Zero
	remaining := debt
	previous := decimal.Zero
	for _, t := range tiers {
		if !remaining.IsPositive() {
			break
		}
		amount := remaining
		if !t.UpTo.IsZero() {
			amount = decimal.Min(remaining, t.UpTo.Sub(previous))
		}
		annual = annual.Add(amount.Mul(t.Rate).Div(hundred))
		remaining = remaining.Sub(amount)
		previous = t.UpTo
	}

	return MarginCost{
		Annual:        M(annual, balance.Currency()),
		Daily:         M(annual.Div(dayCount(balance.Currency())), balance.Currency()),
		EffectiveRate: percentOf(annual, debt),
	}
}
