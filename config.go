package pdash

import "github.com/shopspring/decimal"

// Config holds the implicit defaults the engine falls back to when its inputs
// are incomplete. It is passed explicitly to the FX normalizer and the
// aggregator so that tests can override any of them.
type Config struct {
	// FallbackUSDRate is the CZK per USD rate used when the FX table has no
	// USD entry.
	FallbackUSDRate decimal.Decimal

	// SafeDenominator replaces a zero or absent net liquidity in ratios. It
	// saturates the figures instead of producing NaN or Inf, it does not make
	// them correct.
	SafeDenominator decimal.Decimal

	// Margin is the tiered interest schedule applied to negative cash.
	Margin MarginSchedule
}

// DefaultConfig returns the configuration used by the dashboard.
func DefaultConfig() Config {
	return Config{
		FallbackUSDRate: decimal.RequireFromString("20.3"),
		SafeDenominator: decimal.NewFromInt(1),
		Margin:          DefaultMarginSchedule(),
	}
}

// denominator returns d unless it is zero, in which case it returns the safe
// denominator.
func (c Config) denominator(d decimal.Decimal) decimal.Decimal {
	if !d.IsZero() {
		return d
	}
	if c.SafeDenominator.IsZero() {
		return decimal.NewFromInt(1)
	}
	return c.SafeDenominator
}
