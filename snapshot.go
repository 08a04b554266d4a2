package pdash

import "github.com/shopspring/decimal"

// Snapshot is the account state reported by the backend: the real positions,
// the cash, the account level figures and the FX table.
//
// A Snapshot is a value object: the engine never modifies it, a refresh
// replaces it wholesale.
type Snapshot struct {
	Account   Account
	Positions []Position
	Rates     Rates
	Empty     bool // the backend has no statement loaded yet
}

// Account holds the account level figures of a snapshot. Zero values mean
// the backend did not report them.
type Account struct {
	NetLiquidityUSD  Money
	NetLiquidityCZK  Money
	CashUSD          Money
	CashBalances     []CashBalance
	GrossPositionUSD Money // sum of absolute market values
	GrossPositionCZK Money
	Leverage         decimal.Decimal // GrossPositionUSD / NetLiquidityUSD
	PctInvested      Percent
}

// CashBalance is the balance held in a single currency.
type CashBalance struct {
	Currency string
	Amount   Money
	ValueCZK Money
	ValueUSD Money

	// Margin interest, only relevant for negative balances.
	DailyInterest    Money // in Currency
	DailyInterestCZK Money
	EffectiveRate    Percent
}

// FX returns the normalizer over the snapshot's FX table.
func (s *Snapshot) FX(cfg Config) *FX {
	if s == nil {
		return NewFX(nil, cfg)
	}
	return NewFX(s.Rates, cfg)
}

// Currencies returns the currencies the snapshot's positions and cash
// balances are denominated in.
func (s *Snapshot) Currencies() []string {
	if s == nil {
		return nil
	}
	var res []string
	seen := make(map[string]bool)
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			res = append(res, c)
		}
	}
	for _, p := range s.Positions {
		add(p.Currency)
	}
	for _, c := range s.Account.CashBalances {
		add(c.Currency)
	}
	return res
}

// fillMarginInterest computes the interest figures of the negative cash
// balances the backend did not price.
func (s *Snapshot) fillMarginInterest(cfg Config) {
	fx := s.FX(cfg)
	for i, c := range s.Account.CashBalances {
		if !c.Amount.IsNegative() || !c.DailyInterest.IsZero() {
			continue
		}
		cost := cfg.Margin.Cost(c.Amount)
		c.DailyInterest = cost.Daily
		c.DailyInterestCZK = fx.ToCZK(cost.Daily)
		c.EffectiveRate = cost.EffectiveRate
		s.Account.CashBalances[i] = c
	}
}
