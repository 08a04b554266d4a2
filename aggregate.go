package pdash

import "github.com/shopspring/decimal"

// KPI holds the account figures derived from a snapshot and a set of
// simulations. It is never stored: recompute it whenever an input changes.
type KPI struct {
	NetLiquidityUSD          Money
	NetLiquidityCZK          Money
	ProjectedNetLiquidityUSD Money
	ProjectedNetLiquidityCZK Money

	MarketValueUSD          Money // real positions only
	SimulatedValueUSD       Money // signed sum of the simulated notionals
	ProjectedMarketValueCZK Money // all merged positions

	GrossPositionUSD          Money
	ProjectedGrossPositionUSD Money
	Leverage                  decimal.Decimal
	ProjectedLeverage         decimal.Decimal

	CashUSD          Money
	ProjectedCashUSD Money
	ProjectedCashCZK Money
	// Borrowing is set when the projected cash is negative, which means the
	// simulated trades are financed on margin. It is a valid state.
	Borrowing                 bool
	ProjectedDailyInterestUSD Money
	DailyInterestCZK          Money // reported on the current cash balances

	PctInvested          Percent
	ProjectedPctInvested Percent

	PositionsCount   int
	SimulationsCount int
}

// Aggregate derives the KPIs of the account from snap, the merged positions
// and the simulations they were merged with.
//
// Simulations are purchases financed by cash: they leave net liquidity
// unchanged, decrease cash by their notional and add their absolute notional
// to the gross exposure (short or margin simulations are not modeled). A zero
// or missing net liquidity is replaced by cfg.SafeDenominator in every ratio.
func Aggregate(snap *Snapshot, merged []Position, sims []Simulation, fx *FX, cfg Config) KPI {
	var acc Account
	var positions []Position
	if snap != nil {
		acc = snap.Account
		positions = snap.Positions
	}

	netLiqUSD := M(acc.NetLiquidityUSD.value, "USD")
	netLiqCZK := M(acc.NetLiquidityCZK.value, Base)
	if netLiqCZK.IsZero() {
		netLiqCZK = fx.ToCZK(netLiqUSD)
	}
	denominator := cfg.denominator(netLiqUSD.value)

	market := M(0, "USD")
	gross := M(0, "USD")
	for _, p := range positions {
		market = market.Add(p.MarketValueUSD)
		gross = gross.Add(p.MarketValueUSD.Abs())
	}
	if !acc.GrossPositionUSD.IsZero() {
		gross = M(acc.GrossPositionUSD.value, "USD")
	}
	leverage := acc.Leverage
	if leverage.IsZero() {
		leverage = gross.value.Div(denominator)
	}

	simulated := M(0, "USD")
	added := M(0, "USD")
	for _, s := range sims {
		usd := fx.ToUSD(s.Notional())
		simulated = simulated.Add(usd)
		added = added.Add(usd.Abs())
	}

	cash := M(acc.CashUSD.value, "USD")
	projectedCash := cash.Sub(simulated)

	dailyInterest := M(0, Base)
	for _, c := range acc.CashBalances {
		dailyInterest = dailyInterest.Add(M(c.DailyInterestCZK.value, Base))
	}

	projectedMarket := M(0, Base)
	for _, p := range merged {
		projectedMarket = projectedMarket.Add(p.MarketValueCZK)
	}

	pctInvested := acc.PctInvested
	if pctInvested == 0 {
		pctInvested = percentOf(market.value, denominator)
	}

	return KPI{
		NetLiquidityUSD:          netLiqUSD,
		NetLiquidityCZK:          netLiqCZK,
		ProjectedNetLiquidityUSD: netLiqUSD,
		ProjectedNetLiquidityCZK: netLiqCZK,

		MarketValueUSD:          market,
		SimulatedValueUSD:       simulated,
		ProjectedMarketValueCZK: projectedMarket,

		GrossPositionUSD:          gross,
		ProjectedGrossPositionUSD: gross.Add(added),
		Leverage:                  leverage,
		ProjectedLeverage:         leverage.Add(added.value.Div(denominator)),

		CashUSD:                   cash,
		ProjectedCashUSD:          projectedCash,
		ProjectedCashCZK:          fx.ToCZK(projectedCash),
		Borrowing:                 projectedCash.IsNegative(),
		ProjectedDailyInterestUSD: cfg.Margin.Cost(projectedCash).Daily,
		DailyInterestCZK:          dailyInterest,

		PctInvested:          pctInvested,
		ProjectedPctInvested: percentOf(market.Add(simulated).value, denominator),

		PositionsCount:   len(positions),
		SimulationsCount: len(sims),
	}
}
