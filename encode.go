package pdash

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// The JSON documents exchanged with the backend and the presentation layer
// use snake_case keys and bare numbers. Zero and missing values are
// equivalent.

type snapshotJSON struct {
	Status    string             `json:"status,omitempty"`
	KPI       accountJSON        `json:"kpi"`
	Positions []positionJSON     `json:"positions"`
	FXRates   map[string]float64 `json:"fx_rates,omitempty"`
}

type accountJSON struct {
	NetLiquidityUSD  float64           `json:"net_liquidity_usd"`
	NetLiquidityCZK  float64           `json:"net_liquidity_czk"`
	CashBalanceUSD   float64           `json:"cash_balance_usd"`
	CashBalances     []cashBalanceJSON `json:"cash_balances,omitempty"`
	PctInvested      float64           `json:"pct_invested,omitempty"`
	GrossPositionUSD float64           `json:"gross_position_usd,omitempty"`
	GrossPositionCZK float64           `json:"gross_position_czk,omitempty"`
	Leverage         float64           `json:"leverage,omitempty"`
}

type cashBalanceJSON struct {
	Currency            string  `json:"currency"`
	Amount              float64 `json:"amount"`
	ValueCZK            float64 `json:"value_czk"`
	ValueUSD            float64 `json:"value_usd"`
	DailyInterestNative float64 `json:"daily_interest_native,omitempty"`
	DailyInterestCZK    float64 `json:"daily_interest_czk,omitempty"`
	EffectiveRate       float64 `json:"effective_rate,omitempty"`
}

type positionJSON struct {
	Symbol              string  `json:"symbol"`
	Name                string  `json:"name,omitempty"`
	Currency            string  `json:"currency"`
	Quantity            float64 `json:"quantity"`
	CurrentPrice        float64 `json:"current_price,omitempty"`
	MarketValueNative   float64 `json:"market_value_native"`
	MarketValueUSD      float64 `json:"market_value_usd"`
	MarketValueCZK      float64 `json:"market_value_czk"`
	PctPortfolio        float64 `json:"pct_portfolio"`
	CostBasisCZK        float64 `json:"cost_basis_czk"`
	UnrealizedPnLCZK    float64 `json:"unrealized_pnl_czk"`
	UnrealizedPnLNative float64 `json:"unrealized_pnl_native,omitempty"`
	TargetPrice         float64 `json:"target_price,omitempty"`
	RiskScore           float64 `json:"risk_score,omitempty"`
	BuyZone             float64 `json:"buy_zone,omitempty"`
	SellZone            float64 `json:"sell_zone,omitempty"`
	Notes               string  `json:"notes,omitempty"`
	Instruction         string  `json:"instruction,omitempty"`
	PctToBuy            float64 `json:"pct_to_buy,omitempty"`
	PctToSell           float64 `json:"pct_to_sell,omitempty"`
	IsExcluded          bool    `json:"is_excluded"`
	IsSimulated         bool    `json:"is_simulated,omitempty"`
	PriceSource         string  `json:"price_source,omitempty"`
}

type simulationJSON struct {
	ID       string  `json:"id"`
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name,omitempty"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

type kpiJSON struct {
	NetLiquidityUSD           float64 `json:"net_liquidity_usd"`
	NetLiquidityCZK           float64 `json:"net_liquidity_czk"`
	ProjectedNetLiquidityUSD  float64 `json:"projected_net_liquidity_usd"`
	ProjectedNetLiquidityCZK  float64 `json:"projected_net_liquidity_czk"`
	MarketValueUSD            float64 `json:"market_value_usd"`
	SimulatedValueUSD         float64 `json:"simulated_value_usd"`
	ProjectedMarketValueCZK   float64 `json:"projected_market_value_czk"`
	GrossPositionUSD          float64 `json:"gross_position_usd"`
	ProjectedGrossPositionUSD float64 `json:"projected_gross_position_usd"`
	CurrentLeverage           float64 `json:"current_leverage"`
	ProjectedLeverage         float64 `json:"projected_leverage"`
	CashUSD                   float64 `json:"cash_usd"`
	ProjectedCashUSD          float64 `json:"projected_cash_usd"`
	ProjectedCashCZK          float64 `json:"projected_cash_czk"`
	Borrowing                 bool    `json:"borrowing"`
	ProjectedDailyInterestUSD float64 `json:"projected_daily_interest_usd"`
	DailyInterestCZK          float64 `json:"daily_interest_czk"`
	PctInvested               float64 `json:"pct_invested"`
	ProjectedPctInvested      float64 `json:"projected_pct_invested"`
	PositionsCount            int     `json:"positions_count"`
	SimulationsCount          int     `json:"simulations_count"`
}

type viewJSON struct {
	kpiJSON
	MergedPositions    []positionJSON   `json:"merged_positions"`
	Simulations        []simulationJSON `json:"simulations"`
	FallbackCurrencies []string         `json:"fallback_currencies,omitempty"`
	Status             string           `json:"status,omitempty"`
}

// DecodeSnapshot reads a backend account snapshot. Positions lacking a trade
// instruction get one from their buy and sell zones, and negative cash
// balances lacking interest figures are priced with cfg.Margin.
func DecodeSnapshot(r io.Reader, cfg Config) (*Snapshot, error) {
	var doc snapshotJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot decode snapshot: %w", err)
	}

	s := &Snapshot{
		Empty: doc.Status == "empty",
		Rates: make(Rates, len(doc.FXRates)),
	}
	for code, rate := range doc.FXRates {
		s.Rates[code] = decimal.NewFromFloat(rate)
	}

	k := doc.KPI
	s.Account = Account{
		NetLiquidityUSD:  M(k.NetLiquidityUSD, "USD"),
		NetLiquidityCZK:  M(k.NetLiquidityCZK, Base),
		CashUSD:          M(k.CashBalanceUSD, "USD"),
		GrossPositionUSD: M(k.GrossPositionUSD, "USD"),
		GrossPositionCZK: M(k.GrossPositionCZK, Base),
		Leverage:         decimal.NewFromFloat(k.Leverage),
		PctInvested:      Percent(k.PctInvested),
	}
	for _, c := range k.CashBalances {
		cur := strings.ToUpper(strings.TrimSpace(c.Currency))
		s.Account.CashBalances = append(s.Account.CashBalances, CashBalance{
			Currency:         cur,
			Amount:           M(c.Amount, cur),
			ValueCZK:         M(c.ValueCZK, Base),
			ValueUSD:         M(c.ValueUSD, "USD"),
			DailyInterest:    M(c.DailyInterestNative, cur),
			DailyInterestCZK: M(c.DailyInterestCZK, Base),
			EffectiveRate:    Percent(c.EffectiveRate),
		})
	}

	for _, p := range doc.Positions {
		if strings.TrimSpace(p.Symbol) == "" {
			return nil, fmt.Errorf("cannot decode snapshot: position without symbol")
		}
		s.Positions = append(s.Positions, p.position())
	}
	s.fillMarginInterest(cfg)
	return s, nil
}

func (p positionJSON) position() Position {
	cur := strings.TrimSpace(p.Currency)
	if cur == "" {
		cur = "USD"
	}
	price := decimal.NewFromFloat(p.CurrentPrice)
	quantity := decimal.NewFromFloat(p.Quantity)
	native := decimal.NewFromFloat(p.MarketValueNative)
	if price.IsZero() && !quantity.IsZero() {
		price = native.Div(quantity)
	}
	pos := Position{
		Symbol:           p.Symbol,
		Name:             p.Name,
		Currency:         cur,
		Quantity:         Q(quantity),
		Price:            M(price, cur),
		MarketValue:      M(native, cur),
		MarketValueUSD:   M(p.MarketValueUSD, "USD"),
		MarketValueCZK:   M(p.MarketValueCZK, Base),
		CostBasisCZK:     M(p.CostBasisCZK, Base),
		UnrealizedPnL:    M(p.UnrealizedPnLNative, cur),
		UnrealizedPnLCZK: M(p.UnrealizedPnLCZK, Base),
		PctPortfolio:     Percent(p.PctPortfolio),
		Plan: Plan{
			TargetPrice: decimal.NewFromFloat(p.TargetPrice),
			BuyZone:     decimal.NewFromFloat(p.BuyZone),
			SellZone:    decimal.NewFromFloat(p.SellZone),
			RiskScore:   int(p.RiskScore),
			Notes:       p.Notes,
		},
		Instruction: p.Instruction,
		PctToBuy:    Percent(p.PctToBuy),
		PctToSell:   Percent(p.PctToSell),
		Excluded:    p.IsExcluded,
		Simulated:   p.IsSimulated,
		PriceSource: p.PriceSource,
	}
	if pos.Instruction == "" {
		pos.Instruction, pos.PctToBuy, pos.PctToSell = Instruct(price, pos.Plan)
	}
	return pos
}

func newPositionJSON(p Position) positionJSON {
	return positionJSON{
		Symbol:              p.Symbol,
		Name:                p.Name,
		Currency:            p.Currency,
		Quantity:            p.Quantity.Float64(),
		CurrentPrice:        p.Price.Float64(),
		MarketValueNative:   p.MarketValue.Float64(),
		MarketValueUSD:      p.MarketValueUSD.Float64(),
		MarketValueCZK:      p.MarketValueCZK.Float64(),
		PctPortfolio:        float64(p.PctPortfolio),
		CostBasisCZK:        p.CostBasisCZK.Float64(),
		UnrealizedPnLCZK:    p.UnrealizedPnLCZK.Float64(),
		UnrealizedPnLNative: p.UnrealizedPnL.Float64(),
		TargetPrice:         p.Plan.TargetPrice.InexactFloat64(),
		RiskScore:           float64(p.Plan.RiskScore),
		BuyZone:             p.Plan.BuyZone.InexactFloat64(),
		SellZone:            p.Plan.SellZone.InexactFloat64(),
		Notes:               p.Plan.Notes,
		Instruction:         p.Instruction,
		PctToBuy:            float64(p.PctToBuy),
		PctToSell:           float64(p.PctToSell),
		IsExcluded:          p.Excluded,
		IsSimulated:         p.Simulated,
		PriceSource:         p.PriceSource,
	}
}

func newSimulationJSON(s Simulation) simulationJSON {
	return simulationJSON{
		ID:       s.ID,
		Symbol:   s.Symbol,
		Name:     s.Name,
		Quantity: s.Quantity.Float64(),
		Price:    s.Price.Float64(),
		Currency: s.Currency(),
	}
}

// MarshalJSON implements json.Marshaler.
func (s Simulation) MarshalJSON() ([]byte, error) {
	return json.Marshal(newSimulationJSON(s))
}

// MarshalJSON implements json.Marshaler.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(newPositionJSON(p))
}

// MarshalJSON implements json.Marshaler.
func (k KPI) MarshalJSON() ([]byte, error) {
	return json.Marshal(newKPIJSON(k))
}

func newKPIJSON(k KPI) kpiJSON {
	return kpiJSON{
		NetLiquidityUSD:           k.NetLiquidityUSD.Float64(),
		NetLiquidityCZK:           k.NetLiquidityCZK.Float64(),
		ProjectedNetLiquidityUSD:  k.ProjectedNetLiquidityUSD.Float64(),
		ProjectedNetLiquidityCZK:  k.ProjectedNetLiquidityCZK.Float64(),
		MarketValueUSD:            k.MarketValueUSD.Float64(),
		SimulatedValueUSD:         k.SimulatedValueUSD.Float64(),
		ProjectedMarketValueCZK:   k.ProjectedMarketValueCZK.Float64(),
		GrossPositionUSD:          k.GrossPositionUSD.Float64(),
		ProjectedGrossPositionUSD: k.ProjectedGrossPositionUSD.Float64(),
		CurrentLeverage:           k.Leverage.InexactFloat64(),
		ProjectedLeverage:         k.ProjectedLeverage.InexactFloat64(),
		CashUSD:                   k.CashUSD.Float64(),
		ProjectedCashUSD:          k.ProjectedCashUSD.Float64(),
		ProjectedCashCZK:          k.ProjectedCashCZK.Float64(),
		Borrowing:                 k.Borrowing,
		ProjectedDailyInterestUSD: k.ProjectedDailyInterestUSD.Float64(),
		DailyInterestCZK:          k.DailyInterestCZK.Float64(),
		PctInvested:               float64(k.PctInvested),
		ProjectedPctInvested:      float64(k.ProjectedPctInvested),
		PositionsCount:            k.PositionsCount,
		SimulationsCount:          k.SimulationsCount,
	}
}

// MarshalJSON implements json.Marshaler. The KPIs are flattened at the top
// level next to the merged positions.
func (v *View) MarshalJSON() ([]byte, error) {
	doc := viewJSON{
		kpiJSON:            newKPIJSON(v.KPI),
		MergedPositions:    make([]positionJSON, 0, len(v.Positions)),
		Simulations:        make([]simulationJSON, 0, len(v.Simulations)),
		FallbackCurrencies: v.FallbackCurrencies,
	}
	if v.Empty {
		doc.Status = "empty"
	}
	for _, p := range v.Positions {
		doc.MergedPositions = append(doc.MergedPositions, newPositionJSON(p))
	}
	for _, s := range v.Simulations {
		doc.Simulations = append(doc.Simulations, newSimulationJSON(s))
	}
	return json.Marshal(doc)
}
