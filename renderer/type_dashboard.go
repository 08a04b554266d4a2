package renderer

import (
	"strings"

	"github.com/etnz/pdash"
)

// Dashboard is a struct to represent the dashboard data in templates.
// Numbers are handled using the exact decimal types (Money, Quantity, etc.)
// So that they already contain basics renderers (SignedString etc.)
type Dashboard struct {
	// Title of the dashboard.
	Title string
	// Empty is set when the backend has no statement loaded.
	Empty bool
	// Fallbacks lists the currencies valued without their own FX rate.
	Fallbacks   string
	KPI         DashboardKPI
	Positions   []DashboardPosition
	Simulations []DashboardSimulation
}

// DashboardKPI holds the current and projected account figures.
type DashboardKPI struct {
	NetLiquidityUSD           pdash.Money
	ProjectedNetLiquidityUSD  pdash.Money
	NetLiquidityCZK           pdash.Money
	ProjectedNetLiquidityCZK  pdash.Money
	CashUSD                   pdash.Money
	ProjectedCashUSD          pdash.Money
	GrossPositionUSD          pdash.Money
	ProjectedGrossPositionUSD pdash.Money
	Leverage                  string
	ProjectedLeverage         string
	PctInvested               pdash.Percent
	ProjectedPctInvested      pdash.Percent
	Borrowing                 bool
	ProjectedDailyInterestUSD pdash.Money
}

// DashboardPosition represents a single merged position.
type DashboardPosition struct {
	Symbol           string
	Name             string
	Quantity         pdash.Quantity
	Price            pdash.Money
	MarketValue      pdash.Money
	MarketValueCZK   pdash.Money
	UnrealizedPnLCZK pdash.Money
	PctPortfolio     pdash.Percent
	Instruction      string
}

// DashboardSimulation represents a single entry of the simulation ledger.
type DashboardSimulation struct {
	ID       string
	Symbol   string
	Quantity pdash.Quantity
	Price    pdash.Money
	Notional pdash.Money
}

// cell escapes s for a markdown table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// NewDashboard creates a new Dashboard struct from a computed view.
func NewDashboard(title string, v *pdash.View) *Dashboard {
	k := v.KPI
	d := &Dashboard{
		Title:     title,
		Empty:     v.Empty,
		Fallbacks: strings.Join(v.FallbackCurrencies, ", "),
		KPI: DashboardKPI{
			NetLiquidityUSD:           k.NetLiquidityUSD,
			ProjectedNetLiquidityUSD:  k.ProjectedNetLiquidityUSD,
			NetLiquidityCZK:           k.NetLiquidityCZK,
			ProjectedNetLiquidityCZK:  k.ProjectedNetLiquidityCZK,
			CashUSD:                   k.CashUSD,
			ProjectedCashUSD:          k.ProjectedCashUSD,
			GrossPositionUSD:          k.GrossPositionUSD,
			ProjectedGrossPositionUSD: k.ProjectedGrossPositionUSD,
			Leverage:                  k.Leverage.StringFixed(2) + "x",
			ProjectedLeverage:         k.ProjectedLeverage.StringFixed(2) + "x",
			PctInvested:               k.PctInvested,
			ProjectedPctInvested:      k.ProjectedPctInvested,
			Borrowing:                 k.Borrowing,
			ProjectedDailyInterestUSD: k.ProjectedDailyInterestUSD,
		},
		Positions:   make([]DashboardPosition, 0, len(v.Positions)),
		Simulations: make([]DashboardSimulation, 0, len(v.Simulations)),
	}
	for _, p := range v.Positions {
		name := p.DisplayName()
		if p.Excluded {
			name = "_" + name + "_"
		}
		d.Positions = append(d.Positions, DashboardPosition{
			Symbol:           cell(p.Symbol),
			Name:             cell(name),
			Quantity:         p.Quantity,
			Price:            p.Price,
			MarketValue:      p.MarketValue,
			MarketValueCZK:   p.MarketValueCZK,
			UnrealizedPnLCZK: p.UnrealizedPnLCZK,
			PctPortfolio:     p.PctPortfolio,
			Instruction:      p.Instruction,
		})
	}
	for _, s := range v.Simulations {
		d.Simulations = append(d.Simulations, DashboardSimulation{
			ID:       s.ID,
			Symbol:   cell(s.Symbol),
			Quantity: s.Quantity,
			Price:    s.Price,
			Notional: s.Notional(),
		})
	}
	return d
}

// Quote is the sizing of a prospective trade.
type Quote struct {
	Symbol     string
	Name       string
	Price      pdash.Money
	Quantity   pdash.Quantity
	Cost       pdash.Money
	Allocation pdash.Percent
}
