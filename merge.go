package pdash

import (
	"cmp"
	"slices"
	"strings"
)

// Name qualifiers of simulated positions.
const (
	simulatedSuffix = " (Sim)"  // a position that only exists in the ledger
	augmentedSuffix = " (+Sim)" // a real position with simulated trades on top
)

// PriceSourceSimulation marks the price of a position synthesized from a
// simulation.
const PriceSourceSimulation = "Simulation"

// Merge combines the real positions with the simulated trades into a single
// set, keyed by symbol, sorted by decreasing CZK market value.
//
// A simulation on a held symbol adds its quantity and market values to the
// position, and its notional to the cost basis; the P&L is left untouched. A
// simulation on any other symbol creates a "ghost" position valued purely from
// the trade. Percent of portfolio is recomputed for every entry against
// netLiquidityCZK, which a purchase does not change since cash decreases by
// the notional spent.
//
// Merge does not modify its inputs. With no simulations it returns the
// positions unchanged, except for the recomputed percentages.
func Merge(positions []Position, sims []Simulation, fx *FX, netLiquidityCZK Money) []Position {
	merged := make(map[string]*Position, len(positions)+len(sims))
	for _, p := range positions {
		merged[p.Symbol] = &p
	}

	for _, s := range sims {
		native := s.Notional()
		usd := fx.ToUSD(native)
		czk := fx.ToCZK(native)

		p, ok := merged[s.Symbol]
		if !ok {
			merged[s.Symbol] = ghost(s, native, usd, czk)
			continue
		}
		p.Quantity = p.Quantity.Add(s.Quantity)
		p.MarketValue = p.MarketValue.Add(fx.Convert(native, positionCurrency(p)))
		p.MarketValueUSD = p.MarketValueUSD.Add(usd)
		p.MarketValueCZK = p.MarketValueCZK.Add(czk)
		p.CostBasisCZK = p.CostBasisCZK.Add(czk)
		p.Name = qualify(p.DisplayName(), augmentedSuffix)
		p.Simulated = true
	}

	res := make([]Position, 0, len(merged))
	for _, p := range merged {
		p.PctPortfolio = 0
		if netLiquidityCZK.IsPositive() {
			p.PctPortfolio = percentOf(p.MarketValueCZK.value, netLiquidityCZK.value)
		}
		res = append(res, *p)
	}
	slices.SortFunc(res, func(a, b Position) int {
		if c := b.MarketValueCZK.value.Cmp(a.MarketValueCZK.value); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	return res
}

// ghost synthesizes the position of a symbol that only exists in the ledger.
func ghost(s Simulation, native, usd, czk Money) *Position {
	name := s.Name
	if name == "" {
		name = s.Symbol
	}
	return &Position{
		Symbol:           s.Symbol,
		Name:             qualify(name, simulatedSuffix),
		Currency:         s.Currency(),
		Quantity:         s.Quantity,
		Price:            s.Price,
		MarketValue:      native,
		MarketValueUSD:   usd,
		MarketValueCZK:   czk,
		CostBasisCZK:     czk,
		UnrealizedPnL:    M(0, s.Currency()),
		UnrealizedPnLCZK: M(0, Base),
		Instruction:      Hold,
		Excluded:         false,
		Simulated:        true,
		PriceSource:      PriceSourceSimulation,
	}
}

// positionCurrency returns the currency the native market value of p is
// expressed in.
func positionCurrency(p *Position) string {
	if c := p.MarketValue.Currency(); c != "" {
		return c
	}
	return p.Currency
}

// qualify appends suffix to name unless it already carries a qualifier.
func qualify(name, suffix string) string {
	if strings.HasSuffix(name, simulatedSuffix) || strings.HasSuffix(name, augmentedSuffix) {
		return name
	}
	return name + suffix
}
