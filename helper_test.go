package pdash

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// CZK is a helper for test to create czk money from const
func CZK(v float64) Money { return M(v, "CZK") }

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// testRates is the FX table of the test snapshots.
func testRates() Rates {
	return Rates{"USD": dec(23), "EUR": dec(25)}
}

// position builds a valued position of qty shares at price, using testRates.
func position(symbol string, qty float64, price Money) Position {
	fx := NewFX(testRates(), DefaultConfig())
	mv := price.Mul(Q(qty))
	return Position{
		Symbol:         symbol,
		Name:           symbol + " Inc.",
		Currency:       price.Currency(),
		Quantity:       Q(qty),
		Price:          price,
		MarketValue:    mv,
		MarketValueUSD: fx.ToUSD(mv),
		MarketValueCZK: fx.ToCZK(mv),
		CostBasisCZK:   fx.ToCZK(mv),
		PriceSource:    "Report",
	}
}

// testSnapshot returns an account of 10000 USD holding AAPL and SAP.
func testSnapshot() *Snapshot {
	aapl := position("AAPL", 10, USD(150))
	sap := position("SAP", 20, EUR(100))
	s := &Snapshot{
		Account: Account{
			NetLiquidityUSD: USD(10000),
			NetLiquidityCZK: CZK(230000),
			CashUSD:         USD(10000).Sub(aapl.MarketValueUSD).Sub(sap.MarketValueUSD),
		},
		Positions: []Position{sap, aapl},
		Rates:     testRates(),
	}
	for i, p := range s.Positions {
		s.Positions[i].PctPortfolio = percentOf(p.MarketValueCZK.value, s.Account.NetLiquidityCZK.value)
	}
	return s
}

// mustSimulation is NewSimulation for valid test inputs.
func mustSimulation(t *testing.T, symbol string, quantity, price float64, currency string) Simulation {
	t.Helper()
	s, err := NewSimulation(symbol, quantity, price, currency, "")
	if err != nil {
		t.Fatalf("NewSimulation(%q, %v, %v, %q) error = %v", symbol, quantity, price, currency, err)
	}
	return s
}

// cmpOpts compares the engine values by amount rather than representation.
var cmpOpts = cmp.Options{
	cmpopts.EquateEmpty(),
	cmp.Comparer(func(a, b Money) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Percent) bool { return a.Equal(b) }),
}
