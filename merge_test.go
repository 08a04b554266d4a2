package pdash

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func find(t *testing.T, positions []Position, symbol string) Position {
	t.Helper()
	i := slices.IndexFunc(positions, func(p Position) bool { return p.Symbol == symbol })
	if i < 0 {
		t.Fatalf("no merged position for %s", symbol)
	}
	return positions[i]
}

func TestMerge_Identity(t *testing.T) {
	snap := testSnapshot()
	fx := snap.FX(DefaultConfig())
	merged := Merge(snap.Positions, nil, fx, snap.Account.NetLiquidityCZK)

	if len(merged) != len(snap.Positions) {
		t.Fatalf("Merge() returned %d positions, want %d", len(merged), len(snap.Positions))
	}
	for _, want := range snap.Positions {
		got := find(t, merged, want.Symbol)
		if diff := cmp.Diff(want, got, cmpOpts); diff != "" {
			t.Errorf("Merge() changed %s (-want +got):\n%s", want.Symbol, diff)
		}
		if d := float64(got.PctPortfolio - want.PctPortfolio); d > 1e-6 || d < -1e-6 {
			t.Errorf("%s PctPortfolio = %v, want %v", want.Symbol, got.PctPortfolio, want.PctPortfolio)
		}
	}
}

func TestMerge_Scenario(t *testing.T) {
	snap := &Snapshot{
		Account: Account{
			NetLiquidityUSD: USD(10000),
			NetLiquidityCZK: CZK(230000),
		},
		Positions: []Position{position("AAPL", 10, USD(150))},
		Rates:     Rates{"USD": dec(23)},
	}
	sim := mustSimulation(t, "AAPL", 5, 160, "USD")

	merged := Merge(snap.Positions, []Simulation{sim}, snap.FX(DefaultConfig()), snap.Account.NetLiquidityCZK)
	if len(merged) != 1 {
		t.Fatalf("Merge() returned %d positions, want 1", len(merged))
	}
	got := merged[0]
	if !got.Quantity.Equal(Q(15)) {
		t.Errorf("Quantity = %v, want 15", got.Quantity)
	}
	if !got.MarketValue.Equal(USD(2300)) {
		t.Errorf("MarketValue = %v, want 2300", got.MarketValue.Decimal())
	}
	if !got.MarketValueCZK.Equal(CZK(52900)) {
		t.Errorf("MarketValueCZK = %v, want 52900", got.MarketValueCZK.Decimal())
	}
	if !got.PctPortfolio.Equal(23) {
		t.Errorf("PctPortfolio = %v, want 23%%", got.PctPortfolio)
	}
	if !got.Simulated {
		t.Error("Simulated = false, want true")
	}
	if got.Name != "AAPL Inc. (+Sim)" {
		t.Errorf("Name = %q, want %q", got.Name, "AAPL Inc. (+Sim)")
	}
	if !got.UnrealizedPnLCZK.Equal(snap.Positions[0].UnrealizedPnLCZK) {
		t.Errorf("UnrealizedPnLCZK = %v, want it unchanged", got.UnrealizedPnLCZK)
	}
}

func TestMerge_Additivity(t *testing.T) {
	snap := testSnapshot()
	fx := snap.FX(DefaultConfig())
	testCases := []struct {
		name   string
		sim    Simulation
		native Money // added to the SAP native value
	}{
		{"Same currency", mustSimulation(t, "SAP", 4, 110, "EUR"), EUR(440)},
		{"Sell", mustSimulation(t, "SAP", -5, 100, "EUR"), EUR(-500)},
		{"Other currency", mustSimulation(t, "SAP", 2, 125, "USD"), EUR(230)}, // 250 USD = 5750 CZK = 230 EUR
	}
	sap := find(t, snap.Positions, "SAP")
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := find(t, Merge(snap.Positions, []Simulation{tc.sim}, fx, snap.Account.NetLiquidityCZK), "SAP")
			if want := sap.Quantity.Add(tc.sim.Quantity); !got.Quantity.Equal(want) {
				t.Errorf("Quantity = %v, want %v", got.Quantity, want)
			}
			if want := sap.MarketValue.Add(tc.native); !got.MarketValue.Equal(want) {
				t.Errorf("MarketValue = %v %s, want %v", got.MarketValue.Decimal(), got.MarketValue.Currency(), want.Decimal())
			}
			if want := sap.MarketValueCZK.Add(fx.ToCZK(tc.sim.Notional())); !got.MarketValueCZK.Equal(want) {
				t.Errorf("MarketValueCZK = %v, want %v", got.MarketValueCZK.Decimal(), want.Decimal())
			}
			if want := sap.CostBasisCZK.Add(fx.ToCZK(tc.sim.Notional())); !got.CostBasisCZK.Equal(want) {
				t.Errorf("CostBasisCZK = %v, want %v", got.CostBasisCZK.Decimal(), want.Decimal())
			}
		})
	}
}

func TestMerge_Ghost(t *testing.T) {
	snap := testSnapshot()
	fx := snap.FX(DefaultConfig())
	sim, err := NewSimulation("MSFT", 2, 300, "USD", "Microsoft")
	if err != nil {
		t.Fatalf("NewSimulation() error = %v", err)
	}

	merged := Merge(snap.Positions, []Simulation{sim}, fx, snap.Account.NetLiquidityCZK)
	if len(merged) != len(snap.Positions)+1 {
		t.Fatalf("Merge() returned %d positions, want %d", len(merged), len(snap.Positions)+1)
	}
	got := find(t, merged, "MSFT")
	if !got.Simulated {
		t.Error("Simulated = false, want true")
	}
	if got.Excluded {
		t.Error("Excluded = true, want false")
	}
	if !got.CostBasisCZK.Equal(got.MarketValueCZK) {
		t.Errorf("CostBasisCZK = %v, want MarketValueCZK %v", got.CostBasisCZK, got.MarketValueCZK)
	}
	if !got.MarketValueCZK.Equal(CZK(13800)) {
		t.Errorf("MarketValueCZK = %v, want 13800", got.MarketValueCZK.Decimal())
	}
	if !got.UnrealizedPnL.IsZero() || !got.UnrealizedPnLCZK.IsZero() {
		t.Errorf("unrealized P&L = %v, %v, want zero", got.UnrealizedPnL, got.UnrealizedPnLCZK)
	}
	if got.Name != "Microsoft (Sim)" {
		t.Errorf("Name = %q, want %q", got.Name, "Microsoft (Sim)")
	}
	if got.Instruction != Hold || got.PriceSource != PriceSourceSimulation {
		t.Errorf("Instruction, PriceSource = %q, %q, want %q, %q", got.Instruction, got.PriceSource, Hold, PriceSourceSimulation)
	}
}

func TestMerge_QualifiedOnce(t *testing.T) {
	snap := testSnapshot()
	fx := snap.FX(DefaultConfig())
	sims := []Simulation{
		mustSimulation(t, "AAPL", 1, 150, "USD"),
		mustSimulation(t, "AAPL", 1, 150, "USD"),
		mustSimulation(t, "MSFT", 1, 300, "USD"),
		mustSimulation(t, "MSFT", 1, 300, "USD"),
	}
	merged := Merge(snap.Positions, sims, fx, snap.Account.NetLiquidityCZK)
	if got := find(t, merged, "AAPL").Name; got != "AAPL Inc. (+Sim)" {
		t.Errorf("AAPL Name = %q", got)
	}
	msft := find(t, merged, "MSFT")
	if msft.Name != "MSFT (Sim)" {
		t.Errorf("MSFT Name = %q", msft.Name)
	}
	if !msft.Quantity.Equal(Q(2)) {
		t.Errorf("MSFT Quantity = %v, want 2", msft.Quantity)
	}
}

func TestMerge_Order(t *testing.T) {
	snap := testSnapshot()
	fx := snap.FX(DefaultConfig())
	sims := []Simulation{
		mustSimulation(t, "MSFT", 100, 300, "USD"),
		mustSimulation(t, "ZZZ", 1, 150, "USD"),
		mustSimulation(t, "AAA", 1, 150, "USD"),
	}
	merged := Merge(snap.Positions, sims, fx, snap.Account.NetLiquidityCZK)
	var got []string
	for _, p := range merged {
		got = append(got, p.Symbol)
	}
	want := []string{"MSFT", "SAP", "AAPL", "AAA", "ZZZ"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() order mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_OrderIndependent(t *testing.T) {
	snap := testSnapshot()
	fx := snap.FX(DefaultConfig())
	a := mustSimulation(t, "SAP", 3, 99, "EUR")
	b := mustSimulation(t, "SAP", 2, 101, "USD")
	c := mustSimulation(t, "NVDA", 7, 120, "USD")

	ab := Merge(snap.Positions, []Simulation{a, b, c}, fx, snap.Account.NetLiquidityCZK)
	ba := Merge(snap.Positions, []Simulation{c, b, a}, fx, snap.Account.NetLiquidityCZK)
	if diff := cmp.Diff(ab, ba, cmpOpts); diff != "" {
		t.Errorf("Merge() depends on the ledger order (-abc +cba):\n%s", diff)
	}
}

func TestMerge_RemovalReverts(t *testing.T) {
	snap := testSnapshot()
	fx := snap.FX(DefaultConfig())
	l := NewLedger()
	if err := l.Add(mustSimulation(t, "AAPL", 3, 140, "USD")); err != nil {
		t.Fatal(err)
	}
	before := Merge(snap.Positions, l.Simulations(), fx, snap.Account.NetLiquidityCZK)

	sim := mustSimulation(t, "SAP", 10, 90, "EUR")
	if err := l.Add(sim); err != nil {
		t.Fatal(err)
	}
	l.Remove(sim.ID)
	after := Merge(snap.Positions, l.Simulations(), fx, snap.Account.NetLiquidityCZK)

	if diff := cmp.Diff(before, after, cmpOpts); diff != "" {
		t.Errorf("removing a simulation did not revert the merge (-before +after):\n%s", diff)
	}
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	snap := testSnapshot()
	original := slices.Clone(snap.Positions)
	Merge(snap.Positions, []Simulation{mustSimulation(t, "AAPL", 3, 140, "USD")}, snap.FX(DefaultConfig()), snap.Account.NetLiquidityCZK)
	if diff := cmp.Diff(original, snap.Positions, cmpOpts); diff != "" {
		t.Errorf("Merge() modified the positions (-want +got):\n%s", diff)
	}
}

func TestMerge_ZeroNetLiquidity(t *testing.T) {
	snap := testSnapshot()
	merged := Merge(snap.Positions, nil, snap.FX(DefaultConfig()), CZK(0))
	for _, p := range merged {
		if p.PctPortfolio != 0 {
			t.Errorf("%s PctPortfolio = %v, want 0", p.Symbol, p.PctPortfolio)
		}
	}
}
