package pdash

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func decodeFile(t *testing.T, name string) *Snapshot {
	t.Helper()
	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	s, err := DecodeSnapshot(f, DefaultConfig())
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	return s
}

func TestDecodeSnapshot(t *testing.T) {
	s := decodeFile(t, "testdata/snapshot.json")

	if s.Empty {
		t.Error("Empty = true, want false")
	}
	if !s.Account.NetLiquidityUSD.Equal(USD(10000)) {
		t.Errorf("NetLiquidityUSD = %v", s.Account.NetLiquidityUSD)
	}
	if !s.Account.Leverage.Equal(dec(0.3674)) {
		t.Errorf("Leverage = %v, want 0.3674", s.Account.Leverage)
	}
	if got := s.FX(DefaultConfig()).RateToCZK("EUR"); !got.Equal(dec(25)) {
		t.Errorf("EUR rate = %v, want 25", got)
	}
	if len(s.Positions) != 2 {
		t.Fatalf("len(Positions) = %d, want 2", len(s.Positions))
	}

	t.Run("Instruction from zones", func(t *testing.T) {
		aapl := s.Positions[0]
		if aapl.Instruction != Sell {
			t.Errorf("AAPL Instruction = %q, want %q", aapl.Instruction, Sell)
		}
		if aapl.Plan.RiskScore != 3 {
			t.Errorf("AAPL RiskScore = %d, want 3", aapl.Plan.RiskScore)
		}
		if aapl.PriceSource != "Live" {
			t.Errorf("AAPL PriceSource = %q, want Live", aapl.PriceSource)
		}
	})

	t.Run("Reported instruction and derived price", func(t *testing.T) {
		sap := s.Positions[1]
		if sap.Instruction != Buy {
			t.Errorf("SAP Instruction = %q, want %q", sap.Instruction, Buy)
		}
		if !sap.Price.Equal(EUR(100)) {
			t.Errorf("SAP Price = %v, want 100 EUR", sap.Price)
		}
		if !sap.Excluded {
			t.Error("SAP Excluded = false, want true")
		}
		if !sap.MarketValue.Equal(EUR(2000)) {
			t.Errorf("SAP MarketValue = %v, want 2000 EUR", sap.MarketValue)
		}
	})

	t.Run("Margin interest", func(t *testing.T) {
		eur := s.Account.CashBalances[1]
		if !eur.EffectiveRate.Equal(4.88) {
			t.Errorf("EUR EffectiveRate = %v, want 4.88%%", eur.EffectiveRate)
		}
		if !eur.DailyInterest.IsPositive() || eur.DailyInterest.Currency() != "EUR" {
			t.Errorf("EUR DailyInterest = %v %s, want a positive EUR amount", eur.DailyInterest.Decimal(), eur.DailyInterest.Currency())
		}
		if usd := s.Account.CashBalances[0]; !usd.DailyInterest.IsZero() {
			t.Errorf("USD DailyInterest = %v, want zero on a positive balance", usd.DailyInterest)
		}
	})
}

func TestDecodeSnapshot_Empty(t *testing.T) {
	s, err := DecodeSnapshot(strings.NewReader(`{"status": "empty", "kpi": {}, "positions": []}`), DefaultConfig())
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if !s.Empty {
		t.Error("Empty = false, want true")
	}
	if v := Compute(s, nil, DefaultConfig()); !v.Empty || len(v.Positions) != 0 {
		t.Errorf("Compute() = %+v, want an empty view", v)
	}
}

func TestDecodeSnapshot_Errors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{"Malformed", `{"kpi": `},
		{"Wrong type", `{"positions": {}}`},
		{"Missing symbol", `{"positions": [{"quantity": 1}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeSnapshot(strings.NewReader(tc.doc), DefaultConfig()); err == nil {
				t.Errorf("DecodeSnapshot(%s) succeeded, want an error", tc.doc)
			}
		})
	}
}

func TestView_MarshalJSON(t *testing.T) {
	snap := decodeFile(t, "testdata/snapshot.json")
	v := Compute(snap, []Simulation{mustSimulation(t, "AAPL", 5, 160, "USD")}, DefaultConfig())

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	for _, key := range []string{
		"merged_positions",
		"current_leverage",
		"projected_leverage",
		"projected_cash_usd",
		"projected_net_liquidity_usd",
		"projected_net_liquidity_czk",
		"projected_pct_invested",
		"positions_count",
		"simulations",
	} {
		if _, ok := doc[key]; !ok {
			t.Errorf("view JSON has no %q key", key)
		}
	}
	if got := doc["positions_count"]; got != 2.0 {
		t.Errorf("positions_count = %v, want 2", got)
	}

	positions, ok := doc["merged_positions"].([]any)
	if !ok || len(positions) != 2 {
		t.Fatalf("merged_positions = %v, want 2 entries", doc["merged_positions"])
	}
	aapl := positions[0].(map[string]any) // 52900 CZK, above SAP
	if aapl["symbol"] != "AAPL" || aapl["quantity"] != 15.0 || aapl["market_value_czk"] != 52900.0 {
		t.Errorf("merged AAPL = %v", aapl)
	}
	if aapl["is_simulated"] != true {
		t.Errorf("merged AAPL is_simulated = %v, want true", aapl["is_simulated"])
	}
}

func TestSimulation_MarshalJSON(t *testing.T) {
	s := mustSimulation(t, "SAP", 2, 99.5, "EUR")
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var got simulationJSON
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	want := simulationJSON{ID: s.ID, Symbol: "SAP", Quantity: 2, Price: 99.5, Currency: "EUR"}
	if got != want {
		t.Errorf("Simulation JSON = %+v, want %+v", got, want)
	}
}

