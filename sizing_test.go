package pdash

import "testing"

func TestQuantityForAllocation(t *testing.T) {
	fx := NewFX(testRates(), DefaultConfig())
	testCases := []struct {
		name   string
		netLiq Money
		pct    Percent
		price  Money
		want   float64
	}{
		{"USD price", USD(10000), 10, USD(150), 6},
		{"Exact", USD(10000), 15, USD(150), 10},
		{"EUR price", USD(10000), 50, EUR(100), 46}, // 5000 USD = 4600 EUR
		{"CZK price", USD(1000), 10, CZK(23), 100},
		{"Budget below one share", USD(1000), 1, USD(150), 0},
		{"Zero price", USD(1000), 10, USD(0), 0},
		{"Zero net liquidity", USD(0), 10, USD(10), 0},
		{"Negative net liquidity", USD(-1000), 10, USD(10), 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := QuantityForAllocation(fx, tc.netLiq, tc.pct, tc.price)
			if !got.Equal(Q(tc.want)) {
				t.Errorf("QuantityForAllocation(%v, %v, %v) = %v, want %v", tc.netLiq, tc.pct, tc.price, got, tc.want)
			}
		})
	}
}

func TestAllocation(t *testing.T) {
	fx := NewFX(testRates(), DefaultConfig())
	testCases := []struct {
		name     string
		netLiq   Money
		quantity float64
		price    Money
		want     Percent
	}{
		{"USD", USD(10000), 10, USD(150), 15},
		{"EUR", USD(10000), 46, EUR(100), 50},
		{"Sell", USD(10000), -10, USD(150), -15},
		{"Zero net liquidity", USD(0), 10, USD(150), 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Allocation(fx, tc.netLiq, Q(tc.quantity), tc.price)
			if !got.Equal(tc.want) {
				t.Errorf("Allocation() = %v, want %v", got, tc.want)
			}
		})
	}
}
