package pdash

import "github.com/shopspring/decimal"

// QuantityForAllocation returns the whole number of shares at price that
// spends pct percent of netLiquidityUSD. It returns zero when the price or
// the net liquidity is not positive.
func QuantityForAllocation(fx *FX, netLiquidityUSD Money, pct Percent, price Money) Quantity {
	if !price.IsPositive() || !netLiquidityUSD.IsPositive() {
		return Q(0)
	}
	budget := netLiquidityUSD.Scale(decimal.NewFromFloat(float64(pct)).Div(hundred))
	native := fx.Convert(budget.In("USD"), price.Currency())
	return native.DivPrice(price).Floor()
}

// Allocation returns the share of netLiquidityUSD, in percent, that buying
// quantity shares at price represents.
func Allocation(fx *FX, netLiquidityUSD Money, quantity Quantity, price Money) Percent {
	if !netLiquidityUSD.IsPositive() {
		return 0
	}
	usd := fx.ToUSD(price.Mul(quantity))
	return percentOf(usd.value, netLiquidityUSD.value)
}
