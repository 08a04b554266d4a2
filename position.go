package pdash

import "github.com/shopspring/decimal"

// Instructions derived from the buy and sell zones of a position.
const (
	Hold = "Hold"
	Buy  = "Buy"
	Sell = "Sell"
)

// Plan holds the user-editable planning metadata of a position. Zero values
// mean "not set".
type Plan struct {
	TargetPrice decimal.Decimal
	BuyZone     decimal.Decimal
	SellZone    decimal.Decimal
	RiskScore   int
	Notes       string
}

// Position is a holding of a single symbol, valued in its own currency, in
// USD and in CZK.
type Position struct {
	Symbol   string
	Name     string
	Currency string
	Quantity Quantity
	Price    Money // current price, in Currency

	MarketValue    Money // Quantity * Price, in Currency
	MarketValueUSD Money
	MarketValueCZK Money

	CostBasisCZK     Money
	UnrealizedPnL    Money // in Currency
	UnrealizedPnLCZK Money
	PctPortfolio     Percent

	Plan        Plan
	Instruction string
	PctToBuy    Percent
	PctToSell   Percent

	Excluded    bool
	Simulated   bool
	PriceSource string
}

// DisplayName returns the name of the position, or its symbol when unnamed.
func (p Position) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Symbol
}

// Instruct compares price to the buy and sell zones of plan. It returns Buy
// when the price is at or below the buy zone, Sell when it is at or above the
// sell zone and Hold otherwise, along with the distance to each zone as a
// percentage of the price.
func Instruct(price decimal.Decimal, plan Plan) (instruction string, toBuy, toSell Percent) {
	instruction = Hold
	if !price.IsPositive() {
		return
	}
	if plan.BuyZone.IsPositive() {
		toBuy = percentOf(price.Sub(plan.BuyZone), price)
		if price.LessThanOrEqual(plan.BuyZone) {
			instruction = Buy
		}
	}
	if plan.SellZone.IsPositive() {
		toSell = percentOf(plan.SellZone.Sub(price), price)
		if price.GreaterThanOrEqual(plan.SellZone) {
			instruction = Sell
		}
	}
	return
}
