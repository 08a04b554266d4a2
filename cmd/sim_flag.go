package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/pdash"
)

// simFlags is a repeatable flag of simulated trades, written
// SYMBOL:QUANTITY@PRICE[CURRENCY], for instance "AAPL:5@160" or
// "SAP:-3@120.5EUR". The currency defaults to USD.
type simFlags []pdash.Simulation

func (s *simFlags) String() string {
	if s == nil {
		return ""
	}
	parts := make([]string, len(*s))
	for i, sim := range *s {
		parts[i] = formatSimulation(sim)
	}
	return strings.Join(parts, ",")
}

func (s *simFlags) Set(v string) error {
	sim, err := parseSimulation(v)
	if err != nil {
		return err
	}
	*s = append(*s, sim)
	return nil
}

func formatSimulation(s pdash.Simulation) string {
	return fmt.Sprintf("%s:%s@%s%s", s.Symbol, s.Quantity, s.Price.Decimal(), s.Currency())
}

// parseSimulation parses a SYMBOL:QUANTITY@PRICE[CURRENCY] trade.
func parseSimulation(v string) (pdash.Simulation, error) {
	symbol, rest, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok {
		return pdash.Simulation{}, fmt.Errorf("invalid trade %q, want SYMBOL:QUANTITY@PRICE[CURRENCY]", v)
	}
	qtyStr, priceStr, ok := strings.Cut(rest, "@")
	if !ok {
		return pdash.Simulation{}, fmt.Errorf("invalid trade %q, want SYMBOL:QUANTITY@PRICE[CURRENCY]", v)
	}
	qty, err := strconv.ParseFloat(strings.TrimSpace(qtyStr), 64)
	if err != nil {
		return pdash.Simulation{}, fmt.Errorf("invalid quantity in %q: %w", v, err)
	}

	priceStr = strings.TrimSpace(priceStr)
	i := strings.IndexFunc(priceStr, func(r rune) bool { return (r < '0' || r > '9') && r != '.' })
	currency := ""
	if i >= 0 {
		priceStr, currency = priceStr[:i], strings.TrimSpace(priceStr[i:])
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return pdash.Simulation{}, fmt.Errorf("invalid price in %q: %w", v, err)
	}
	return pdash.NewSimulation(symbol, qty, price, currency, "")
}
