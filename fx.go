package pdash

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Base is the currency every FX rate is expressed in.
const Base = "CZK"

// Rates maps a currency code to the amount of CZK one unit of it is worth.
type Rates map[string]decimal.Decimal

// RateSource tells which step of the fallback chain resolved a rate.
type RateSource int

const (
	RateIdentity    RateSource = iota // CZK itself
	RateDirect                        // the currency's own table entry
	RateUSDFallback                   // the table's USD entry
	RateDefault                       // Config.FallbackUSDRate
)

func (s RateSource) String() string {
	switch s {
	case RateIdentity:
		return "identity"
	case RateDirect:
		return "direct"
	case RateUSDFallback:
		return "usd-fallback"
	case RateDefault:
		return "default"
	}
	return "unknown"
}

// pence quotes are priced in hundredths of their parent currency.
var pence = map[string]string{
	"GBX": "GBP",
	"GBp": "GBP",
}

var centi = decimal.New(1, -2)

// FX converts amounts between currencies through CZK.
//
// Resolution never fails: a currency missing from the table is valued at the
// USD rate, and a missing USD rate falls back to Config.FallbackUSDRate. This
// keeps the engine total while the backend has not supplied a rate yet, at
// the cost of silently misvaluing that currency. Use Source to detect it.
type FX struct {
	rates    Rates
	fallback decimal.Decimal
}

// NewFX returns a normalizer over rates. The table is not copied and must not
// be modified while the FX is in use.
func NewFX(rates Rates, cfg Config) *FX {
	fallback := cfg.FallbackUSDRate
	if !fallback.IsPositive() {
		fallback = DefaultConfig().FallbackUSDRate
	}
	return &FX{rates: rates, fallback: fallback}
}

// normalize returns the canonical lookup code and the unit factor for it.
func normalize(currency string) (string, decimal.Decimal) {
	c := strings.TrimSpace(currency)
	if parent, ok := pence[c]; ok {
		return parent, centi
	}
	c = strings.ToUpper(c)
	if parent, ok := pence[c]; ok {
		return parent, centi
	}
	return c, decimal.NewFromInt(1)
}

// lookup returns a usable table entry, zero and negative rates count as absent.
func (fx *FX) lookup(code string) (decimal.Decimal, bool) {
	r, ok := fx.rates[code]
	if !ok || !r.IsPositive() {
		return decimal.Zero, false
	}
	return r, true
}

func (fx *FX) resolve(currency string) (decimal.Decimal, RateSource) {
	code, factor := normalize(currency)
	if code == Base {
		return factor, RateIdentity
	}
	if r, ok := fx.lookup(code); ok {
		return r.Mul(factor), RateDirect
	}
	if r, ok := fx.lookup("USD"); ok {
		return r.Mul(factor), RateUSDFallback
	}
	return fx.fallback.Mul(factor), RateDefault
}

// RateToCZK returns how many CZK one unit of currency is worth.
func (fx *FX) RateToCZK(currency string) decimal.Decimal {
	r, _ := fx.resolve(currency)
	return r
}

// Source reports which step of the fallback chain values currency.
func (fx *FX) Source(currency string) RateSource {
	_, s := fx.resolve(currency)
	return s
}

// Fallbacks lists, sorted, the currencies among codes that are not valued
// with their own rate.
func (fx *FX) Fallbacks(codes ...string) []string {
	var res []string
	for _, c := range codes {
		if s := fx.Source(c); s == RateUSDFallback || s == RateDefault {
			if !slices.Contains(res, c) {
				res = append(res, c)
			}
		}
	}
	slices.Sort(res)
	return res
}

// ToCZK converts m into CZK.
func (fx *FX) ToCZK(m Money) Money {
	if m.Currency() == Base {
		return m
	}
	return M(m.value.Mul(fx.RateToCZK(m.Currency())), Base)
}

// ToUSD converts m into USD.
func (fx *FX) ToUSD(m Money) Money { return fx.Convert(m, "USD") }

// Convert converts m into target by going through CZK: the amount is
// multiplied by the source rate, then divided by the target rate.
func (fx *FX) Convert(m Money, target string) Money {
	if m.Currency() == target {
		return m
	}
	czk := fx.ToCZK(m)
	if target == Base {
		return czk
	}
	return M(czk.value.Div(fx.RateToCZK(target)), target)
}
