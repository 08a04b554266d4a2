package pdash

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidSimulation   = errors.New("invalid simulation")
	ErrDuplicateSimulation = errors.New("duplicate simulation id")
	ErrUnknownSimulation   = errors.New("unknown simulation id")
)

// Simulation is a hypothetical, unexecuted trade. A positive quantity buys,
// a negative one sells.
//
// Simulations are never modified: a change is a new Simulation with a new ID
// that replaces the old one.
type Simulation struct {
	ID       string
	Symbol   string
	Name     string
	Quantity Quantity
	Price    Money // per share, in the trade currency
}

// Currency returns the currency the trade is priced in.
func (s Simulation) Currency() string { return s.Price.Currency() }

// Notional returns Price * Quantity, signed, in the trade currency.
func (s Simulation) Notional() Money { return s.Price.Mul(s.Quantity) }

// NewSimulation validates a trade entered by the user and assigns it a fresh
// ID. Every error wraps ErrInvalidSimulation.
func NewSimulation(symbol string, quantity, price float64, currency, name string) (Simulation, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Simulation{}, fmt.Errorf("%w: empty symbol", ErrInvalidSimulation)
	}
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity == 0 {
		return Simulation{}, fmt.Errorf("%w: quantity for %s must be a non-zero number, got %v", ErrInvalidSimulation, symbol, quantity)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return Simulation{}, fmt.Errorf("%w: price for %s must be a positive number, got %v", ErrInvalidSimulation, symbol, price)
	}
	currency = strings.TrimSpace(currency)
	if currency == "" {
		currency = "USD"
	}
	if _, ok := pence[currency]; !ok {
		currency = strings.ToUpper(currency)
		if _, ok := pence[currency]; !ok && !KnownCurrency(currency) {
			return Simulation{}, fmt.Errorf("%w: unknown currency %q for %s", ErrInvalidSimulation, currency, symbol)
		}
	}
	return Simulation{
		ID:       uuid.NewString(),
		Symbol:   symbol,
		Name:     strings.TrimSpace(name),
		Quantity: Q(quantity),
		Price:    M(price, currency),
	}, nil
}

// Ledger is the in-memory list of simulations of a session. It is never
// persisted: a process restart starts with an empty ledger.
//
// Ledger is not safe for concurrent use, Engine serializes access to it.
type Ledger struct {
	sims []Simulation
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.sims, func(s Simulation) bool { return s.ID == id })
}

// Add appends s to the ledger. IDs are never reused, adding an ID already in
// the ledger fails.
func (l *Ledger) Add(s Simulation) error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidSimulation)
	}
	if l.index(s.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateSimulation, s.ID)
	}
	l.sims = append(l.sims, s)
	return nil
}

// Remove deletes the simulation with the given id. It reports whether the id
// was found.
func (l *Ledger) Remove(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.sims = slices.Delete(l.sims, i, i+1)
	return true
}

// Replace swaps the simulation id for s, keeping its place in the ledger.
func (l *Ledger) Replace(id string, s Simulation) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSimulation, id)
	}
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidSimulation)
	}
	if j := l.index(s.ID); j >= 0 && j != i {
		return fmt.Errorf("%w: %s", ErrDuplicateSimulation, s.ID)
	}
	l.sims[i] = s
	return nil
}

// Get returns the simulation with the given id.
func (l *Ledger) Get(id string) (Simulation, bool) {
	i := l.index(id)
	if i < 0 {
		return Simulation{}, false
	}
	return l.sims[i], true
}

// Simulations returns a copy of the ledger, in insertion order.
func (l *Ledger) Simulations() []Simulation { return slices.Clone(l.sims) }

func (l *Ledger) Len() int { return len(l.sims) }

// Clear empties the ledger.
func (l *Ledger) Clear() { l.sims = nil }
