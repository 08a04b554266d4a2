package pdash

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// View is the derived state of the dashboard: the merged positions and the
// KPIs for one snapshot and one set of simulations.
type View struct {
	Positions   []Position
	KPI         KPI
	Simulations []Simulation
	// FallbackCurrencies lists the currencies valued through the FX fallback
	// chain rather than their own rate.
	FallbackCurrencies []string
	Empty              bool
}

// Compute derives the view of snap with sims applied. It is a pure function
// of its inputs, snap may be nil.
func Compute(snap *Snapshot, sims []Simulation, cfg Config) *View {
	fx := snap.FX(cfg)
	var positions []Position
	var netLiqCZK Money
	var currencies []string
	empty := true
	if snap != nil {
		positions = snap.Positions
		netLiqCZK = snap.Account.NetLiquidityCZK
		if netLiqCZK.IsZero() {
			netLiqCZK = fx.ToCZK(M(snap.Account.NetLiquidityUSD.value, "USD"))
		}
		currencies = snap.Currencies()
		empty = snap.Empty
	}
	for _, s := range sims {
		currencies = append(currencies, s.Currency())
	}

	merged := Merge(positions, sims, fx, netLiqCZK)
	return &View{
		Positions:          merged,
		KPI:                Aggregate(snap, merged, sims, fx, cfg),
		Simulations:        sims,
		FallbackCurrencies: fx.Fallbacks(currencies...),
		Empty:              empty,
	}
}

// Engine keeps the inputs of the dashboard, the latest snapshot and the
// session's simulation ledger, and recomputes the View on every change.
//
// Every change is applied and recomputed atomically, and subscribers are
// notified in the order changes were made. Subscribers may read the engine
// but must not modify it.
type Engine struct {
	cfg Config
	log zerolog.Logger

	pub sync.Mutex // serializes changes and their notifications

	mu     sync.RWMutex
	snap   *Snapshot
	ledger *Ledger
	view   *View
	subs   map[int]func(*View)
	nextID int
}

// NewEngine returns an engine with no snapshot and an empty ledger.
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	e := &Engine{
		cfg:    cfg,
		log:    log.With().Str("component", "engine").Logger(),
		ledger: NewLedger(),
		subs:   make(map[int]func(*View)),
	}
	e.view = Compute(nil, nil, cfg)
	return e
}

// View returns the latest computed view.
func (e *Engine) View() *View {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view
}

// Snapshot returns the snapshot the view was computed from, nil before the
// first Update.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// FX returns the normalizer over the current snapshot's rates.
func (e *Engine) FX() *FX {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.FX(e.cfg)
}

// Simulations returns the current ledger content.
func (e *Engine) Simulations() []Simulation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.Simulations()
}

// Subscribe registers fn to receive every new view. The returned function
// cancels the subscription.
func (e *Engine) Subscribe(fn func(*View)) (cancel func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Update replaces the snapshot.
func (e *Engine) Update(snap *Snapshot) {
	e.change(func() error {
		e.snap = snap
		return nil
	})
}

// AddSimulation appends s to the ledger.
func (e *Engine) AddSimulation(s Simulation) error {
	return e.change(func() error { return e.ledger.Add(s) })
}

// RemoveSimulation removes the simulation id from the ledger.
func (e *Engine) RemoveSimulation(id string) error {
	return e.change(func() error {
		if !e.ledger.Remove(id) {
			return fmt.Errorf("%w: %s", ErrUnknownSimulation, id)
		}
		return nil
	})
}

// ReplaceSimulation replaces the simulation id by s.
func (e *Engine) ReplaceSimulation(id string, s Simulation) error {
	return e.change(func() error { return e.ledger.Replace(id, s) })
}

// ClearSimulations empties the ledger.
func (e *Engine) ClearSimulations() {
	e.change(func() error {
		e.ledger.Clear()
		return nil
	})
}

// change applies apply, recomputes the view and notifies subscribers. Nothing
// is recomputed if apply fails.
func (e *Engine) change(apply func() error) error {
	e.pub.Lock()
	defer e.pub.Unlock()

	e.mu.Lock()
	if err := apply(); err != nil {
		e.mu.Unlock()
		return err
	}
	view := Compute(e.snap, e.ledger.Simulations(), e.cfg)
	e.view = view
	subs := make([]func(*View), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()

	e.log.Debug().
		Int("positions", len(view.Positions)).
		Int("simulations", len(view.Simulations)).
		Str("leverage", view.KPI.ProjectedLeverage.StringFixed(2)).
		Msg("view recomputed")
	if len(view.FallbackCurrencies) > 0 {
		e.log.Warn().Strs("currencies", view.FallbackCurrencies).Msg("no FX rate, valued with the fallback rate")
	}

	for _, fn := range subs {
		fn(view)
	}
	return nil
}
