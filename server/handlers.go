package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/etnz/pdash"
	"github.com/etnz/pdash/backend"
	"github.com/etnz/pdash/renderer"
	"github.com/go-chi/chi/v5"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if s.engine.Snapshot() == nil {
		status = "waiting"
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      status,
		"service":     "pdash",
		"simulations": len(s.engine.Simulations()),
	})
}

// handleDashboard returns the current view.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.View())
}

// handleDashboardMarkdown returns the current view as a markdown document.
func (s *Server) handleDashboardMarkdown(w http.ResponseWriter, r *http.Request) {
	opts := renderer.DashboardRenderOptions{SkipSimulations: r.URL.Query().Get("simulations") == "false"}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(renderer.RenderDashboard(renderer.NewDashboard("Portfolio", s.engine.View()), opts)))
}

// handleRefresh pulls a new snapshot and returns the recomputed view.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.refresh == nil {
		s.writeError(w, http.StatusNotImplemented, "no backend configured")
		return
	}
	if err := s.refresh(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("Refresh failed")
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.View())
}

// simulationRequest is the body of a new simulation.
type simulationRequest struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

func (s *Server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	sims := s.engine.Simulations()
	if sims == nil {
		sims = []pdash.Simulation{}
	}
	s.writeJSON(w, http.StatusOK, sims)
}

func (s *Server) handleAddSimulation(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid simulation: "+err.Error())
		return
	}
	sim, err := pdash.NewSimulation(req.Symbol, req.Quantity, req.Price, req.Currency, req.Name)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.engine.AddSimulation(sim); err != nil {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.log.Info().Str("id", sim.ID).Str("symbol", sim.Symbol).Msg("Simulation added")
	s.writeJSON(w, http.StatusCreated, sim)
}

func (s *Server) handleRemoveSimulation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.RemoveSimulation(id); err != nil {
		if errors.Is(err, pdash.ErrUnknownSimulation) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info().Str("id", id).Msg("Simulation removed")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearSimulations(w http.ResponseWriter, r *http.Request) {
	s.engine.ClearSimulations()
	w.WriteHeader(http.StatusNoContent)
}

// quoteResponse is a quote and the size of a position worth alloc percent of
// the net liquidity.
type quoteResponse struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Currency   string  `json:"currency"`
	Price      float64 `json:"price"`
	Quantity   float64 `json:"quantity"`
	Allocation float64 `json:"allocation"`
	Cost       float64 `json:"cost"`
}

// handleQuote returns the price of a symbol, and with an alloc parameter, the
// whole number of shares buying that percent of the net liquidity.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if s.quotes == nil {
		s.writeError(w, http.StatusNotImplemented, "no backend configured")
		return
	}
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "missing symbol")
		return
	}
	var alloc float64
	if v := r.URL.Query().Get("alloc"); v != "" {
		var err error
		if alloc, err = strconv.ParseFloat(v, 64); err != nil || alloc < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid alloc "+strconv.Quote(v))
			return
		}
	}

	q, err := s.quotes.Quote(r.Context(), symbol)
	if errors.Is(err, backend.ErrQuoteNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	price := pdash.M(q.Price, q.Currency)
	netLiq := s.engine.View().KPI.NetLiquidityUSD
	fx := s.engine.FX()
	qty := pdash.QuantityForAllocation(fx, netLiq, pdash.Percent(alloc), price)
	s.writeJSON(w, http.StatusOK, quoteResponse{
		Symbol:     q.Symbol,
		Name:       q.Name,
		Currency:   q.Currency,
		Price:      q.Price,
		Quantity:   qty.Float64(),
		Allocation: float64(pdash.Allocation(fx, netLiq, qty, price)),
		Cost:       price.Mul(qty).Float64(),
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
