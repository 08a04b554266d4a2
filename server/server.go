// Package server exposes the dashboard engine over HTTP: the computed view,
// the simulation ledger and a websocket stream of recomputed views.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/etnz/pdash"
	"github.com/etnz/pdash/backend"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// QuoteSource provides live quotes, *backend.Client implements it.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (backend.Quote, error)
}

// Config holds server configuration
type Config struct {
	Addr    string
	Log     zerolog.Logger
	Engine  *pdash.Engine
	Quotes  QuoteSource                     // optional
	Refresh func(ctx context.Context) error // optional, pulls a new snapshot
	DevMode bool
}

// Server represents the HTTP server
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	engine  *pdash.Engine
	quotes  QuoteSource
	refresh func(ctx context.Context) error
	devMode bool
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		log:     cfg.Log.With().Str("component", "server").Logger(),
		engine:  cfg.Engine,
		quotes:  cfg.Quotes,
		refresh: cfg.Refresh,
		devMode: cfg.DevMode,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// the stream is long lived, it is not subject to the request timeout
		r.Get("/stream", s.handleStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/dashboard", s.handleDashboard)
			r.Get("/dashboard.md", s.handleDashboardMarkdown)
			r.Get("/quote", s.handleQuote)
			r.Post("/refresh", s.handleRefresh)

			r.Route("/simulations", func(r chi.Router) {
				r.Get("/", s.handleListSimulations)
				r.Post("/", s.handleAddSimulation)
				r.Delete("/", s.handleClearSimulations)
				r.Delete("/{id}", s.handleRemoveSimulation)
			})
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
