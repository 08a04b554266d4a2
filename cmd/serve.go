package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/pdash"
	"github.com/etnz/pdash/backend"
	"github.com/etnz/pdash/server"
	"github.com/google/subcommands"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr    string
	refresh time.Duration
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the live dashboard over HTTP" }
func (*serveCmd) Usage() string {
	return `pdash serve [-addr <host:port>] [-refresh <duration>]

  Serves the dashboard as JSON and markdown, accepts simulated trades and
  streams every recomputed view over a websocket. The snapshot is pulled from
  the backend on start and then on every refresh interval.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address, overrides "+EnvAddr)
	f.DurationVar(&c.refresh, "refresh", 0, "snapshot refresh interval, overrides "+EnvRefresh)
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	if c.addr != "" {
		cfg.Addr = c.addr
	}
	if c.refresh > 0 {
		cfg.Refresh = c.refresh
	}

	src, err := openSource(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening snapshot source: %v\n", err)
		return subcommands.ExitFailure
	}
	var quotes server.QuoteSource
	if client, ok := src.(*backend.Client); ok {
		quotes = client
	}

	engine := pdash.NewEngine(cfg.Engine(), log)
	refresher := backend.NewRefresher(src, engine, cfg.Refresh, log)
	if err := refresher.RunNow(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial snapshot failed, serving an empty dashboard until the next refresh")
	}
	if err := refresher.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting refresher: %v\n", err)
		return subcommands.ExitFailure
	}
	defer refresher.Stop()

	srv := server.New(server.Config{
		Addr:    cfg.Addr,
		Log:     log,
		Engine:  engine,
		Quotes:  quotes,
		Refresh: refresher.RunNow,
		DevMode: cfg.DevMode,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return subcommands.ExitFailure
		}
	}
	log.Info().Msg("Server exited")
	return subcommands.ExitSuccess
}
