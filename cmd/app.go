// Package cmd implements the CLI application of the portfolio dashboard.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pdash"
	"github.com/etnz/pdash/backend"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands is the list of the application's subcommands.
var Commands = []subcommands.Command{
	&showCmd{},
	&quoteCmd{},
	&serveCmd{},
	&AssistCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&showCmd{}, "dashboard")
	c.Register(&quoteCmd{}, "dashboard")
	c.Register(&serveCmd{}, "server")
	c.Register(&AssistCmd{}, "assistant")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var backendURL = flag.String("backend", "", "Backend base URL, overrides "+EnvBackendURL)
var snapshotFile = flag.String("snapshot-file", "", "Read the account snapshot from this JSON file instead of the backend, overrides "+EnvSnapshotFile)
var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides "+EnvLogLevel)

// loadConfig reads the configuration and applies the global flags on top.
func loadConfig() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if *backendURL != "" {
		cfg.BackendURL = *backendURL
	}
	if *snapshotFile != "" {
		cfg.SnapshotFile = *snapshotFile
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	return cfg, cfg.Validate()
}

// setup loads the configuration and creates the logger, it reports errors on
// stderr.
func setup() (*Config, zerolog.Logger, bool) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return nil, zerolog.Nop(), false
	}
	return cfg, NewLogger(LoggerConfig{Level: cfg.LogLevel, Pretty: cfg.LogPretty}), true
}

// openSource returns the snapshot file if one is configured, the backend
// otherwise.
func openSource(cfg *Config) (backend.Source, error) {
	if cfg.SnapshotFile != "" {
		return backend.NewFile(cfg.SnapshotFile, cfg.Engine()), nil
	}
	return openBackend(cfg)
}

func openBackend(cfg *Config) (*backend.Client, error) {
	return backend.NewClient(cfg.BackendURL, cfg.Engine(), nil)
}

// loadEngine returns an engine holding the current snapshot.
func loadEngine(ctx context.Context, cfg *Config, log zerolog.Logger) (*pdash.Engine, error) {
	src, err := openSource(cfg)
	if err != nil {
		return nil, err
	}
	snap, err := src.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	e := pdash.NewEngine(cfg.Engine(), log)
	e.Update(snap)
	return e, nil
}
