package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/etnz/pdash"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Environment variables read by LoadConfig.
const (
	EnvBackendURL      = "PDASH_BACKEND_URL"
	EnvSnapshotFile    = "PDASH_SNAPSHOT_FILE"
	EnvAddr            = "PDASH_ADDR"
	EnvRefresh         = "PDASH_REFRESH"
	EnvLogLevel        = "PDASH_LOG_LEVEL"
	EnvLogPretty       = "PDASH_LOG_PRETTY"
	EnvFallbackUSDRate = "PDASH_FALLBACK_USD_RATE"
	EnvDevMode         = "PDASH_DEV_MODE"
)

// Config holds application configuration
type Config struct {
	BackendURL      string
	SnapshotFile    string
	Addr            string
	Refresh         time.Duration
	LogLevel        string
	LogPretty       bool
	FallbackUSDRate decimal.Decimal
	DevMode         bool
}

// LoadConfig reads configuration from environment variables, and from a .env
// file in the working directory if there is one.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	defaults := pdash.DefaultConfig()
	cfg := &Config{
		BackendURL:      getEnv(EnvBackendURL, "http://localhost:8000"),
		SnapshotFile:    getEnv(EnvSnapshotFile, ""),
		Addr:            getEnv(EnvAddr, ":8080"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		LogPretty:       getEnvAsBool(EnvLogPretty, true),
		DevMode:         getEnvAsBool(EnvDevMode, false),
		FallbackUSDRate: defaults.FallbackUSDRate,
		Refresh:         60 * time.Second,
	}

	if v := os.Getenv(EnvRefresh); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvRefresh, v, err)
		}
		cfg.Refresh = d
	}
	if v := os.Getenv(EnvFallbackUSDRate); v != "" {
		r, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvFallbackUSDRate, v, err)
		}
		cfg.FallbackUSDRate = r
	}
	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.BackendURL == "" && c.SnapshotFile == "" {
		return fmt.Errorf("%s or %s is required", EnvBackendURL, EnvSnapshotFile)
	}
	if c.Refresh <= 0 {
		return fmt.Errorf("%s must be positive, got %v", EnvRefresh, c.Refresh)
	}
	if !c.FallbackUSDRate.IsPositive() {
		return fmt.Errorf("%s must be positive, got %v", EnvFallbackUSDRate, c.FallbackUSDRate)
	}
	return nil
}

// Engine returns the engine configuration.
func (c *Config) Engine() pdash.Config {
	cfg := pdash.DefaultConfig()
	cfg.FallbackUSDRate = c.FallbackUSDRate
	return cfg
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
