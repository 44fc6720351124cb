// Package cli provides common CLI initialization utilities shared by the
// revreport subcommands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"clinicrev/internal/config"
	applog "clinicrev/internal/log"
	"clinicrev/internal/rates"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from configuration, writing to
// stderr so stdout stays free for command output, and sets it as default.
func SetupLogger(cfg *config.Config) (*applog.Logger, error) {
	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	lc := applog.DefaultConfig()
	lc.Level = level
	lc.Format = cfg.LogFormat
	lc.Output = os.Stderr
	logger := applog.New(lc)
	applog.SetDefault(logger)
	return logger, nil
}

// LoadRates builds the effective rate table: the built-in schedules with
// the overrides file applied when one is given.
func LoadRates(overridesFile string) (*rates.Table, error) {
	def := rates.DefaultDefinition()
	if overridesFile != "" {
		overrides, err := rates.LoadOverridesFile(overridesFile)
		if err != nil {
			return nil, err
		}
		def = def.Apply(overrides)
	}
	table, err := rates.New(def)
	if err != nil {
		return nil, fmt.Errorf("build rate table: %w", err)
	}
	return table, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
