// Package config handles application configuration and setup
package config

import (
	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/mnafees/chopper/v2/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// MachineOptions converts the command line options into machine options.
// The frontend surfaces are attached by the caller.
func MachineOptions(opts options.Program, logger *log.Logger) vm.Options {
	return vm.Options{
		Logger:       logger,
		ClockHz:      opts.Clock,
		TimerDivisor: opts.TimerDivisor,
		MaxCycles:    opts.MaxCycles,
		Seed:         opts.Seed,
		Trace:        opts.Trace,
	}
}
