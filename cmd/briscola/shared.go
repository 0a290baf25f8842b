package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/briscola/internal/config"
	"github.com/lox/briscola/internal/randutil"
	"github.com/muesli/termenv"
)

// loadConfig reads the configuration file and applies global flags
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return cfg, nil
}

// setupLogger creates the logger described by the configuration. When
// toFile is set and no file is configured, logs go to briscola.log so they
// do not corrupt a full-screen UI. The returned closer releases the file.
func setupLogger(settings *config.LogSettings, toFile bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(settings.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var out io.Writer = os.Stderr
	closer := func() {}
	filename := settings.File
	if filename == "" && toFile {
		filename = "briscola.log"
	}
	if filename != "" {
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closer = func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
			}
		}
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	return logger, closer, nil
}

// signalContext returns a context cancelled on interrupt signals
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// resolveSeed picks the seed from the flag, then the configuration, then
// the clock
func resolveSeed(flag *int64, cfg *config.Config, clock quartz.Clock) int64 {
	switch {
	case flag != nil:
		return *flag
	case cfg.Game.Seed != nil:
		return *cfg.Game.Seed
	default:
		return randutil.SeedFromClock(clock)
	}
}
