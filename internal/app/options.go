package app

import (
	"log/slog"
	"time"

	"github.com/thenoetrevino/kanban/internal/coordinator"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	logger    *slog.Logger
	timeout   time.Duration
	observers []func(coordinator.Report)
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithTimeout bounds each remote call made by the coordinator
func WithTimeout(d time.Duration) Option {
	return func(cfg *appConfig) {
		cfg.timeout = d
	}
}

// WithObserver receives every mutation state change
func WithObserver(fn func(coordinator.Report)) Option {
	return func(cfg *appConfig) {
		cfg.observers = append(cfg.observers, fn)
	}
}
