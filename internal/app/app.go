package app

import (
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/kanban/internal/board"
	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/coordinator"
	"github.com/thenoetrevino/kanban/internal/gateway"
	"github.com/thenoetrevino/kanban/internal/transition"
)

// App holds the client side of the board and provides dependency injection.
// The coordinator is the only writer of the store.
type App struct {
	// Remote store access
	Gateway gateway.Gateway

	// Local board state
	Store *board.Store

	// Transition rules shared by the coordinator and callers
	Validator *transition.Validator

	// Optimistic updates
	Coordinator *coordinator.Coordinator

	logger *slog.Logger
}

// New creates an App talking to the board server configured in cfg.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	gw, err := gateway.NewHTTP(cfg.Client.APIURL, gateway.WithTimeout(cfg.Client.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway: %w", err)
	}
	opts = append([]Option{WithTimeout(cfg.Client.Timeout)}, opts...)
	return NewWithGateway(gw, opts...), nil
}

// NewWithGateway creates an App over any Gateway implementation.
// This is the single entry point tests use.
func NewWithGateway(gw gateway.Gateway, opts ...Option) *App {
	cfg := &appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	validator := transition.Default()
	store := board.New()

	coordOpts := []coordinator.Option{
		coordinator.WithValidator(validator),
		coordinator.WithLogger(cfg.logger),
		coordinator.WithTimeout(cfg.timeout),
	}
	for _, obs := range cfg.observers {
		coordOpts = append(coordOpts, coordinator.WithObserver(obs))
	}

	return &App{
		Gateway:     gw,
		Store:       store,
		Validator:   validator,
		Coordinator: coordinator.New(store, gw, coordOpts...),
		logger:      cfg.logger,
	}
}

// Close performs cleanup of application resources.
// Pending mutations are abandoned; callers wait on them first.
func (a *App) Close() error {
	if n := a.Coordinator.Pending(); n > 0 {
		a.logger.Warn("closing with mutations still pending", "count", n)
	}
	return nil
}
