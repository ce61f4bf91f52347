package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/kanban/internal/app"
	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/logging"
)

func main() {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Under a service manager stderr is the log
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		slog.Error("invalid log level", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(os.Stderr, level)

	backend, err := app.NewBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start board server", "error", err)
		os.Exit(1)
	}

	logger.Info("kanband starting", "addr", cfg.Server.ListenAddr, "db", cfg.Server.DBPath, "pid", os.Getpid())

	runErr := backend.Run(ctx, cfg.Server.ListenAddr)
	if err := backend.Close(); err != nil {
		logger.Error("failed to close backend", "error", err)
	}
	if runErr != nil {
		logger.Error("board server error", "error", runErr)
		os.Exit(1)
	}

	logger.Info("kanband shut down gracefully")
}
