package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/thenoetrevino/kanban/internal/cache"
	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/server"
)

// Backend holds the server side: database, optional cache, event broker
// and the HTTP server on top of them
type Backend struct {
	Server *server.Server
	Broker *events.Broker
	Store  database.DataStore

	db    *sql.DB
	redis *redis.Client
}

// NewBackend opens the database and, when configured, the Redis cache
func NewBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := database.InitDB(ctx, cfg.Server.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	b := &Backend{db: db, Broker: events.NewBroker()}
	var store database.DataStore = database.NewRepository(db)

	if cfg.Server.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.Server.RedisURL)
		if err != nil {
			// the cache is optional; serve straight from the database
			logger.Warn("redis unavailable, listing cache disabled", "error", err)
		} else {
			b.redis = client
			store = cache.New(store, client, cfg.Server.CacheTTL)
			logger.Info("listing cache enabled", "ttl", cfg.Server.CacheTTL)
		}
	}

	b.Store = store
	b.Server = server.New(store, b.Broker, logger)
	return b, nil
}

// Run serves until ctx is cancelled
func (b *Backend) Run(ctx context.Context, addr string) error {
	return b.Server.Run(ctx, addr)
}

// Close releases the broker, cache connection and database
func (b *Backend) Close() error {
	b.Broker.Close()
	var errs []error
	if b.redis != nil {
		errs = append(errs, b.redis.Close())
	}
	errs = append(errs, b.db.Close())
	return errors.Join(errs...)
}
