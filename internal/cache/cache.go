// Package cache puts a Redis read-through cache in front of the board listing
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/models"
)

const (
	boardKey = "kanban:board"
	// genKey counts evictions. A listing read from the base store is only
	// cached if no write bumped the generation while it was being read.
	genKey = "kanban:board:gen"
)

// Cache wraps a DataStore and serves ListBoard from Redis when it can.
// Every successful write evicts the cached listing.
type Cache struct {
	base  database.DataStore
	redis *redis.Client
	ttl   time.Duration
}

var _ database.DataStore = (*Cache)(nil)

// New creates a caching DataStore. A nil client disables caching.
func New(base database.DataStore, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("cache.New: base store is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

// Connect parses a redis:// URL and verifies the server answers
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (c *Cache) ListBoard(ctx context.Context) (models.Board, error) {
	if board, ok := c.loadBoard(ctx); ok {
		return board, nil
	}

	gen, fillable := c.generation(ctx)
	board, err := c.base.ListBoard(ctx)
	if err != nil {
		return models.Board{}, err
	}

	if fillable {
		c.storeBoard(ctx, board, gen)
	}
	return board, nil
}

func (c *Cache) Ping(ctx context.Context) error {
	if err := c.base.Ping(ctx); err != nil {
		return err
	}
	if c.redis == nil {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}

func (c *Cache) CreateTask(ctx context.Context, title, status string) (models.Task, error) {
	task, err := c.base.CreateTask(ctx, title, status)
	if err != nil {
		return models.Task{}, err
	}
	c.evict(ctx)
	return task, nil
}

func (c *Cache) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	task, err := c.base.UpdateTask(ctx, id, patch)
	if err != nil {
		return models.Task{}, err
	}
	c.evict(ctx)
	return task, nil
}

func (c *Cache) DeleteTask(ctx context.Context, id string) error {
	if err := c.base.DeleteTask(ctx, id); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *Cache) CreateColumn(ctx context.Context, displayTitle, color string) (models.Column, error) {
	col, err := c.base.CreateColumn(ctx, displayTitle, color)
	if err != nil {
		return models.Column{}, err
	}
	c.evict(ctx)
	return col, nil
}

func (c *Cache) DeleteColumn(ctx context.Context, id string) (int, error) {
	removed, err := c.base.DeleteColumn(ctx, id)
	if err != nil {
		return 0, err
	}
	c.evict(ctx)
	return removed, nil
}

func (c *Cache) loadBoard(ctx context.Context) (models.Board, bool) {
	if c.redis == nil {
		return models.Board{}, false
	}
	data, err := c.redis.Get(ctx, boardKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the backing store without failing.
			slog.Debug("board cache read failed", "error", err)
			_ = c.redis.Del(ctx, boardKey).Err()
		}
		return models.Board{}, false
	}
	var board models.Board
	if err := sonic.Unmarshal(data, &board); err != nil {
		slog.Warn("discarding corrupt board cache entry", "error", err)
		_ = c.redis.Del(ctx, boardKey).Err()
		return models.Board{}, false
	}
	return board, true
}

func (c *Cache) generation(ctx context.Context) (int64, bool) {
	if c.redis == nil || c.ttl == 0 {
		return 0, false
	}
	gen, err := c.redis.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		slog.Debug("board cache generation read failed", "error", err)
		return 0, false
	}
	return gen, true
}

// storeBoard caches a listing read at generation gen. It gives up if an
// eviction has happened since.
func (c *Cache) storeBoard(ctx context.Context, board models.Board, gen int64) {
	data, err := sonic.Marshal(board)
	if err != nil {
		return
	}

	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, boardKey, data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		slog.Debug("board changed while listing, not caching")
	default:
		slog.Debug("board cache write failed", "error", err)
	}
}

var errStale = errors.New("board listing is stale")

func (c *Cache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Del(ctx, boardKey)
		return nil
	})
	if err != nil {
		slog.Warn("board cache eviction failed", "error", err)
	}
}
