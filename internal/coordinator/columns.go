package coordinator

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/thenoetrevino/kanban/internal/board"
	"github.com/thenoetrevino/kanban/internal/models"
)

const columnKeyPrefix = "column:"

// CreateColumn asks the server for a new column and adds it to the store
// once the server has assigned its ID. Nothing is shown before that.
func (c *Coordinator) CreateColumn(ctx context.Context, displayTitle, color string) (*Mutation, error) {
	title, err := models.NormalizeDisplayTitle(displayTitle)
	if err != nil {
		return nil, err
	}
	if color == "" {
		color = models.DefaultColumnColor
	}
	if err := models.ValidateColor(color); err != nil {
		return nil, err
	}

	m := newMutation(KindCreateColumn, title)
	m.retry = func(ctx context.Context) (*Mutation, error) {
		return c.CreateColumn(ctx, title, color)
	}

	return c.submit(ctx, step{
		m:   m,
		key: columnKeyPrefix + "new:" + uuid.NewString(),
		remote: func(ctx context.Context) error {
			col, err := c.gw.CreateColumn(ctx, title, color)
			if err != nil {
				return err
			}
			m.setColumn(col)
			return nil
		},
		commit: func(*lane, bool) {
			c.store.UpsertColumn(m.Column())
		},
	}), nil
}

// DeleteColumn removes a user column and its tasks. Deleting a built-in
// column is a no-op.
func (c *Coordinator) DeleteColumn(ctx context.Context, id string) (*Mutation, error) {
	col, ok := c.store.Column(id)
	if !ok {
		return nil, &models.ValidationError{Field: "id", Err: models.ErrColumnNotFound}
	}
	if col.IsFixed {
		m := settled(KindDeleteColumn, id)
		m.column = col
		return m, nil
	}

	m := newMutation(KindDeleteColumn, id)
	m.column = col
	m.retry = func(ctx context.Context) (*Mutation, error) {
		return c.DeleteColumn(ctx, id)
	}

	var removal board.ColumnRemoval
	return c.submit(ctx, step{
		m:   m,
		key: columnKeyPrefix + id,
		apply: func(l *lane) {
			l.removesColumn = id
			removal, _ = c.store.RemoveColumn(id)
		},
		remote: func(ctx context.Context) error {
			err := c.gw.DeleteColumn(ctx, id)
			if errors.Is(err, models.ErrColumnNotFound) {
				return nil
			}
			return err
		},
		commit: func(*lane, bool) {
			// a reload while the delete was in flight can bring the column back
			c.store.RemoveColumn(id)
		},
		fail: func(*lane, bool, error) {
			c.store.RestoreColumn(removal)
		},
	}), nil
}
