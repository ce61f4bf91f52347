// Package database defines repository interfaces for data access
package database

import (
	"context"

	"github.com/thenoetrevino/kanban/internal/models"
)

// DataStore defines every data operation the board server needs.
// The read cache wraps it and tests substitute it.
type DataStore interface {
	// Board
	ListBoard(ctx context.Context) (models.Board, error)
	Ping(ctx context.Context) error

	// Tasks
	CreateTask(ctx context.Context, title, status string) (models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// Columns
	CreateColumn(ctx context.Context, displayTitle, color string) (models.Column, error)
	// DeleteColumn removes a user column and its tasks, returning how many tasks went with it
	DeleteColumn(ctx context.Context, id string) (int, error)
}

var _ DataStore = (*Repository)(nil)
