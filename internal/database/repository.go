package database

import (
	"context"
	"database/sql"

	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/transition"
)

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	db *sql.DB
	*ColumnRepo
	*TaskRepo
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:         db,
		ColumnRepo: &ColumnRepo{db: db},
		TaskRepo:   &TaskRepo{db: db, validator: transition.Default()},
	}
}

// ListBoard returns every column in board order and every task, newest first
func (r *Repository) ListBoard(ctx context.Context) (models.Board, error) {
	columns, err := r.ColumnRepo.List(ctx)
	if err != nil {
		return models.Board{}, err
	}
	tasks, err := r.TaskRepo.List(ctx)
	if err != nil {
		return models.Board{}, err
	}
	return models.Board{Tasks: tasks, Columns: columns}, nil
}

// Ping verifies the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Wrapper methods so Repository satisfies DataStore

func (r *Repository) CreateTask(ctx context.Context, title, status string) (models.Task, error) {
	return r.TaskRepo.Create(ctx, title, status)
}

func (r *Repository) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	return r.TaskRepo.Update(ctx, id, patch)
}

func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	return r.TaskRepo.Delete(ctx, id)
}

func (r *Repository) CreateColumn(ctx context.Context, displayTitle, color string) (models.Column, error) {
	return r.ColumnRepo.Create(ctx, displayTitle, color)
}

func (r *Repository) DeleteColumn(ctx context.Context, id string) (int, error) {
	return r.ColumnRepo.Delete(ctx, id)
}
