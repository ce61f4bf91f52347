package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/transition"
)

// TaskRepo handles all task-related database operations.
type TaskRepo struct {
	db        *sql.DB
	validator *transition.Validator
	now       func() time.Time
}

func (r *TaskRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

// List returns every task, most recently created first
func (r *TaskRepo) List(ctx context.Context) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, status, created_at, updated_at FROM tasks ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Get retrieves a single task by ID
func (r *TaskRepo) Get(ctx context.Context, id string) (models.Task, error) {
	return getTask(ctx, r.db, id)
}

// Create inserts a new task with a server-assigned ID
func (r *TaskRepo) Create(ctx context.Context, title, status string) (models.Task, error) {
	title, err := models.NormalizeTitle(title)
	if err != nil {
		return models.Task{}, err
	}

	now := r.clock().UTC()
	task := models.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := requireColumn(ctx, tx, status); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (id, title, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			task.ID, task.Title, task.Status, formatTime(task.CreatedAt), formatTime(task.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Update applies a title and/or status change and returns the stored record.
// Moving out of a terminal column is refused with ErrTransitionNotAllowed.
func (r *TaskRepo) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if patch.IsEmpty() {
		return models.Task{}, &models.ValidationError{Field: "patch", Err: models.ErrEmptyPatch}
	}
	if patch.Title != nil {
		title, err := models.NormalizeTitle(*patch.Title)
		if err != nil {
			return models.Task{}, err
		}
		patch.Title = &title
	}

	var updated models.Task
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		current, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if patch.Status != nil && *patch.Status != current.Status {
			if err := requireColumn(ctx, tx, *patch.Status); err != nil {
				return err
			}
			if err := r.validator.Check(current.Status, *patch.Status); err != nil {
				return fmt.Errorf("task %q: %w", id, err)
			}
		}

		updated = patch.Apply(current)
		updated.UpdatedAt = r.clock().UTC()
		_, err = tx.ExecContext(ctx,
			`UPDATE tasks SET title = ?, status = ?, updated_at = ? WHERE id = ?`,
			updated.Title, updated.Status, formatTime(updated.UpdatedAt), id,
		)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// Delete removes a task
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %q: %w", id, models.ErrTaskNotFound)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func getTask(ctx context.Context, q querier, id string) (models.Task, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, title, status, created_at, updated_at FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %q: %w", id, models.ErrTaskNotFound)
	}
	return task, err
}

func scanTask(s scanner) (models.Task, error) {
	var (
		task               models.Task
		created, updatedAt string
	)
	if err := s.Scan(&task.ID, &task.Title, &task.Status, &created, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, err
		}
		return models.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}
	var err error
	if task.CreatedAt, err = parseTime(created); err != nil {
		return models.Task{}, err
	}
	if task.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func requireColumn(ctx context.Context, q querier, id string) error {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM columns WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("failed to look up column: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("status %q: %w", id, models.ErrUnknownColumn)
	}
	return nil
}
