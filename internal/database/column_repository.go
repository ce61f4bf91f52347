package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/kanban/internal/models"
)

// ColumnRepo handles all column-related database operations.
type ColumnRepo struct {
	db *sql.DB
}

// List returns all columns ordered by position
func (r *ColumnRepo) List(ctx context.Context) ([]models.Column, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, display_title, is_fixed, color, position FROM columns ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns := make([]models.Column, 0, len(models.FixedColumnIDs))
	for rows.Next() {
		var col models.Column
		if err := rows.Scan(&col.ID, &col.DisplayTitle, &col.IsFixed, &col.Color, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// Get retrieves a single column by ID
func (r *ColumnRepo) Get(ctx context.Context, id string) (models.Column, error) {
	var col models.Column
	err := r.db.QueryRowContext(ctx,
		`SELECT id, display_title, is_fixed, color, position FROM columns WHERE id = ?`, id,
	).Scan(&col.ID, &col.DisplayTitle, &col.IsFixed, &col.Color, &col.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Column{}, fmt.Errorf("column %q: %w", id, models.ErrColumnNotFound)
	}
	if err != nil {
		return models.Column{}, fmt.Errorf("failed to get column %q: %w", id, err)
	}
	return col, nil
}

// Create appends a user column. The ID is a slug of the display title, suffixed
// when another column already owns that slug. An empty color takes the default.
func (r *ColumnRepo) Create(ctx context.Context, displayTitle, color string) (models.Column, error) {
	title, err := models.NormalizeDisplayTitle(displayTitle)
	if err != nil {
		return models.Column{}, err
	}
	if color == "" {
		color = models.DefaultColumnColor
	}
	if err := models.ValidateColor(color); err != nil {
		return models.Column{}, err
	}

	col := models.Column{DisplayTitle: title, Color: color}
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := uniqueSlug(slugify(title), func(candidate string) (bool, error) {
			var n int
			err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM columns WHERE id = ?`, candidate).Scan(&n)
			return n > 0, err
		})
		if err != nil {
			return fmt.Errorf("failed to pick column id: %w", err)
		}
		col.ID = id

		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(position), -1) + 1 FROM columns`,
		).Scan(&col.Position); err != nil {
			return fmt.Errorf("failed to compute column position: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO columns (id, display_title, is_fixed, color, position) VALUES (?, ?, 0, ?, ?)`,
			col.ID, col.DisplayTitle, col.Color, col.Position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert column: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Column{}, err
	}
	return col, nil
}

// Delete removes a user column. Its tasks are removed by the foreign key cascade.
func (r *ColumnRepo) Delete(ctx context.Context, id string) (int, error) {
	var removed int
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var isFixed bool
		err := tx.QueryRowContext(ctx, `SELECT is_fixed FROM columns WHERE id = ?`, id).Scan(&isFixed)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("column %q: %w", id, models.ErrColumnNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get column %q: %w", id, err)
		}
		if isFixed {
			return fmt.Errorf("column %q: %w", id, models.ErrFixedColumn)
		}

		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM tasks WHERE status = ?`, id,
		).Scan(&removed); err != nil {
			return fmt.Errorf("failed to count column tasks: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM columns WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete column: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
