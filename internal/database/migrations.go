package database

import (
	"context"
	"database/sql"

	"github.com/thenoetrevino/kanban/internal/models"
)

// runMigrations creates the database schema and seeds the built-in columns
func runMigrations(ctx context.Context, db *sql.DB) error {
	// Create columns table
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS columns (
			id TEXT PRIMARY KEY,
			display_title TEXT NOT NULL,
			is_fixed BOOLEAN NOT NULL DEFAULT 0,
			color TEXT NOT NULL,
			position INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create tasks table. seq keeps insertion order for the newest-first listing.
	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (status) REFERENCES columns(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_tasks_status
		ON tasks(status)
	`)
	if err != nil {
		return err
	}

	return seedDefaultColumns(ctx, db)
}

// seedDefaultColumns inserts any built-in column that is missing
func seedDefaultColumns(ctx context.Context, db *sql.DB) error {
	for _, col := range models.DefaultColumns() {
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO columns (id, display_title, is_fixed, color, position)
			 VALUES (?, ?, 1, ?, ?)`,
			col.ID, col.DisplayTitle, col.Color, col.Position,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
