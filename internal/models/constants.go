package models

// ============================================================================
// FIXED COLUMN CONSTANTS
// ============================================================================

// Built-in column IDs. Every board has them and they cannot be deleted.
const (
	ColumnTodo       = "todo"
	ColumnInProgress = "inprogress"
	ColumnDone       = "done"
)

// FixedColumnIDs lists the built-in columns in board order
var FixedColumnIDs = []string{ColumnTodo, ColumnInProgress, ColumnDone}

// ============================================================================
// DEFAULTS AND LIMITS
// ============================================================================

// DefaultColumnColor is used when a column is created without a color
const DefaultColumnColor = "#6b7280"

// DeleteConfirmationWord must be typed to confirm a task deletion
const DeleteConfirmationWord = "delete"

const (
	MaxTitleLength       = 255
	MaxColumnTitleLength = 50
)
