// Package transition decides which column moves a task may make
package transition

import "github.com/thenoetrevino/kanban/internal/models"

// Validator holds the set of terminal columns. Tasks that reach a terminal
// column may only move between terminal columns afterwards.
type Validator struct {
	terminal map[string]bool
}

// New creates a validator treating the given column IDs as terminal
func New(terminal ...string) *Validator {
	v := &Validator{terminal: make(map[string]bool, len(terminal))}
	for _, id := range terminal {
		v.terminal[id] = true
	}
	return v
}

// Default returns the validator for the built-in board, where only "done" is terminal
func Default() *Validator {
	return New(models.ColumnDone)
}

// IsTerminal reports whether columnID is a terminal column
func (v *Validator) IsTerminal(columnID string) bool {
	return v.terminal[columnID]
}

// Allow reports whether a task may move from source to dest.
// A move to the same column is a permitted no-op.
func (v *Validator) Allow(source, dest string) bool {
	if source == dest {
		return true
	}
	if v.IsTerminal(source) && !v.IsTerminal(dest) {
		return false
	}
	return true
}

// Check is Allow reported as an error for callers that propagate it
func (v *Validator) Check(source, dest string) error {
	if !v.Allow(source, dest) {
		return &models.ValidationError{Field: "status", Err: models.ErrTransitionNotAllowed}
	}
	return nil
}

var defaultValidator = Default()

// CanMove applies the default validator
func CanMove(source, dest string) bool {
	return defaultValidator.Allow(source, dest)
}
