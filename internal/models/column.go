package models

import (
	"regexp"
	"slices"
	"strings"
)

var colorHexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Column represents a kanban board column (e.g., "To Do", "In Progress", "Done").
// Its ID is the value tasks store in their Status field.
type Column struct {
	ID           string `json:"id"`
	DisplayTitle string `json:"displayTitle"`
	IsFixed      bool   `json:"isFixed"` // built-in columns cannot be deleted
	Color        string `json:"color"`   // display only
	Position     int    `json:"position"`
}

// Board is the full listing returned by the remote store
type Board struct {
	Tasks   []Task   `json:"tasks"`
	Columns []Column `json:"columns"`
}

// IsFixedColumnID reports whether id names one of the built-in columns
func IsFixedColumnID(id string) bool {
	return slices.Contains(FixedColumnIDs, id)
}

// DefaultColumns returns the built-in columns in board order
func DefaultColumns() []Column {
	return []Column{
		{ID: ColumnTodo, DisplayTitle: "To Do", IsFixed: true, Color: "#3b82f6", Position: 0},
		{ID: ColumnInProgress, DisplayTitle: "In Progress", IsFixed: true, Color: "#eab308", Position: 1},
		{ID: ColumnDone, DisplayTitle: "Done", IsFixed: true, Color: "#22c55e", Position: 2},
	}
}

// NormalizeDisplayTitle trims surrounding whitespace and rejects empty column titles
func NormalizeDisplayTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", &ValidationError{Field: "displayTitle", Err: ErrEmptyDisplayTitle}
	}
	if len(trimmed) > MaxColumnTitleLength {
		return "", &ValidationError{Field: "displayTitle", Err: ErrDisplayTitleTooLong}
	}
	return trimmed, nil
}

// ValidateColor checks that color is in #RRGGBB form
func ValidateColor(color string) error {
	if !colorHexPattern.MatchString(color) {
		return &ValidationError{Field: "color", Err: ErrInvalidColor}
	}
	return nil
}
