package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/thenoetrevino/kanban/internal/board"
	"github.com/thenoetrevino/kanban/internal/models"
)

var colorHex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ErrAmbiguousID is returned when an ID prefix matches more than one task
var ErrAmbiguousID = errors.New("id prefix matches more than one task")

// ValidateColorHex validates that a color string is in valid hex format #RRGGBB
func ValidateColorHex(color string) error {
	if !colorHex.MatchString(color) {
		return &models.ValidationError{
			Field: "color",
			Err:   fmt.Errorf("%w (e.g., #FF0000), got: %s", models.ErrInvalidColor, color),
		}
	}
	return nil
}

// ResolveTaskID finds the task whose ID equals ref or, failing that, the
// only task whose ID starts with ref
func ResolveTaskID(store *board.Store, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", &models.ValidationError{Field: "id", Err: errors.New("task id is required")}
	}
	if _, ok := store.Task(ref); ok {
		return ref, nil
	}

	var match string
	for _, task := range store.Tasks() {
		if !strings.HasPrefix(task.ID, ref) {
			continue
		}
		if match != "" {
			return "", &models.ValidationError{Field: "id", Err: ErrAmbiguousID}
		}
		match = task.ID
	}
	if match == "" {
		return "", fmt.Errorf("task %q: %w", ref, models.ErrTaskNotFound)
	}
	return match, nil
}

// ResolveColumnID accepts a column ID or its display title, case-insensitively
func ResolveColumnID(store *board.Store, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if store.HasColumn(ref) {
		return ref, nil
	}
	for _, col := range store.Columns() {
		if strings.EqualFold(col.ID, ref) || strings.EqualFold(col.DisplayTitle, ref) {
			return col.ID, nil
		}
	}
	return "", fmt.Errorf("column %q: %w", ref, models.ErrColumnNotFound)
}

// ColumnNames lists the board's column IDs for suggestions
func ColumnNames(store *board.Store) string {
	cols := store.Columns()
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.ID
	}
	return strings.Join(names, ", ")
}

// Fail reports err through the formatter and returns the CommandError the
// command should end with
func Fail(formatter *OutputFormatter, err error) error {
	if fmtErr := formatter.ErrorWithSuggestion(models.ErrorCode(err), err.Error(), suggestionFor(err)); fmtErr != nil {
		return fmtErr
	}
	return &CommandError{Code: ExitCodeFor(err), Err: err, Reported: true}
}

func suggestionFor(err error) string {
	switch {
	case errors.Is(err, models.ErrTaskNotFound):
		return "Use 'kanban board' to see task IDs"
	case errors.Is(err, models.ErrColumnNotFound), errors.Is(err, models.ErrUnknownColumn):
		return "Use 'kanban board --json' to see column IDs"
	case errors.Is(err, models.ErrTransitionNotAllowed):
		return "Tasks in the done column stay there; create a new task instead"
	case errors.Is(err, models.ErrCreateInDone):
		return "Create the task in another column, then move it to done"
	case errors.Is(err, models.ErrFixedColumn):
		return "Only columns created with 'kanban column create' can be deleted"
	case errors.Is(err, ErrAmbiguousID):
		return "Use more characters of the task ID"
	case models.IsTransport(err):
		return "Check that the board server is running ('kanban serve') and client.api_url is correct"
	default:
		return ""
	}
}
