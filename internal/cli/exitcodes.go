package cli

import (
	"errors"

	"github.com/thenoetrevino/kanban/internal/models"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	// Use for: Normal, successful command execution.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Server unreachable, timeouts, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, invalid flag combinations,
	// or when the user needs to provide different arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Task not found, column not found, or any case where
	// an ID doesn't exist on the board.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: A server reply that cannot be decoded.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty titles, bad colors, unknown statuses, moves out of
	// a done column, or any input that fails board rules.
	ExitValidation = 5
)

// CommandError carries the process exit code for a failed command
type CommandError struct {
	Code int
	Err  error

	// Reported is set once the OutputFormatter has printed the error
	Reported bool
}

func (e *CommandError) Error() string { return e.Err.Error() }

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCodeFor maps an error to the exit code the process should end with
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *CommandError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, models.ErrTaskNotFound), errors.Is(err, models.ErrColumnNotFound):
		return ExitNotFound
	case models.IsValidation(err),
		errors.Is(err, models.ErrUnknownColumn),
		errors.Is(err, models.ErrFixedColumn),
		errors.Is(err, models.ErrTransitionNotAllowed):
		return ExitValidation
	default:
		return ExitError
	}
}
