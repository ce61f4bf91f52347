package models

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors. Rejected before any remote call is made.
var (
	ErrEmptyTitle           = errors.New("task title cannot be empty")
	ErrTitleTooLong         = errors.New("task title cannot exceed 255 characters")
	ErrEmptyDisplayTitle    = errors.New("column title cannot be empty")
	ErrDisplayTitleTooLong  = errors.New("column title cannot exceed 50 characters")
	ErrInvalidColor         = errors.New("color must be in hex format #RRGGBB")
	ErrEmptyPatch           = errors.New("update must change title or status")
	ErrConfirmationMismatch = errors.New("type delete to confirm")
	ErrCreateInDone         = errors.New("tasks cannot be added to the done column")
)

// Board rule errors
var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrColumnNotFound       = errors.New("column not found")
	ErrUnknownColumn        = errors.New("status does not reference an existing column")
	ErrFixedColumn          = errors.New("built-in columns cannot be deleted")
	ErrTransitionNotAllowed = errors.New("tasks in a done column cannot be moved out")
)

// ValidationError reports input rejected before dispatch
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TransportError reports a failed round trip to the remote store
type TransportError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server returned %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ConflictError reports that the remote store rejected a stale or invalid state
type ConflictError struct {
	Op  string
	Err error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: conflict: %v", e.Op, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsTransport reports whether err is a TransportError
func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// CheckDeleteConfirmation accepts the confirmation word in any case,
// ignoring surrounding whitespace
func CheckDeleteConfirmation(input string) error {
	if strings.ToLower(strings.TrimSpace(input)) != DeleteConfirmationWord {
		return &ValidationError{Field: "confirmation", Err: ErrConfirmationMismatch}
	}
	return nil
}
