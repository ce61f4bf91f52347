package models

import "errors"

// Error codes carried in API error envelopes and CLI JSON output
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeTaskNotFound         = "TASK_NOT_FOUND"
	CodeColumnNotFound       = "COLUMN_NOT_FOUND"
	CodeUnknownColumn        = "UNKNOWN_COLUMN"
	CodeFixedColumn          = "FIXED_COLUMN"
	CodeTransitionNotAllowed = "TRANSITION_NOT_ALLOWED"
	CodeTransport            = "TRANSPORT_ERROR"
	CodeInternal             = "INTERNAL_ERROR"
)

var codeSentinels = []struct {
	code string
	err  error
}{
	{CodeTaskNotFound, ErrTaskNotFound},
	{CodeColumnNotFound, ErrColumnNotFound},
	{CodeUnknownColumn, ErrUnknownColumn},
	{CodeFixedColumn, ErrFixedColumn},
	{CodeTransitionNotAllowed, ErrTransitionNotAllowed},
}

// ErrorCode classifies err into one of the Code constants.
// Board rule sentinels win over the error type that carries them.
func ErrorCode(err error) string {
	for _, cs := range codeSentinels {
		if errors.Is(err, cs.err) {
			return cs.code
		}
	}
	switch {
	case IsValidation(err):
		return CodeValidation
	case IsTransport(err):
		return CodeTransport
	default:
		return CodeInternal
	}
}

// SentinelForCode returns the board rule error named by code, or nil
func SentinelForCode(code string) error {
	for _, cs := range codeSentinels {
		if cs.code == code {
			return cs.err
		}
	}
	return nil
}
