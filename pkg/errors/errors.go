// Package errors provides structured error types for mapgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure taxonomy of the edit core:
//   - NOT_FOUND: a referenced identifier is missing from a snapshot. Actions
//     fail fast with this code and leave the input snapshot untouched.
//   - DEGENERATE: an entity fell below its minimum structure. Actions treat
//     this as a cascade trigger; it only surfaces from [graph.Graph.Validate].
//   - INVALID_*: malformed caller input (indexes, parameters, files).
//   - STORE_ERROR, INTERNAL_ERROR: infrastructure failures.
//
// Advisory "disabled" reasons are not errors at all; see the action package.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "entity %s", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing entity
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "load session %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeInvalidAction Code = "INVALID_ACTION"

	// Graph consistency errors
	ErrCodeNotFound   Code = "NOT_FOUND"
	ErrCodeDegenerate Code = "DEGENERATE"

	// Infrastructure errors
	ErrCodeStore           Code = "STORE_ERROR"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeTimeout         Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Cause is nil unless the error came from Wrap.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether any *Error in err's chain carries code, so a
// NOT_FOUND wrapped in a STORE_ERROR still matches both.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix and cause from an *Error. Other
// errors are returned as their Error string.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// NotFound is shorthand for New(ErrCodeNotFound, ...).
func NotFound(format string, args ...any) *Error {
	return New(ErrCodeNotFound, format, args...)
}

// IsNotFound reports whether err carries ErrCodeNotFound.
func IsNotFound(err error) bool {
	return Is(err, ErrCodeNotFound)
}
