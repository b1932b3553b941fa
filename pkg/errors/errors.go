// Package errors provides structured error types for posterkit.
//
// Errors carry a machine-readable code alongside a human-readable message,
// so the CLI and HTTP server can map failures to exit codes and status
// codes without string matching.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: request validation failures
//   - RESOLUTION_*/AMBIGUOUS_*: geocoding failures
//   - FETCH_*/NETWORK_*: external data source failures
//   - UNKNOWN_*: lookups against a fixed registry
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownTheme, "unknown theme: %q", id)
//	if errors.Is(err, errors.ErrCodeUnknownTheme) {
//	    // handle bad theme id
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFetch, cause, "overpass query for %v", extent)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the poster pipeline.
const (
	// Request validation errors
	ErrCodeInvalidRequest Code = "INVALID_REQUEST"
	ErrCodeInvalidExtent  Code = "INVALID_EXTENT"

	// Place resolution errors
	ErrCodeResolution Code = "RESOLUTION_ERROR"
	ErrCodeAmbiguous  Code = "AMBIGUOUS_QUERY"

	// External data source errors
	ErrCodeFetch       Code = "FETCH_ERROR"
	ErrCodeEmptyResult Code = "EMPTY_RESULT"
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"

	// Registry lookup errors
	ErrCodeUnknownTheme  Code = "UNKNOWN_THEME"
	ErrCodeUnknownLayout Code = "UNKNOWN_LAYOUT"

	// Export errors
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
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

// Is reports whether err carries the given error code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
