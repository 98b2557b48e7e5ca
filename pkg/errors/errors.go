// Package errors provides structured error types for labyrinth.
//
// Every precondition the maze core refuses (bad dimensions, bad resolution,
// unknown output formats, malformed documents) is reported as an [*Error]
// carrying a machine-readable [Code]. The CLI turns these into a non-zero
// exit; the HTTP server turns the INVALID_* family into 400 responses.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: caller supplied a value the core cannot work with
//   - NOT_FOUND: a stored maze or record does not exist
//   - NETWORK_ERROR: a remote cache or archive could not be reached
//   - INTERNAL_ERROR: an invariant of the generated maze does not hold
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDimensions, "width must be at least 1, got %d", w)
//	if errors.Is(err, errors.ErrCodeInvalidDimensions) {
//	    // refuse to continue
//	}
//
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "redis get %s", key)
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
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidDimensions Code = "INVALID_DIMENSIONS"
	ErrCodeInvalidResolution Code = "INVALID_RESOLUTION"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidColor      Code = "INVALID_COLOR"
	ErrCodeInvalidDocument   Code = "INVALID_DOCUMENT"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
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

// IsInvalid reports whether err carries one of the INVALID_* codes.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidDimensions, ErrCodeInvalidResolution,
		ErrCodeInvalidFormat, ErrCodeInvalidColor, ErrCodeInvalidDocument:
		return true
	}
	return false
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
