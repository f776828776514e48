// Package errors provides structured error types for the railsmith toolbox.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, HTTP surface, and library use
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes name the failed precondition, not the caller:
//   - MALFORMED_RAIL, UNKNOWN_WALL_TYPE: bad input data
//   - INVALID_PARAMETER, INVALID_INPUT, INVALID_FORMAT: bad arguments
//   - GAP_TOO_LARGE, OVERLAP: rail merge preconditions (recoverable by
//     retrying with different parameters)
//   - EXTRAPOLATION: interpolation requested outside a rail's time span
//
// # Usage
//
//	err := errors.New(errors.ErrCodeGapTooLarge, "gap %.3f exceeds %.3f", gap, max)
//	if errors.Is(err, errors.ErrCodeGapTooLarge) {
//	    // Retry merge with a larger gap, or keep the rails separate
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Bad input data
	ErrCodeMalformedRail   Code = "MALFORMED_RAIL"
	ErrCodeUnknownWallType Code = "UNKNOWN_WALL_TYPE"

	// Bad arguments
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPivot     Code = "INVALID_PIVOT"
	ErrCodeInvalidOperation Code = "INVALID_OPERATION"

	// Rail topology preconditions (recoverable: the caller may retry
	// with relaxed parameters or leave the rails untouched)
	ErrCodeGapTooLarge   Code = "GAP_TOO_LARGE"
	ErrCodeOverlap       Code = "OVERLAP"
	ErrCodeExtrapolation Code = "EXTRAPOLATION"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

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

// Recoverable reports whether the error is a precondition failure the
// caller can address by retrying with different parameters. Merge gap and
// overlap rejections fall into this category; malformed input does not.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeGapTooLarge, ErrCodeOverlap, ErrCodeExtrapolation:
		return true
	}
	return false
}
