// Package errors provides structured error types for the lightning infill
// generator.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (settings, geometry, layer ids)
//   - NOT_*: Missing resources or unfinished work
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLayer, "layer %d out of range [0, %d)", id, n)
//	if errors.Is(err, errors.ErrCodeInvalidLayer) {
//	    // Report a contract violation to the caller
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidSettings Code = "INVALID_SETTINGS"
	ErrCodeInvalidLayer    Code = "INVALID_LAYER"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidRange    Code = "INVALID_RANGE"

	// Missing resources and unfinished work
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"
	ErrCodeNotConstructed Code = "NOT_CONSTRUCTED"

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

// HTTPStatus maps an error code onto the status the query API reports.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidSettings, ErrCodeInvalidFormat,
		ErrCodeInvalidPath, ErrCodeInvalidRange:
		return 400
	case ErrCodeInvalidLayer, ErrCodeNotFound, ErrCodeFileNotFound:
		return 404
	case ErrCodeNotConstructed:
		return 409
	case ErrCodeUnsupported:
		return 501
	}
	return 500
}
