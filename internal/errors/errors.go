// Package errors defines the structured error kinds surfaced by the router and the query API.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"

	// ErrCodeConfigLookup indicates the tenant or flow is absent from partner configuration.
	ErrCodeConfigLookup ErrorCode = "config_lookup"
	// ErrCodeStoreWrite indicates a job record could not be written to the tracking store.
	ErrCodeStoreWrite ErrorCode = "store_write"
	// ErrCodeRouting indicates an object copy failed while routing a file.
	ErrCodeRouting ErrorCode = "routing"
	// ErrCodeNotification indicates the broadcast publish failed.
	ErrCodeNotification ErrorCode = "notification"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// ConfigLookupf reports a tenant or flow missing from partner configuration.
func ConfigLookupf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeConfigLookup,
		Message: fmt.Sprintf(format, args...),
	}
}

// StoreWrite wraps a tracking-store failure.
func StoreWrite(err error, message string) *AppError {
	return Wrap(err, ErrCodeStoreWrite, message)
}

// Routing wraps an object copy failure.
func Routing(err error, message string) *AppError {
	return Wrap(err, ErrCodeRouting, message)
}

// Notification wraps a broadcast publish failure.
func Notification(err error, message string) *AppError {
	return Wrap(err, ErrCodeNotification, message)
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsConfigLookup checks if an error is a ConfigurationLookup error.
func IsConfigLookup(err error) bool {
	return isCode(err, ErrCodeConfigLookup)
}

// IsStoreWrite checks if an error is a StoreWrite error.
func IsStoreWrite(err error) bool {
	return isCode(err, ErrCodeStoreWrite)
}

// IsRouting checks if an error is a Routing error.
func IsRouting(err error) bool {
	return isCode(err, ErrCodeRouting)
}

// IsNotification checks if an error is a Notification error.
func IsNotification(err error) bool {
	return isCode(err, ErrCodeNotification)
}

// GetCode returns the outermost ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
