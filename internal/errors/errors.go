package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of auditor error.
type ErrorCode string

const (
	// ErrCodeConnection indicates the record store could not be reached or authenticated against.
	ErrCodeConnection ErrorCode = "connection"
	// ErrCodeQuery indicates the record store was reachable but the query failed.
	ErrCodeQuery ErrorCode = "query"
	// ErrCodeRead indicates the expectations source could not be read.
	ErrCodeRead ErrorCode = "read"
	// ErrCodeDelivery indicates the notification channel was unreachable or rejected the payload.
	ErrCodeDelivery ErrorCode = "delivery"
	// ErrCodeConfig indicates invalid or incomplete configuration.
	ErrCodeConfig ErrorCode = "config"
	// ErrCodeMismatch tags a completed comparison whose sets differ.
	// It is never returned as an error by the pipeline; it exists for metrics and logs.
	ErrCodeMismatch ErrorCode = "mismatch"
)

// AppError represents a structured auditor error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
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

// Connection creates a new Connection error.
func Connection(message string) *AppError {
	return &AppError{Code: ErrCodeConnection, Message: message}
}

// Query creates a new Query error.
func Query(message string) *AppError {
	return &AppError{Code: ErrCodeQuery, Message: message}
}

// Queryf creates a new Query error with formatted message.
func Queryf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeQuery, Message: fmt.Sprintf(format, args...)}
}

// Read creates a new Read error.
func Read(message string) *AppError {
	return &AppError{Code: ErrCodeRead, Message: message}
}

// Delivery creates a new Delivery error.
func Delivery(message string) *AppError {
	return &AppError{Code: ErrCodeDelivery, Message: message}
}

// Configf creates a new Config error with formatted message.
func Configf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeConfig, Message: fmt.Sprintf(format, args...)}
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

// IsConnection checks if an error is a Connection error.
func IsConnection(err error) bool {
	return isCode(err, ErrCodeConnection)
}

// IsQuery checks if an error is a Query error.
func IsQuery(err error) bool {
	return isCode(err, ErrCodeQuery)
}

// IsRead checks if an error is a Read error.
func IsRead(err error) bool {
	return isCode(err, ErrCodeRead)
}

// IsDelivery checks if an error is a Delivery error.
func IsDelivery(err error) bool {
	return isCode(err, ErrCodeDelivery)
}

// IsConfig checks if an error is a Config error.
func IsConfig(err error) bool {
	return isCode(err, ErrCodeConfig)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
