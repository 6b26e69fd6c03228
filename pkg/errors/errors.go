// Package errors defines the coded error taxonomy used across mkp.
//
// Callers distinguish a bad input container from a bad filesystem or a bad
// manifest by code, never by parsing message text:
//
//	if errors.IsErrorCode(err, errors.ErrFormat) { ... }
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Package errors
	ErrFormat           ErrorCode = "FORMAT"
	ErrFilesystem       ErrorCode = "FILESYSTEM"
	ErrManifestMismatch ErrorCode = "MANIFEST_MISMATCH"
	ErrSchema           ErrorCode = "SCHEMA_INVALID"
)

// DetailPath is the detail key holding the offending filesystem path.
const DetailPath = "path"

// MkpError represents a structured error with code and details
type MkpError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *MkpError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *MkpError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *MkpError) Is(target error) bool {
	var targetErr *MkpError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new MkpError with the given code and message
func New(code ErrorCode, message string) *MkpError {
	return &MkpError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new MkpError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *MkpError {
	return &MkpError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a MkpError
func Wrap(err error, code ErrorCode, message string) *MkpError {
	if err == nil {
		return nil
	}
	return &MkpError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *MkpError {
	if err == nil {
		return nil
	}
	return &MkpError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *MkpError) WithDetail(key string, value interface{}) *MkpError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithPath tags the error with the offending filesystem path
func (e *MkpError) WithPath(path string) *MkpError {
	return e.WithDetail(DetailPath, path)
}

// WithDetails adds multiple details to the error
func (e *MkpError) WithDetails(details map[string]interface{}) *MkpError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var mkpErr *MkpError
	if errors.As(err, &mkpErr) {
		return mkpErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a MkpError
func GetErrorCode(err error) ErrorCode {
	var mkpErr *MkpError
	if errors.As(err, &mkpErr) {
		return mkpErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a MkpError
func GetErrorDetails(err error) map[string]interface{} {
	var mkpErr *MkpError
	if errors.As(err, &mkpErr) {
		return mkpErr.Details
	}
	return nil
}

// GetErrorPath returns the path detail of an error, or "" when absent
func GetErrorPath(err error) string {
	if path, ok := GetErrorDetails(err)[DetailPath].(string); ok {
		return path
	}
	return ""
}
