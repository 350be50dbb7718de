package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParse      ErrorType = "PARSE"
	ErrTypeSchema     ErrorType = "SCHEMA_MISMATCH"
	ErrTypeConversion ErrorType = "TYPE_CONVERSION"
	ErrTypeLevel      ErrorType = "INVALID_LEVEL"
	ErrTypeJoinKey    ErrorType = "JOIN_KEY"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err is (or wraps) an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper functions for common error types

// NewParseError creates an error for a file that cannot be read as tabular data
func NewParseError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParse, message, cause)
}

// NewSchemaError creates an error for incompatible column sets
func NewSchemaError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchema, message, cause)
}

// NewConversionError creates an error for a value that cannot be cast to the requested type
func NewConversionError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConversion, message, cause)
}

// NewLevelError creates an error for a category order missing a value present in the data
func NewLevelError(message string) *AppError {
	return NewAppError(ErrTypeLevel, message, nil)
}

// NewJoinKeyError creates an error for join key columns absent from a table
func NewJoinKeyError(message string) *AppError {
	return NewAppError(ErrTypeJoinKey, message, nil)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
