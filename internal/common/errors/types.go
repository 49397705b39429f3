package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies an application error
type ErrorType string

const (
	// ErrTypeUnavailable represents a cache tier that cannot be reached
	ErrTypeUnavailable ErrorType = "unavailable"
	// ErrTypeSerialization represents a value that cannot be encoded
	ErrTypeSerialization ErrorType = "serialization"
	// ErrTypeCorrupt represents stored bytes that fail to decode
	ErrTypeCorrupt ErrorType = "corrupt"
	// ErrTypeValidation represents invalid caller input
	ErrTypeValidation ErrorType = "validation"
	// ErrTypeConnection represents connection-related errors
	ErrTypeConnection ErrorType = "connection"
	// ErrTypeConfig represents configuration errors
	ErrTypeConfig ErrorType = "config"
	// ErrTypeTimeout represents timeout errors
	ErrTypeTimeout ErrorType = "timeout"
	// ErrTypeInternal represents internal system errors
	ErrTypeInternal ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	parts := []string{string(e.Type), e.Message}

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}

	if len(e.Context) > 0 {
		contextParts := make([]string, 0, len(e.Context))
		for k, v := range e.Context {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context={%s}", strings.Join(contextParts, ", ")))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause
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

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// UnavailableError creates an error for an unreachable cache tier
func UnavailableError(tier string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeUnavailable,
		Message: fmt.Sprintf("%s tier unavailable", tier),
		Cause:   cause,
	}
}

// SerializationError creates an error for a value that cannot be encoded
func SerializationError(msg string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeSerialization,
		Message: msg,
		Cause:   cause,
	}
}

// CorruptPayloadError creates an error for stored bytes that fail to decode
func CorruptPayloadError(key string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeCorrupt,
		Message: fmt.Sprintf("corrupt payload for key %q", key),
		Cause:   cause,
	}
}

// ValidationError creates a new validation error
func ValidationError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeValidation,
		Message: msg,
	}
}

// ConnectionError creates a new connection error
func ConnectionError(msg string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeConnection,
		Message: msg,
		Cause:   cause,
	}
}

// ConfigError creates a new configuration error
func ConfigError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeConfig,
		Message: msg,
	}
}

// TimeoutError creates a new timeout error
func TimeoutError(operation string) *AppError {
	return &AppError{
		Type:    ErrTypeTimeout,
		Message: fmt.Sprintf("timeout during %s", operation),
	}
}

// InternalError creates a new internal error
func InternalError(msg string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeInternal,
		Message: msg,
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}

	return appErr.Type == errType
}

// GetType returns the error type if it's an AppError, otherwise ErrTypeInternal
func GetType(err error) ErrorType {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return ErrTypeInternal
	}

	return appErr.Type
}
