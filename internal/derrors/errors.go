// Package derrors provides the error taxonomy of the data2crm CLI.
// Every failure that reaches the command layer is one of these types, so
// callers can match with errors.As instead of inspecting messages.
package derrors

import (
	"fmt"
)

// Data2CRMError is the base interface for all data2crm errors
type Data2CRMError interface {
	error
	// Code returns a unique error code for programmatic error handling
	Code() string
}

// baseError provides common functionality for all data2crm errors
type baseError struct {
	code    string
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Code() string {
	return e.code
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ConfigurationError reports a missing credential or an unusable config file.
// The message is meant to be shown to the user as is.
type ConfigurationError struct {
	baseError
	Key string
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(key string, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		baseError: baseError{
			code:    "CONFIG_ERROR",
			message: message,
			cause:   cause,
		},
		Key: key,
	}
}

// RequestError represents a failed call to the remote API: a network error,
// a timeout or a non-success status. StatusCode is zero when no response
// was received.
type RequestError struct {
	baseError
	Method     string
	Path       string
	StatusCode int
}

// NewRequestError creates a new request error
func NewRequestError(method, path string, statusCode int, message string, cause error) *RequestError {
	return &RequestError{
		baseError: baseError{
			code:    "REQUEST_ERROR",
			message: message,
			cause:   cause,
		},
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
	}
}

// ValidationError represents invalid command-line input
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a new validation error
func NewValidationError(field string, message string, cause error) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			code:    "VALIDATION_ERROR",
			message: message,
			cause:   cause,
		},
		Field: field,
	}
}

// MissingArgument reports a required positional argument that was not given
func MissingArgument(name string) *ValidationError {
	return NewValidationError(name, fmt.Sprintf("missing required argument '%s'", name), nil)
}
