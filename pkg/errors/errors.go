// Package errors defines the unified error types surfaced by the Chroma client.
// Every failure reported by the server or the transport is mapped to one of
// these standard error types so callers can branch without string matching.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a standardized error from the Chroma server or transport.
// It carries enough information for error handling, logging, and caller-side
// retry decisions (this library performs no retries itself).
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Path       string `json:"path,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s (path=%s, code=%d)", e.Type, e.Message, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("[%s] %s (code=%d)", e.Type, e.Message, e.StatusCode)
}

// HTTPStatusCode returns the HTTP status code associated with the error.
func (e *APIError) HTTPStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// Common error types as constants for consistency.
const (
	TypeValidation     = "validation_error"
	TypeConflict       = "conflict_error"
	TypeNotFound       = "not_found_error"
	TypeConfiguration  = "configuration_error"
	TypeAuthentication = "authentication_error"
	TypeTransport      = "transport_error"
	TypeDecode         = "decode_error"
)

// NewValidationError creates a validation error (400). The server is the
// authority on name and metadata validity; this mirrors its verdict.
func NewValidationError(path, message string) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Type:       TypeValidation,
		Path:       path,
	}
}

// NewConflictError creates a conflict error (409), reported when a collection
// already exists and get-or-create was not requested.
func NewConflictError(path, message string) *APIError {
	return &APIError{
		StatusCode: http.StatusConflict,
		Message:    message,
		Type:       TypeConflict,
		Path:       path,
	}
}

// NewNotFoundError creates a not found error (404).
func NewNotFoundError(path, message string) *APIError {
	return &APIError{
		StatusCode: http.StatusNotFound,
		Message:    message,
		Type:       TypeNotFound,
		Path:       path,
	}
}

// NewConfigurationError creates a configuration error for an index
// configuration that cannot be translated to its wire form. It never reaches
// the server, so it carries no HTTP status.
func NewConfigurationError(message string) *APIError {
	return &APIError{
		Message: message,
		Type:    TypeConfiguration,
	}
}

// NewAuthenticationError creates an authentication error (401).
func NewAuthenticationError(path, message string) *APIError {
	return &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    message,
		Type:       TypeAuthentication,
		Path:       path,
	}
}

// NewTransportError creates a transport error for network-level failures
// (connection refused, timeout, interrupted body).
func NewTransportError(path, message string) *APIError {
	return &APIError{
		Message: message,
		Type:    TypeTransport,
		Path:    path,
	}
}

// NewDecodeError creates a decode error for a response body whose shape does
// not match the expected wire format.
func NewDecodeError(path, message string) *APIError {
	return &APIError{
		Message: message,
		Type:    TypeDecode,
		Path:    path,
	}
}

// FromStatusCode maps an HTTP status code and server message to a typed error.
// Unmapped statuses become transport errors carrying the original code.
func FromStatusCode(statusCode int, path, message string) *APIError {
	switch statusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e := NewValidationError(path, message)
		e.StatusCode = statusCode
		return e
	case http.StatusUnauthorized, http.StatusForbidden:
		e := NewAuthenticationError(path, message)
		e.StatusCode = statusCode
		return e
	case http.StatusNotFound:
		return NewNotFoundError(path, message)
	case http.StatusConflict:
		return NewConflictError(path, message)
	default:
		e := NewTransportError(path, message)
		e.StatusCode = statusCode
		return e
	}
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return isType(err, TypeNotFound)
}

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool {
	return isType(err, TypeConflict)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return isType(err, TypeValidation)
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return isType(err, TypeConfiguration)
}

// IsDecode reports whether err is a decode error.
func IsDecode(err error) bool {
	return isType(err, TypeDecode)
}

func isType(err error, errType string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == errType
	}
	return false
}
