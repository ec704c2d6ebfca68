package apperror

import (
	"errors"
	"net/http"
	"strings"
)

// Type classifies an error by how the caller is expected to react to it
type Type int

const (
	// TypeFailure is a final negative business outcome, not a bug
	TypeFailure Type = iota
	// TypeValidation is malformed input and must never be retried as-is
	TypeValidation
	// TypeProblem is an unexpected or transient error
	TypeProblem
	// TypeNotFound means the addressed resource does not exist
	TypeNotFound
	// TypeConflict means an identical operation is already in flight
	TypeConflict
	// TypeConfiguration means required setup is missing for this call
	TypeConfiguration
)

func (t Type) String() string {
	switch t {
	case TypeFailure:
		return "Failure"
	case TypeValidation:
		return "Validation"
	case TypeProblem:
		return "Problem"
	case TypeNotFound:
		return "NotFound"
	case TypeConflict:
		return "Conflict"
	case TypeConfiguration:
		return "Configuration"
	default:
		return "Unknown"
	}
}

// Error is the typed error returned by the payment processors
type Error struct {
	Type            Type              `json:"type"`
	Code            string            `json:"code"`
	Description     string            `json:"description"`
	ProviderCode    string            `json:"provider_code,omitempty"`
	ProviderMessage string            `json:"provider_message,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Description
}

func newError(t Type, code, fallbackCode, description string) *Error {
	code = strings.TrimSpace(code)
	if code == "" {
		code = fallbackCode
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = "An error occurred."
	}
	return &Error{Type: t, Code: code, Description: description}
}

// Failure creates a final business failure
func Failure(code, description string) *Error {
	return newError(TypeFailure, code, "General.Failure", description)
}

// Validation creates a validation error
func Validation(code, description string) *Error {
	return newError(TypeValidation, code, "General.Validation", description)
}

// Problem creates an unexpected-error
func Problem(code, description string) *Error {
	return newError(TypeProblem, code, "General.Problem", description)
}

// NotFound creates a not-found error
func NotFound(code, description string) *Error {
	return newError(TypeNotFound, code, "General.NotFound", description)
}

// Conflict creates a conflict error
func Conflict(code, description string) *Error {
	return newError(TypeConflict, code, "General.Conflict", description)
}

// Configuration creates a configuration error
func Configuration(code, description string) *Error {
	return newError(TypeConfiguration, code, "General.Configuration", description)
}

// WithProvider returns a copy carrying the gateway's raw code and message
func (e *Error) WithProvider(code, message string) *Error {
	clone := e.clone()
	clone.ProviderCode = code
	clone.ProviderMessage = message
	return clone
}

// WithMetadata returns a copy with key set to value. Blank keys are ignored.
func (e *Error) WithMetadata(key, value string) *Error {
	if strings.TrimSpace(key) == "" {
		return e
	}
	clone := e.clone()
	clone.Metadata[key] = value
	return clone
}

func (e *Error) clone() *Error {
	clone := *e
	clone.Metadata = make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		clone.Metadata[k] = v
	}
	return &clone
}

// As extracts an *Error from err's chain
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err is an *Error of the given type
func IsType(err error, t Type) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}

// HTTPStatus maps an error to the status code the API responds with
func HTTPStatus(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeFailure:
		return http.StatusUnprocessableEntity
	case TypeConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
