package domain

import (
	"errors"
	"sort"
	"strings"
)

// Authentication errors
var (
	// ErrInvalidCredentials is returned for every failed login, whether the
	// email is unknown or the password is wrong, so responses cannot be used
	// to discover which accounts exist.
	ErrInvalidCredentials = errors.New("the provided credentials are incorrect")

	// ErrUnauthenticated means the request carried no token, an unknown
	// token, or a revoked one.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Resource errors
var (
	ErrAssetNotFound = errors.New("asset not found")
)

// ValidationError collects per-field input problems. Handlers render it as a
// 422 with the field messages; everything else in the error chain stays a
// plain error.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for the named field.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field failed validation.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
