package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrProfileNotFound is returned when a profile is not found.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrForbidden is returned when the actor may not perform the operation,
	// including writes to a product owned by someone else.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated is returned when no actor is signed in.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrValidation is returned for missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrTransport is returned when the database cannot be reached or a query fails.
	ErrTransport = errors.New("data service unavailable")
	// ErrStorage is returned when an object storage call fails.
	ErrStorage = errors.New("storage failure")
	// ErrEmailTaken is returned on sign-up with an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on a failed sign-in.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrBusy is returned when the actor already has a mutation in flight.
	ErrBusy = errors.New("another operation is in progress")
)

// ValidationError lists the offending fields. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
