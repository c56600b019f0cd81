package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a post or tag does not exist, and also when
	// the caller is not the writer of the post they try to change. The two
	// cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated is returned when a mutation is attempted without an identity.
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError carries per-field messages. Nothing is persisted when one is returned.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], ", ")))
	}
	return "validation error (" + strings.Join(parts, "; ") + ")"
}

// Add records a message for field and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) error {
	return (&ValidationError{}).Add(field, message)
}

// IsValidationError checks if err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
