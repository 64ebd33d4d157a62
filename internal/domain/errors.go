package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParameters is wrapped by every SchemaError.
	ErrMissingParameters = errors.New("missing parameters")

	// ErrValueNotAllowed is the cause of a ParseError for an enumerated field
	// whose value is outside the Policy.
	ErrValueNotAllowed = errors.New("value not allowed")
)

// SchemaError reports a day that did not resolve to exactly FieldsPerDay values.
type SchemaError struct {
	Day int // zero-based day index
	Got int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("day %d: %s: got %d of %d values", e.Day+1, ErrMissingParameters, e.Got, FieldsPerDay)
}

func (e *SchemaError) Unwrap() error { return ErrMissingParameters }

// ParseError reports a field value that could not be turned into its typed form.
type ParseError struct {
	Day   int // zero-based day index
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("day %d: invalid %s value %q: %v", e.Day+1, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
