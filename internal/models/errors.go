package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record exists for an id.
var ErrNotFound = errors.New("not found")

// NotFoundError wraps ErrNotFound with the id that was looked up.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("package %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError reports a required field that is missing or malformed.
// Message is fixed per rule and safe to show to users.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DecodeError reports JSON that could not be decoded into a record field,
// either from a request payload or from a stored composite column.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
