// Package apperrors defines the error taxonomy shared by the service and HTTP layers.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrDataCorruption = errors.New("data corruption")
)

// ValidationError bad client input, rejected before any work is done
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError creates a validation error
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError unknown entity id
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %v", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError creates a not-found error
func NewNotFoundError(entity string, id interface{}) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// DataCorruptionError a stored blob no longer parses. Never expected in normal operation.
type DataCorruptionError struct {
	Entity string
	ID     interface{}
	Err    error
}

func (e *DataCorruptionError) Error() string {
	return fmt.Sprintf("stored data for %s %v is corrupt: %v", e.Entity, e.ID, e.Err)
}

func (e *DataCorruptionError) Unwrap() error { return e.Err }

func (e *DataCorruptionError) Is(target error) bool { return target == ErrDataCorruption }

// NewDataCorruptionError creates a data corruption error
func NewDataCorruptionError(entity string, id interface{}, err error) error {
	return &DataCorruptionError{Entity: entity, ID: id, Err: err}
}
