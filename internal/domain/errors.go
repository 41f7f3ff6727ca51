package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is. Adapters translate them into transport codes.
var (
	// ErrNotFound means the referenced author, single quote or quote does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a write collided with existing state, such as a duplicate raw name.
	ErrConflict = errors.New("conflict")

	// ErrValidation means caller supplied input broke a domain rule.
	ErrValidation = errors.New("validation failed")

	// ErrInconsistent means stored data broke an invariant the service relies on,
	// for example an author with no quotes or an empty quote store.
	ErrInconsistent = errors.New("inconsistent state")

	// ErrUnavailable means a backing store or remote source could not be reached.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError names the missing entity and the key used to look it up.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError builds a NotFoundError for a numeric id.
func NewNotFoundError(entity string, id uint) error {
	return &NotFoundError{Entity: entity, Key: fmt.Sprintf("#%d", id)}
}

// NewNotFoundErrorByKey builds a NotFoundError for a non-numeric lookup key.
func NewNotFoundErrorByKey(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: fmt.Sprintf("%q", key)}
}

// ConflictError reports a uniqueness or linkage collision.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError creates a ConflictError.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError carries the offending field.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError without echoing the value.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a ValidationError that keeps the rejected value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// InconsistencyError describes which stored-data expectation failed.
// It is never the caller's fault and maps to an internal error.
type InconsistencyError struct {
	Invariant string
}

func (e *InconsistencyError) Error() string {
	return "inconsistent state: " + e.Invariant
}

func (e *InconsistencyError) Unwrap() error { return ErrInconsistent }

// NewInconsistencyError creates an InconsistencyError.
func NewInconsistencyError(invariant string) error {
	return &InconsistencyError{Invariant: invariant}
}

// UnavailableError names the dependency that failed.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s unavailable", e.Service)
	}

	return fmt.Sprintf("%s unavailable: %s", e.Service, e.Reason)
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// NewUnavailableError creates an UnavailableError.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool     { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsInconsistent(err error) bool { return errors.Is(err, ErrInconsistent) }
func IsUnavailable(err error) bool  { return errors.Is(err, ErrUnavailable) }
