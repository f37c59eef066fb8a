package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned by catalog lookups when no record has the requested id.
var ErrNotFound = errors.New("not found")

// ErrPostQuotaExceeded is returned when a landlord has used up this month's listing posts
var ErrPostQuotaExceeded = errors.New("monthly post quota exceeded")

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrForbidden          = errors.New("operation not permitted for role")
)

// ValidationError reports a malformed entity or billing input
type ValidationError struct {
	Entity  string `json:"entity"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s: %s", e.Entity, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s %s", e.Entity, e.Field, e.Message)
}

// NewValidationError creates a validation error for an entity field
func NewValidationError(entity, field, message string) *ValidationError {
	return &ValidationError{Entity: entity, Field: field, Message: message}
}

// ConflictError is returned when an upsert is refused at the store boundary
type ConflictError struct {
	Entity string
	ID     uuid.UUID
	Err    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict upserting %s %s: %v", e.Entity, e.ID, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// AuthError is returned by the session gate for failed sign-in or gated operations
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is or wraps a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is or wraps a *ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsAuthError reports whether err is or wraps an *AuthError
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
