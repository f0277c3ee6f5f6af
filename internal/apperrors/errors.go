// Package apperrors defines the typed errors surfaced by the import,
// split and persistence layers. Handlers map these to user-facing
// responses; everything else is treated as an internal failure.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError represents invalid caller input, such as split lines
// that do not sum to the parent amount or an unknown institution name.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// NewSumMismatchError builds a ValidationError reporting the expected
// parent amount against the actual sum of proposed split lines.
func NewSumMismatchError(expected, actual decimal.Decimal) *ValidationError {
	return &ValidationError{
		Field:  "splits",
		Reason: fmt.Sprintf("split amounts must sum to the parent amount: expected %s, got %s", expected.StringFixed(2), actual.StringFixed(2)),
	}
}

// NotFoundError represents a reference to an entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError represents an operation rejected by the current state of
// the target entity (split on an already-split parent, unsplit on a
// transaction without children, split on a split child).
type ConflictError struct {
	Entity string
	ID     string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s %s: %s", e.Entity, e.ID, e.Reason)
}

// StructuralParseError represents input that could not be read as tabular
// data at all. It aborts an import before any writes happen, unlike
// row-scoped parse failures which only drop the offending row.
type StructuralParseError struct {
	FileName string
	Err      error
}

func (e *StructuralParseError) Error() string {
	return fmt.Sprintf("unreadable CSV input %s: %v", e.FileName, e.Err)
}

func (e *StructuralParseError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps an opaque storage-layer failure. It is surfaced
// as-is with the failing operation attached; there is no retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Convenience matchers used by the HTTP layer to map errors to statuses.

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsStructuralParse reports whether err is a StructuralParseError.
func IsStructuralParse(err error) bool {
	var target *StructuralParseError
	return errors.As(err, &target)
}
