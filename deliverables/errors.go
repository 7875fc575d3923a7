/*
errors.go - Centralized error types for the tracker

PURPOSE:
  Sentinel errors shared by the storage and API layers. The engine itself
  never fails: missing baseline means target 0, missing override falls
  through to the baseline, empty completions sum to 0. Invalid input is
  rejected at the boundary before it ever reaches the engine.
*/
package deliverables

import (
	"errors"
	"fmt"
)

var (
	// ErrClientNotFound is returned when a referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrInvalidQuantity is returned for non-numeric, negative-target, or
	// zero completion quantities at the input boundary.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidDate is returned for malformed or non-Monday week dates at
	// the input boundary.
	ErrInvalidDate = errors.New("invalid date")
)

// QuantityError carries the offending value alongside ErrInvalidQuantity.
type QuantityError struct {
	Field string
	Value int
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("invalid quantity for %s: %d", e.Field, e.Value)
}

func (e *QuantityError) Unwrap() error { return ErrInvalidQuantity }

// IsClientError reports whether the error is due to bad caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidDate)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound)
}
