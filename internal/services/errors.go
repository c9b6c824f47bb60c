// Package services defines the business logic of the protocol registry.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer. Underlying causes are wrapped with the sentinel so logs
// keep the detail while callers branch with errors.Is.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks invalid input. Concrete failures are returned as
	// *ValidationError, which matches ErrValidation via errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrAllocationConflict is returned when every allocation attempt collided
	// with a concurrently created protocol number.
	ErrAllocationConflict = errors.New("protocol number allocation conflict")

	// ErrAllocationUnavailable is returned when the numbers already issued for
	// a year could not be read, or the year has no sequence numbers left. No
	// number is ever fabricated in either case.
	ErrAllocationUnavailable = errors.New("protocol number allocation unavailable")

	// ErrBackendUnavailable wraps storage failures during reads and writes.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrStoreTimeout is returned when a storage round trip exceeds its deadline.
	ErrStoreTimeout = errors.New("storage round trip timed out")

	// ErrProtocolNotFound indicates that the requested protocol does not exist.
	ErrProtocolNotFound = errors.New("protocol not found")

	// ErrDocumentTypeNotFound indicates that the requested document type does
	// not exist.
	ErrDocumentTypeNotFound = errors.New("document type not found")

	// ErrActivityNotFound indicates that the requested log entry does not exist.
	ErrActivityNotFound = errors.New("activity entry not found")

	// ErrDocumentTypeExists is returned when a create collides with an
	// existing document type.
	ErrDocumentTypeExists = errors.New("document type already exists")

	// ErrImmutableField is returned when an edit tries to change the protocol
	// number or the creation time.
	ErrImmutableField = errors.New("field is immutable")

	// ErrBackupDisabled is returned when a backup is requested without a sink.
	ErrBackupDisabled = errors.New("backups are not configured")
)

// ValidationError describes one invalid input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports ErrValidation as a match.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// wrap attaches cause to a sentinel, keeping the sentinel for errors.Is.
func wrap(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %v", sentinel, cause)
}
