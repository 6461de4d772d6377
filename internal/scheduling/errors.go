package scheduling

import (
	"errors"
	"fmt"
	"strings"

	"github.com/peoplehub/events-api/internal/models"
)

// ErrInvalidInput covers malformed intervals, missing identifiers,
// unrecognized recurrence rules and series mutations aimed at
// non-recurring events. Never retryable.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound is returned when a referenced event, registration or employee
// does not exist.
var ErrNotFound = errors.New("not found")

// ErrPermissionDenied is returned when the authorization collaborator rejects
// the actor for the requested action.
var ErrPermissionDenied = errors.New("permission denied")

// ErrDeadlinePassed is returned when a cancellation arrives at or after the
// event's cancellation deadline. Terminal, never retried.
var ErrDeadlinePassed = errors.New("cancellation deadline passed")

// ErrAlreadyRegistered is returned when the employee already holds an active
// (confirmed or waitlisted) registration for the event.
var ErrAlreadyRegistered = errors.New("employee already registered for this event")

// ErrConcurrencyConflict signals that the serializing transaction could not
// complete under contention. Safe for the caller to retry with backoff.
var ErrConcurrencyConflict = errors.New("concurrent modification, retry")

// ConflictError carries the full structured conflict list so callers can
// present every blocking reason at once. It is a decision outcome, not a
// storage failure.
type ConflictError struct {
	Conflicts []models.RegistrationConflict
}

func (e *ConflictError) Error() string {
	kinds := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		kinds[i] = string(c.Type)
	}
	return fmt.Sprintf("registration blocked by %d conflict(s): %s", len(e.Conflicts), strings.Join(kinds, ", "))
}

// wrapStorage classifies storage-layer failures: sqlite lock contention maps
// to the retryable class, everything else propagates as-is.
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked") {
		return fmt.Errorf("%s: %w", op, ErrConcurrencyConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
