package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/peoplehub/events-api/internal/scheduling"
)

// mapServiceError translates the scheduling error taxonomy to HTTP statuses.
// ConflictError is handled by the register handler itself; it is a decision
// outcome, not a failure.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, scheduling.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, scheduling.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, scheduling.ErrPermissionDenied):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, scheduling.ErrDeadlinePassed):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, scheduling.ErrAlreadyRegistered):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, scheduling.ErrConcurrencyConflict):
		// Retryable: the caller should back off and resubmit.
		return huma.Error503ServiceUnavailable(err.Error())
	}
	return huma.Error500InternalServerError(err.Error())
}
