package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/auth"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/gcal"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/sage"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var sageErr *sage.APIError

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// Leave domain errors
	case errors.Is(err, leave.ErrMappingNotFound):
		NotFound(w, "Leave request calendar event not found")
	case errors.Is(err, leave.ErrSyncInProgress):
		Conflict(w, "Sync already in progress")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "Invalid date range", nil)

	// Upstream errors
	case errors.Is(err, gcal.ErrNotFound):
		NotFound(w, "Calendar event not found")
	case errors.As(err, &sageErr):
		BadGateway(w, "Sage HR request failed")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
