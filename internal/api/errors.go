package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/vocab-srs/internal/api/shared"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/service/auth"
	"github.com/phrazzld/vocab-srs/internal/service/review"
	"github.com/phrazzld/vocab-srs/internal/session"
	"github.com/phrazzld/vocab-srs/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking their types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	case errors.Is(err, review.ErrSessionNotOwned):
		return http.StatusForbidden

	case errors.Is(err, review.ErrSessionNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, session.ErrSubmissionInFlight),
		errors.Is(err, session.ErrNotInProgress):
		return http.StatusConflict

	case errors.Is(err, session.ErrWrongMode),
		errors.Is(err, session.ErrEmptyList):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrInvalidQuality),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, session.ErrInvalidMode),
		errors.Is(err, session.ErrInvalidDirection),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	case errors.Is(err, review.ErrNothingDue):
		return http.StatusNoContent

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, review.ErrSessionNotOwned):
		return "You do not own this session"
	case errors.Is(err, review.ErrSessionNotFound):
		return "Review session not found"

	case errors.Is(err, store.ErrListNotFound):
		return "Word list not found"
	case errors.Is(err, store.ErrWordNotFound):
		return "Word not found"
	case errors.Is(err, store.ErrListExists):
		return "A word list with this name already exists"

	case errors.Is(err, session.ErrSubmissionInFlight):
		return "Another judgment is being processed"
	case errors.Is(err, session.ErrNotInProgress):
		return "Review session is not in progress"
	case errors.Is(err, session.ErrWrongMode):
		return "Operation not available in this mode"
	case errors.Is(err, session.ErrEmptyList):
		return "Word list has no words"
	case errors.Is(err, session.ErrInvalidMode):
		return "Invalid mode"
	case errors.Is(err, session.ErrInvalidDirection):
		return "Invalid direction"

	case errors.Is(err, domain.ErrInvalidQuality):
		return "Quality must be between 0 and 5"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and message mapped from err. A non-empty
// fallback replaces the generic message of 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns validator errors into a short message naming
// the first offending field. Other errors yield "Validation error".
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required", "required_without":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "excluded_with":
		return "conflicts with another field"
	default:
		return "validation failed"
	}
}
