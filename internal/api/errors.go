package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/shelf-api/internal/api/middleware"
	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/authz"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/service"
	"github.com/phrazzld/shelf-api/internal/service/auth"
	"github.com/phrazzld/shelf-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	// Authentication errors
	case errors.Is(err, authz.ErrNotAuthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInactiveUser),
		errors.Is(err, auth.ErrMalformedHeader):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, authz.ErrPermissionDenied),
		errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrStorageNotConfigured):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err. Unknown errors
// get a generic message so internals never reach the client.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"

	case errors.Is(err, authz.ErrNotAuthenticated):
		return "Authentication credentials were not provided."
	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid token."
	case errors.Is(err, auth.ErrInactiveUser):
		return "User inactive or deleted."
	case errors.Is(err, auth.ErrMalformedHeader):
		return "Invalid token header."

	case errors.Is(err, authz.ErrPermissionDenied),
		errors.Is(err, service.ErrNotOwned):
		return "You do not have permission to perform this action."

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrBookNotFound):
		return "Book not found"
	case errors.Is(err, store.ErrAuthorNotFound):
		return "Author not found"
	case errors.Is(err, store.ErrBookAuthorNotFound):
		return "Book author not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found."

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.Is(err, store.ErrStorageNotConfigured):
		return "Image storage is not configured"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for err. Validation errors carry their
// per-field messages; server errors use defaultMsg when it is set.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)

	switch status {
	case http.StatusUnprocessableEntity:
		shared.RespondWithValidationError(w, r, err)
		return
	case http.StatusUnauthorized:
		middleware.RespondUnauthorized(w, r, GetSafeErrorMessage(err), err)
		return
	}

	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		msg = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}
