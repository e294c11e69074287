package middleware

import (
	"errors"
	"net/http"

	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/authz"
)

// Authorize rejects the request unless policy grants action to the caller
// that Authenticate placed in the context. It must run after Authenticate.
func Authorize(policy authz.Policy, action authz.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := policy.Check(action, shared.CallerFromContext(r.Context()))
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, authz.ErrNotAuthenticated):
				RespondUnauthorized(w, r, "Authentication credentials were not provided.", err)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden,
					"You do not have permission to perform this action.", err)
			}
		})
	}
}
