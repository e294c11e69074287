package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
	"github.com/phrazzld/shelf-api/internal/service/auth"
)

// Authenticator resolves a token key to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*domain.User, error)
}

// AuthMiddleware provides token authentication for routes.
type AuthMiddleware struct {
	authenticator Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate resolves the Authorization header and stores the caller in the
// request context. A request without a Token header continues anonymously;
// whether that is acceptable is decided later by Authorize.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok, err := auth.KeyFromRequest(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			RespondUnauthorized(w, r, "Invalid token header.", err)
			return
		}

		user, err := m.authenticator.Authenticate(r.Context(), key)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				RespondUnauthorized(w, r, "Invalid token.", err)
			case errors.Is(err, auth.ErrInactiveUser):
				RespondUnauthorized(w, r, "User inactive or deleted.", err)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"Authentication error", err)
			}
			return
		}

		ctx := shared.WithCaller(r.Context(), user)
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With(
			slog.String("user_id", user.ID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RespondUnauthorized writes a 401 carrying the WWW-Authenticate challenge
// for the Token scheme.
func RespondUnauthorized(w http.ResponseWriter, r *http.Request, message string, err error) {
	w.Header().Set("WWW-Authenticate", auth.Keyword)
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, message, err, shared.WithElevatedLogLevel())
}
