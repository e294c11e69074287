package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/authz"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authenticatorFunc func(ctx context.Context, key string) (*domain.User, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, key string) (*domain.User, error) {
	return f(ctx, key)
}

// callerRecorder is a terminal handler that records the caller it saw.
type callerRecorder struct {
	called bool
	caller *domain.User
}

func (c *callerRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.called = true
	c.caller = shared.CallerFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	active := &domain.User{ID: uuid.New(), Email: "reader@example.com", IsActive: true}

	authenticator := authenticatorFunc(func(_ context.Context, key string) (*domain.User, error) {
		switch key {
		case "good-key":
			return active, nil
		case "inactive-key":
			return nil, auth.ErrInactiveUser
		case "broken-key":
			return nil, errors.New("connection reset")
		default:
			return nil, auth.ErrInvalidToken
		}
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedCaller *domain.User
		expectNext     bool
		expectedError  string
	}{
		{
			name:           "valid token",
			authHeader:     "Token good-key",
			expectedStatus: http.StatusOK,
			expectedCaller: active,
			expectNext:     true,
		},
		{
			name:           "keyword is case insensitive",
			authHeader:     "token good-key",
			expectedStatus: http.StatusOK,
			expectedCaller: active,
			expectNext:     true,
		},
		{
			name:           "no header is anonymous",
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "other scheme is anonymous",
			authHeader:     "Bearer something",
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "keyword without key",
			authHeader:     "Token",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token header.",
		},
		{
			name:           "keyword with extra parts",
			authHeader:     "Token good-key extra",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token header.",
		},
		{
			name:           "unknown key",
			authHeader:     "Token revoked-key",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token.",
		},
		{
			name:           "inactive user",
			authHeader:     "Token inactive-key",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "User inactive or deleted.",
		},
		{
			name:           "store failure",
			authHeader:     "Token broken-key",
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Authentication error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			next := &callerRecorder{}
			handler := NewAuthMiddleware(authenticator).Authenticate(next)

			req := httptest.NewRequest(http.MethodGet, "/books", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectNext, next.called)
			assert.Equal(t, tc.expectedCaller, next.caller)

			if tc.expectedError != "" {
				var resp shared.ErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tc.expectedError, resp.Error)
				assert.NotContains(t, rr.Body.String(), "connection reset")
			}
			if tc.expectedStatus == http.StatusUnauthorized {
				assert.Equal(t, "Token", rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	member := &domain.User{ID: uuid.New(), IsActive: true}
	admin := &domain.User{ID: uuid.New(), IsActive: true, IsStaff: true}

	tests := []struct {
		name           string
		action         authz.Action
		caller         *domain.User
		expectedStatus int
	}{
		{"admin lists users", authz.List, admin, http.StatusOK},
		{"member cannot list users", authz.List, member, http.StatusForbidden},
		{"anonymous cannot list users", authz.List, nil, http.StatusUnauthorized},
		{"anyone retrieves a user", authz.Retrieve, nil, http.StatusOK},
		{"create is undeclared", authz.Create, admin, http.StatusForbidden},
		{"anonymous create is unauthenticated", authz.Create, nil, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			next := &callerRecorder{}
			handler := Authorize(authz.UserPolicy, tc.action)(next)

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tc.caller != nil {
				req = req.WithContext(shared.WithCaller(req.Context(), tc.caller))
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedStatus == http.StatusOK, next.called)
			if tc.expectedStatus == http.StatusUnauthorized {
				assert.Equal(t, "Token", rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
