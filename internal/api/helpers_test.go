package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/config"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/mocks"
	"github.com/phrazzld/shelf-api/internal/service"
	"github.com/phrazzld/shelf-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// testEnv wires the real services over in-memory mock stores behind the
// full router.
type testEnv struct {
	users       *mocks.MockUserStore
	tokens      *mocks.MockTokenStore
	books       *mocks.MockBookStore
	authors     *mocks.MockAuthorStore
	bookAuthors *mocks.MockBookAuthorStore
	images      *mocks.MockImageStore
	auth        *auth.Service
	router      http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithImages(t, &mocks.MockImageStore{})
}

// newTestEnvWithImages builds an environment; images may be nil to simulate
// missing object storage.
func newTestEnvWithImages(t *testing.T, images *mocks.MockImageStore) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		users:       mocks.NewMockUserStore(),
		tokens:      mocks.NewMockTokenStore(),
		books:       mocks.NewMockBookStore(),
		authors:     mocks.NewMockAuthorStore(),
		bookAuthors: mocks.NewMockBookAuthorStore(),
		images:      images,
	}
	hasher := &mocks.MockPasswordHasher{}

	authService, err := auth.NewService(env.users, env.tokens, hasher, auth.DefaultTokenBytes, log)
	require.NoError(t, err)
	env.auth = authService

	var userService *service.UserServiceImpl
	if images != nil {
		userService = service.NewUserService(env.users, env.tokens, &mocks.MockTransactor{}, hasher, images, log)
	} else {
		userService = service.NewUserService(env.users, env.tokens, &mocks.MockTransactor{}, hasher, nil, log)
	}

	env.router = NewRouter(RouterDeps{
		Auth:        authService,
		Users:       userService,
		Books:       service.NewBookService(env.books, log),
		Authors:     service.NewAuthorService(env.authors, log),
		BookAuthors: service.NewBookAuthorService(env.bookAuthors, env.books, env.authors, log),
		RateLimit:   config.RateLimitConfig{Requests: 10, WindowSeconds: 60},
		Logger:      log,
	})
	return env
}

// createUser registers a user directly through the auth service and returns
// it together with a fresh token key.
func (e *testEnv) createUser(t *testing.T, email string, staff bool) (*domain.User, string) {
	t.Helper()
	ctx := context.Background()
	user, err := e.auth.Register(ctx, auth.RegisterInput{Email: email, Password: "correct-horse", Staff: staff})
	require.NoError(t, err)
	res, err := e.auth.Login(ctx, email, "correct-horse")
	require.NoError(t, err)
	return user, res.Token
}

// do sends a request through the router. body is JSON encoded unless it is
// already a string or nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

func decodeInto(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}
