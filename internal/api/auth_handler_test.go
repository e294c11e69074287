package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedFields map[string][]string
	}{
		{
			name: "valid registration",
			body: map[string]interface{}{
				"email":      "Reader@Example.COM",
				"password":   "correct-horse",
				"first_name": "Ada",
				"birth_date": "1990-04-01",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "password too short",
			body:           map[string]string{"email": "short@example.com", "password": "1234567"},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedFields: map[string][]string{
				"password": {"Ensure this field has at least 8 characters."},
			},
		},
		{
			name: "password too long",
			body: map[string]string{
				"email":    "long@example.com",
				"password": strings.Repeat("p", 129),
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedFields: map[string][]string{
				"password": {"Ensure this field has no more than 128 characters."},
			},
		},
		{
			name:           "invalid email and date",
			body:           map[string]string{"email": "nope", "password": "correct-horse", "birth_date": "01/04/1990"},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedFields: map[string][]string{
				"email":      {"Enter a valid email address."},
				"birth_date": {MsgDateFormat},
			},
		},
		{
			name:           "malformed json",
			body:           `{"email": `,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)

			rr := env.do(t, http.MethodPost, "/register", "", tc.body)
			require.Equal(t, tc.expectedStatus, rr.Code, rr.Body.String())

			if tc.expectedFields != nil {
				assert.Equal(t, tc.expectedFields, decodeError(t, rr).Fields)
			}
			if tc.expectedStatus != http.StatusCreated {
				assert.Empty(t, env.users.Users, "nothing should be stored")
				return
			}

			var raw map[string]interface{}
			decodeInto(t, rr, &raw)
			tokenValue, hasToken := raw["token"]
			assert.True(t, hasToken, "response carries a token key")
			assert.Nil(t, tokenValue)

			user := raw["user"].(map[string]interface{})
			assert.Equal(t, "Reader@example.com", user["email"])
			assert.Equal(t, "1990-04-01", user["birth_date"])
			assert.NotContains(t, user, "password")
			assert.NotContains(t, rr.Body.String(), "correct-horse")
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "taken@example.com", false)

	rr := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"email":    "taken@example.com",
		"password": "another-password",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, []string{auth.MsgEmailExists}, decodeError(t, rr).Fields["email"])
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	active, _ := env.createUser(t, "active@example.com", false)
	inactive, _ := env.createUser(t, "inactive@example.com", false)
	env.users.Users[inactive.ID].IsActive = false

	t.Run("success returns token", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/login", "", map[string]string{
			"email":    "active@example.com",
			"password": "correct-horse",
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp LoginResponse
		decodeInto(t, rr, &resp)
		assert.Len(t, resp.Token, 40)
		assert.Equal(t, active.ID, resp.UserID)
		assert.Equal(t, "active@example.com", resp.Email)
	})

	t.Run("repeated login returns the same token", func(t *testing.T) {
		var first, second LoginResponse
		body := map[string]string{"email": "active@example.com", "password": "correct-horse"}
		decodeInto(t, env.do(t, http.MethodPost, "/login", "", body), &first)
		decodeInto(t, env.do(t, http.MethodPost, "/login", "", body), &second)
		assert.Equal(t, first.Token, second.Token)
	})

	failures := []struct {
		name     string
		body     map[string]string
		expected string
	}{
		{"wrong password", map[string]string{"email": "active@example.com", "password": "wrong-horse"}, auth.MsgInvalidCredentials},
		{"unknown email", map[string]string{"email": "ghost@example.com", "password": "correct-horse"}, auth.MsgInvalidCredentials},
		{"inactive user", map[string]string{"email": "inactive@example.com", "password": "correct-horse"}, auth.MsgInvalidCredentials},
		{"missing password", map[string]string{"email": "active@example.com"}, auth.MsgMissingCredentials},
		{"missing email", map[string]string{"password": "correct-horse"}, auth.MsgMissingCredentials},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/login", "", tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

			resp := decodeError(t, rr)
			assert.Equal(t, map[string][]string{domain.NonFieldErrors: {tc.expected}}, resp.Fields)
		})
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "leaving@example.com", false)

	t.Run("anonymous logout is unauthenticated", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/logout", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Token", rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/logout", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, env.tokens.Tokens)

		rr = env.do(t, http.MethodGet, "/books", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "revoked token must not authenticate")
	})

	t.Run("post is not allowed", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/logout", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

// TestSessionScenario walks register, login, logout and a second logout.
func TestSessionScenario(t *testing.T) {
	env := newTestEnv(t)
	creds := map[string]string{"email": "scenario@example.com", "password": "correct-horse"}

	rr := env.do(t, http.MethodPost, "/register", "", creds)
	require.Equal(t, http.StatusCreated, rr.Code)
	var registered map[string]interface{}
	decodeInto(t, rr, &registered)
	assert.Contains(t, registered, "token")

	rr = env.do(t, http.MethodPost, "/login", "", creds)
	require.Equal(t, http.StatusOK, rr.Code)
	var login LoginResponse
	decodeInto(t, rr, &login)
	require.NotEmpty(t, login.Token)
	assert.NotEqual(t, uuid.Nil, login.UserID)

	rr = env.do(t, http.MethodGet, "/logout", login.Token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/logout", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid token.", decodeError(t, rr).Error)
}
