package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requestWithLogger returns a request whose context carries a JSON logger
// writing to buf.
func requestWithLogger(buf *bytes.Buffer) *http.Request {
	l := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	ctx := logger.WithLogger(req.Context(), l)
	ctx = context.WithValue(ctx, TraceIDKey, "test-trace-id")
	return req.WithContext(ctx)
}

func TestRespondWithJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		data         interface{}
		expectedBody string
	}{
		{
			name:         "object",
			status:       http.StatusOK,
			data:         map[string]interface{}{"message": "success"},
			expectedBody: `{"message":"success"}` + "\n",
		},
		{
			name:         "created list",
			status:       http.StatusCreated,
			data:         []int{1, 2},
			expectedBody: "[1,2]\n",
		},
		{
			name:         "nil",
			status:       http.StatusOK,
			data:         nil,
			expectedBody: "null\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			RespondWithJSON(w, req, tc.status, tc.data)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedBody, w.Body.String())
		})
	}
}

type unencodable struct {
	Circular *unencodable
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	var buf bytes.Buffer
	req := requestWithLogger(&buf)
	w := httptest.NewRecorder()

	data := &unencodable{}
	data.Circular = data

	RespondWithJSON(w, req, http.StatusOK, data)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	var buf bytes.Buffer
	req := requestWithLogger(&buf)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid request")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Invalid request", response.Error)
	assert.Equal(t, "test-trace-id", response.TraceID)
	assert.Nil(t, response.Fields)
	assert.NotContains(t, w.Body.String(), "fields")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name             string
		statusCode       int
		err              error
		opts             []ResponseOption
		expectedLogLevel string
	}{
		{
			name:             "server error",
			statusCode:       http.StatusInternalServerError,
			err:              errors.New("database connection failed"),
			expectedLogLevel: "ERROR",
		},
		{
			name:             "client error",
			statusCode:       http.StatusNotFound,
			err:              errors.New("row missing"),
			expectedLogLevel: "DEBUG",
		},
		{
			name:             "elevated client error",
			statusCode:       http.StatusUnauthorized,
			err:              errors.New("bad token"),
			opts:             []ResponseOption{WithElevatedLogLevel()},
			expectedLogLevel: "WARN",
		},
		{
			name:             "rate limited",
			statusCode:       http.StatusTooManyRequests,
			expectedLogLevel: "WARN",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			req := requestWithLogger(&buf)
			w := httptest.NewRecorder()

			RespondWithErrorAndLog(w, req, tc.statusCode, "safe message", tc.err, tc.opts...)

			assert.Equal(t, tc.statusCode, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "safe message", response.Error)
			assert.Equal(t, "test-trace-id", response.TraceID)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tc.expectedLogLevel, entry["level"])
			assert.Equal(t, "test-trace-id", entry["trace_id"])

			if tc.err != nil {
				assert.NotContains(t, w.Body.String(), tc.err.Error(), "raw error must not reach the client")
				assert.Contains(t, entry, "error")
			}
		})
	}
}

func TestRespondWithErrorAndLogRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	req := requestWithLogger(&buf)
	w := httptest.NewRecorder()

	err := errors.New("connect failed: postgres://shelf:hunter2@db:5432/shelf")
	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "An unexpected error occurred", err)

	assert.NotContains(t, buf.String(), "hunter2")
	assert.NotContains(t, w.Body.String(), "postgres://")
}

func TestRespondWithValidationError(t *testing.T) {
	var buf bytes.Buffer
	req := requestWithLogger(&buf)
	w := httptest.NewRecorder()

	ve := domain.NewValidationError("password", "Ensure this field has at least 8 characters.", nil)
	ve.Add("email", "Enter a valid email address.")

	RespondWithValidationError(w, req, ve)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Validation failed", response.Error)
	assert.Equal(t, []string{"Ensure this field has at least 8 characters."}, response.Fields["password"])
	assert.Equal(t, []string{"Enter a valid email address."}, response.Fields["email"])
}
