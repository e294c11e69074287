package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func requestWithParam(name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetPathUUID(t *testing.T) {
	valid := uuid.New()

	tests := []struct {
		name    string
		value   string
		want    uuid.UUID
		wantErr bool
	}{
		{name: "valid", value: valid.String(), want: valid},
		{name: "missing", value: "", wantErr: true},
		{name: "malformed", value: "12345", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := getPathUUID(requestWithParam("id", tc.value), "id")
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidID)
				assert.Equal(t, uuid.Nil, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseReference(t *testing.T) {
	id := uuid.New()
	ve := &domain.ValidationError{}

	assert.Equal(t, id, parseReference(ve, "book", " "+id.String()+" "))
	assert.False(t, ve.HasErrors())

	assert.Equal(t, uuid.Nil, parseReference(ve, "book", ""))
	assert.Equal(t, uuid.Nil, parseReference(ve, "author", "7"))
	assert.Equal(t, map[string][]string{
		"book":   {"This field is required."},
		"author": {`Invalid pk "7" - object does not exist.`},
	}, ve.Fields)
}

func TestDecodeBodyEmpty(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books", nil)

	var v BookRequest
	assert.False(t, decodeBody(rr, req, &v))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
