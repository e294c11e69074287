package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
)

// getPathUUID extracts a UUID from the URL path parameters. A missing or
// malformed value returns an error wrapping domain.ErrInvalidID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: missing %s", domain.ErrInvalidID, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, paramName)
	}
	return id, nil
}

// handlePathUUID extracts the "id" path parameter, writing a 400 when it is
// not a UUID.
func handlePathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		logger.FromContext(r.Context()).Debug("invalid path id",
			slog.String("value", chi.URLParam(r, "id")))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody decodes the JSON request body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, err, "")
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	return true
}

// parseReference parses an id named in a request body. A blank value is
// "required"; anything that is not a UUID cannot name an existing record.
func parseReference(ve *domain.ValidationError, field, raw string) uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		ve.Add(field, "This field is required.")
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		ve.Add(field, fmt.Sprintf("Invalid pk %q - object does not exist.", raw))
		return uuid.Nil
	}
	return id
}
