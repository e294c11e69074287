package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/service"
)

// AuthorHandler handles the /authors resource.
type AuthorHandler struct {
	authors service.AuthorService
	logger  *slog.Logger
}

// NewAuthorHandler creates a new AuthorHandler.
func NewAuthorHandler(authors service.AuthorService, logger *slog.Logger) *AuthorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorHandler{authors: authors, logger: logger.With(slog.String("component", "author_handler"))}
}

func (h *AuthorHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.authors.ListAuthors(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list authors")
		return
	}

	resp := make([]AuthorResponse, 0, len(authors))
	for _, a := range authors {
		resp = append(resp, authorToResponse(a))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func (h *AuthorHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req AuthorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ve := &domain.ValidationError{}
	dob := req.DateOfBirth.Parse("date_of_birth", ve)
	if ve.HasErrors() {
		HandleAPIError(w, r, ve, "")
		return
	}

	author, err := h.authors.CreateAuthor(r.Context(), service.AuthorInput{
		Name:        req.Name,
		Bio:         req.Bio,
		DateOfBirth: dob,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create author")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, authorToResponse(author))
}

func (h *AuthorHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	author, err := h.authors.GetAuthor(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve author")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, authorToResponse(author))
}

func (h *AuthorHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	var req AuthorPatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ve := &domain.ValidationError{}
	patch := service.AuthorPatch{
		Name:           req.Name,
		Bio:            req.Bio,
		SetDateOfBirth: req.DateOfBirth.Set,
		DateOfBirth:    req.DateOfBirth.Parse("date_of_birth", ve),
	}
	if ve.HasErrors() {
		HandleAPIError(w, r, ve, "")
		return
	}

	author, err := h.authors.UpdateAuthor(r.Context(), id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update author")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, authorToResponse(author))
}

func (h *AuthorHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	if err := h.authors.DeleteAuthor(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete author")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
