package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/service"
	"github.com/phrazzld/shelf-api/internal/store"
)

// BookAuthorHandler handles the /book-authors association resource.
type BookAuthorHandler struct {
	links  service.BookAuthorService
	logger *slog.Logger
}

// NewBookAuthorHandler creates a new BookAuthorHandler.
func NewBookAuthorHandler(links service.BookAuthorService, logger *slog.Logger) *BookAuthorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookAuthorHandler{links: links, logger: logger.With(slog.String("component", "book_author_handler"))}
}

// ListBookAuthors handles GET /book-authors, optionally filtered by
// ?book=<id> and ?author=<id>.
func (h *BookAuthorHandler) ListBookAuthors(w http.ResponseWriter, r *http.Request) {
	var filter store.BookAuthorFilter
	params := []struct {
		name string
		dst  **uuid.UUID
	}{
		{"book", &filter.BookID},
		{"author", &filter.AuthorID},
	}
	for _, p := range params {
		raw := r.URL.Query().Get(p.name)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError(p.name, "Must be a valid UUID.", domain.ErrInvalidID), "")
			return
		}
		*p.dst = &id
	}

	links, err := h.links.ListBookAuthors(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list book authors")
		return
	}

	resp := make([]BookAuthorResponse, 0, len(links))
	for _, ba := range links {
		resp = append(resp, bookAuthorToResponse(ba))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CreateBookAuthor handles POST /book-authors.
func (h *BookAuthorHandler) CreateBookAuthor(w http.ResponseWriter, r *http.Request) {
	var req BookAuthorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ve := &domain.ValidationError{}
	in := service.BookAuthorInput{
		BookID:   parseReference(ve, "book", req.Book),
		AuthorID: parseReference(ve, "author", req.Author),
	}
	if ve.HasErrors() {
		HandleAPIError(w, r, ve, "")
		return
	}

	ba, err := h.links.CreateBookAuthor(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create book author")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, bookAuthorToResponse(ba))
}

// GetBookAuthor handles GET /book-authors/{id}.
func (h *BookAuthorHandler) GetBookAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	ba, err := h.links.GetBookAuthor(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve book author")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, bookAuthorToResponse(ba))
}

// UpdateBookAuthor handles PATCH /book-authors/{id}.
func (h *BookAuthorHandler) UpdateBookAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	var req BookAuthorPatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ve := &domain.ValidationError{}
	var patch service.BookAuthorPatch
	if req.Book != nil {
		bookID := parseReference(ve, "book", *req.Book)
		patch.BookID = &bookID
	}
	if req.Author != nil {
		authorID := parseReference(ve, "author", *req.Author)
		patch.AuthorID = &authorID
	}
	if ve.HasErrors() {
		HandleAPIError(w, r, ve, "")
		return
	}

	ba, err := h.links.UpdateBookAuthor(r.Context(), id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update book author")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, bookAuthorToResponse(ba))
}

// DeleteBookAuthor handles DELETE /book-authors/{id}.
func (h *BookAuthorHandler) DeleteBookAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	if err := h.links.DeleteBookAuthor(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete book author")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
