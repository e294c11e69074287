package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/service"
)

// BookHandler handles the /books resource.
type BookHandler struct {
	books  service.BookService
	logger *slog.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(books service.BookService, logger *slog.Logger) *BookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookHandler{books: books, logger: logger.With(slog.String("component", "book_handler"))}
}

// ListBooks handles GET /books.
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListBooks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list books")
		return
	}

	resp := make([]BookResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, bookToResponse(b))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CreateBook handles POST /books. The owner is always the caller.
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if !decodeBody(w, r, &req) {
		return
	}

	book, err := h.books.CreateBook(r.Context(), shared.CallerFromContext(r.Context()), service.BookInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create book")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, bookToResponse(book))
}

// GetBook handles GET /books/{id}.
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	book, err := h.books.GetBook(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve book")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, bookToResponse(book))
}

// UpdateBook handles PATCH /books/{id}.
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	var req BookPatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	book, err := h.books.UpdateBook(r.Context(), id, service.BookPatch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update book")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, bookToResponse(book))
}

// DeleteBook handles DELETE /books/{id}.
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r)
	if !ok {
		return
	}

	if err := h.books.DeleteBook(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete book")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
