package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/store"
)

// BookAuthorInput names both sides of a new association.
type BookAuthorInput struct {
	BookID   uuid.UUID
	AuthorID uuid.UUID
}

// BookAuthorPatch lists the fields a PATCH may change.
type BookAuthorPatch struct {
	BookID   *uuid.UUID
	AuthorID *uuid.UUID
}

// BookAuthorService manages book/author associations. Both referenced
// records must exist; the same pair may be linked more than once.
type BookAuthorService interface {
	CreateBookAuthor(ctx context.Context, in BookAuthorInput) (*domain.BookAuthor, error)
	GetBookAuthor(ctx context.Context, id uuid.UUID) (*domain.BookAuthor, error)
	ListBookAuthors(ctx context.Context, filter store.BookAuthorFilter) ([]*domain.BookAuthor, error)
	UpdateBookAuthor(ctx context.Context, id uuid.UUID, patch BookAuthorPatch) (*domain.BookAuthor, error)
	DeleteBookAuthor(ctx context.Context, id uuid.UUID) error
}

type bookAuthorService struct {
	links   store.BookAuthorStore
	books   store.BookStore
	authors store.AuthorStore
	logger  *slog.Logger
}

// NewBookAuthorService creates a BookAuthorService.
func NewBookAuthorService(
	links store.BookAuthorStore,
	books store.BookStore,
	authors store.AuthorStore,
	logger *slog.Logger,
) BookAuthorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookAuthorService{
		links:   links,
		books:   books,
		authors: authors,
		logger:  logger.With(slog.String("component", "book_author_service")),
	}
}

func (s *bookAuthorService) CreateBookAuthor(ctx context.Context, in BookAuthorInput) (*domain.BookAuthor, error) {
	ba, err := domain.NewBookAuthor(in.BookID, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, ba); err != nil {
		return nil, err
	}
	if err := s.links.Create(ctx, ba); err != nil {
		return nil, s.mapWriteError(err, ba)
	}
	return ba, nil
}

func (s *bookAuthorService) GetBookAuthor(ctx context.Context, id uuid.UUID) (*domain.BookAuthor, error) {
	ba, err := s.links.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve book author: %w", err)
	}
	return ba, nil
}

func (s *bookAuthorService) ListBookAuthors(
	ctx context.Context,
	filter store.BookAuthorFilter,
) ([]*domain.BookAuthor, error) {
	links, err := s.links.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list book authors: %w", err)
	}
	return links, nil
}

func (s *bookAuthorService) UpdateBookAuthor(
	ctx context.Context,
	id uuid.UUID,
	patch BookAuthorPatch,
) (*domain.BookAuthor, error) {
	ba, err := s.links.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve book author: %w", err)
	}

	if patch.BookID != nil {
		ba.BookID = *patch.BookID
	}
	if patch.AuthorID != nil {
		ba.AuthorID = *patch.AuthorID
	}
	if err := ba.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, ba); err != nil {
		return nil, err
	}

	if err := s.links.Update(ctx, ba); err != nil {
		return nil, s.mapWriteError(err, ba)
	}
	return ba, nil
}

func (s *bookAuthorService) DeleteBookAuthor(ctx context.Context, id uuid.UUID) error {
	if err := s.links.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete book author: %w", err)
	}
	return nil
}

// checkReferences records a field error for each side that does not exist.
func (s *bookAuthorService) checkReferences(ctx context.Context, ba *domain.BookAuthor) error {
	ve := &domain.ValidationError{}

	if _, err := s.books.GetByID(ctx, ba.BookID); err != nil {
		if !store.IsNotFoundError(err) {
			return fmt.Errorf("failed to check book: %w", err)
		}
		ve.Add("book", invalidPK(ba.BookID))
	}
	if _, err := s.authors.GetByID(ctx, ba.AuthorID); err != nil {
		if !store.IsNotFoundError(err) {
			return fmt.Errorf("failed to check author: %w", err)
		}
		ve.Add("author", invalidPK(ba.AuthorID))
	}

	return ve.ErrorOrNil()
}

// mapWriteError covers a referenced record deleted between the existence
// check and the write.
func (s *bookAuthorService) mapWriteError(err error, ba *domain.BookAuthor) error {
	var se *store.StoreError
	if errors.Is(err, store.ErrInvalidEntity) && errors.As(err, &se) {
		if strings.HasPrefix(se.Message, "author") {
			return domain.NewValidationError("author", invalidPK(ba.AuthorID), err)
		}
		return domain.NewValidationError("book", invalidPK(ba.BookID), err)
	}
	return fmt.Errorf("failed to write book author: %w", err)
}
