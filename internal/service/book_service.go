package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
	"github.com/phrazzld/shelf-api/internal/store"
)

// BookInput carries the client-writable fields of a new book. The owner is
// not among them; it is always the creating caller.
type BookInput struct {
	Title       string
	Description string
}

// BookPatch lists the fields a PATCH may change.
type BookPatch struct {
	Title       *string
	Description *string
}

// BookService manages books.
type BookService interface {
	// CreateBook stores a book owned by caller.
	CreateBook(ctx context.Context, caller *domain.User, in BookInput) (*domain.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, patch BookPatch) (*domain.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
}

type bookService struct {
	books  store.BookStore
	logger *slog.Logger
}

// NewBookService creates a BookService over books.
func NewBookService(books store.BookStore, logger *slog.Logger) BookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookService{books: books, logger: logger.With(slog.String("component", "book_service"))}
}

func (s *bookService) CreateBook(ctx context.Context, caller *domain.User, in BookInput) (*domain.Book, error) {
	if caller == nil {
		return nil, errors.New("book creation requires an authenticated caller")
	}

	b, err := domain.NewBook(in.Title, in.Description, caller.ID)
	if err != nil {
		return nil, err
	}
	if err := s.books.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return b, nil
}

func (s *bookService) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve book: %w", err)
	}
	return b, nil
}

func (s *bookService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

func (s *bookService) UpdateBook(ctx context.Context, id uuid.UUID, patch BookPatch) (*domain.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve book: %w", err)
	}

	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	if err := s.books.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return b, nil
}

func (s *bookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("book deleted", slog.String("book_id", id.String()))
	return nil
}
