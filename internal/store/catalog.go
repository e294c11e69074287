package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
)

// AuthorStore defines persistence for authors.
type AuthorStore interface {
	Create(ctx context.Context, author *domain.Author) error
	// GetByID returns ErrAuthorNotFound if the author does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error)
	List(ctx context.Context) ([]*domain.Author, error)
	Update(ctx context.Context, author *domain.Author) error
	// Delete also removes the author's BookAuthor rows.
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookStore defines persistence for books.
type BookStore interface {
	// Create returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, book *domain.Book) error
	// GetByID returns ErrBookNotFound if the book does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	// Delete also removes the book's BookAuthor rows.
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookAuthorFilter narrows BookAuthorStore.List. Nil fields match everything.
type BookAuthorFilter struct {
	BookID   *uuid.UUID
	AuthorID *uuid.UUID
}

// BookAuthorStore defines persistence for book/author associations.
type BookAuthorStore interface {
	// Create returns ErrInvalidEntity if the book or author does not exist.
	Create(ctx context.Context, ba *domain.BookAuthor) error
	// GetByID returns ErrBookAuthorNotFound if the association does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BookAuthor, error)
	List(ctx context.Context, filter BookAuthorFilter) ([]*domain.BookAuthor, error)
	Update(ctx context.Context, ba *domain.BookAuthor) error
	Delete(ctx context.Context, id uuid.UUID) error
}
