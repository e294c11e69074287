package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
	"github.com/phrazzld/shelf-api/internal/store"
)

// AuthorInput carries the fields for a new author.
type AuthorInput struct {
	Name        string
	Bio         string
	DateOfBirth *time.Time
}

// AuthorPatch lists the fields a PATCH may change.
type AuthorPatch struct {
	Name           *string
	Bio            *string
	DateOfBirth    *time.Time
	SetDateOfBirth bool
}

// AuthorService manages authors.
type AuthorService interface {
	CreateAuthor(ctx context.Context, in AuthorInput) (*domain.Author, error)
	GetAuthor(ctx context.Context, id uuid.UUID) (*domain.Author, error)
	ListAuthors(ctx context.Context) ([]*domain.Author, error)
	UpdateAuthor(ctx context.Context, id uuid.UUID, patch AuthorPatch) (*domain.Author, error)
	DeleteAuthor(ctx context.Context, id uuid.UUID) error
}

type authorService struct {
	authors store.AuthorStore
	logger  *slog.Logger
}

// NewAuthorService creates an AuthorService over authors.
func NewAuthorService(authors store.AuthorStore, logger *slog.Logger) AuthorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authorService{authors: authors, logger: logger.With(slog.String("component", "author_service"))}
}

func (s *authorService) CreateAuthor(ctx context.Context, in AuthorInput) (*domain.Author, error) {
	a, err := domain.NewAuthor(in.Name, in.Bio, in.DateOfBirth)
	if err != nil {
		return nil, err
	}
	if err := s.authors.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("author created", slog.String("author_id", a.ID.String()))
	return a, nil
}

func (s *authorService) GetAuthor(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	a, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve author: %w", err)
	}
	return a, nil
}

func (s *authorService) ListAuthors(ctx context.Context) ([]*domain.Author, error) {
	authors, err := s.authors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	return authors, nil
}

func (s *authorService) UpdateAuthor(ctx context.Context, id uuid.UUID, patch AuthorPatch) (*domain.Author, error) {
	a, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve author: %w", err)
	}

	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Bio != nil {
		a.Bio = *patch.Bio
	}
	if patch.SetDateOfBirth {
		a.DateOfBirth = patch.DateOfBirth
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if err := s.authors.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	return a, nil
}

func (s *authorService) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	if err := s.authors.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("author deleted", slog.String("author_id", id.String()))
	return nil
}
