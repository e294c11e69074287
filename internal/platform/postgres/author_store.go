package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
	"github.com/phrazzld/shelf-api/internal/store"
)

// PostgresAuthorStore implements store.AuthorStore.
type PostgresAuthorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAuthorStore creates an author store over db.
func NewPostgresAuthorStore(db store.DBTX, logger *slog.Logger) *PostgresAuthorStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAuthorStore{
		db:     db,
		logger: logger.With(slog.String("component", "author_store")),
	}
}

var _ store.AuthorStore = (*PostgresAuthorStore)(nil)

// Create implements store.AuthorStore.Create.
func (s *PostgresAuthorStore) Create(ctx context.Context, a *domain.Author) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO authors (id, name, bio, date_of_birth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Name, a.Bio, nullDate(a.DateOfBirth), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create author",
			slog.String("error", err.Error()),
			slog.String("author_id", a.ID.String()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.AuthorStore.GetByID.
func (s *PostgresAuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	a, err := scanAuthor(s.db.QueryRowContext(ctx, `
		SELECT id, name, bio, date_of_birth, created_at, updated_at
		FROM authors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAuthorNotFound
		}
		return nil, MapError(err)
	}
	return a, nil
}

// List implements store.AuthorStore.List.
func (s *PostgresAuthorStore) List(ctx context.Context) ([]*domain.Author, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, bio, date_of_birth, created_at, updated_at
		FROM authors ORDER BY created_at, id`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	authors := make([]*domain.Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, MapError(err)
		}
		authors = append(authors, a)
	}
	return authors, MapError(rows.Err())
}

// Update implements store.AuthorStore.Update.
func (s *PostgresAuthorStore) Update(ctx context.Context, a *domain.Author) error {
	a.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE authors SET name = $1, bio = $2, date_of_birth = $3, updated_at = $4
		WHERE id = $5`,
		a.Name, a.Bio, nullDate(a.DateOfBirth), a.UpdatedAt, a.ID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrAuthorNotFound)
}

// Delete implements store.AuthorStore.Delete.
func (s *PostgresAuthorStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrAuthorNotFound)
}

func scanAuthor(r rowScanner) (*domain.Author, error) {
	var a domain.Author
	var dob sql.NullTime
	if err := r.Scan(&a.ID, &a.Name, &a.Bio, &dob, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.DateOfBirth = dateFromNull(dob)
	return &a, nil
}
