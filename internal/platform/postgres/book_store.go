package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
	"github.com/phrazzld/shelf-api/internal/store"
)

// PostgresBookStore implements store.BookStore.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a book store over db.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

var _ store.BookStore = (*PostgresBookStore)(nil)

// Create implements store.BookStore.Create.
func (s *PostgresBookStore) Create(ctx context.Context, b *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, title, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.Title, b.Description, b.OwnerID, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("book owner does not exist",
				slog.String("book_id", b.ID.String()),
				slog.String("owner_id", b.OwnerID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, b.OwnerID)
		}
		log.Error("failed to create book",
			slog.String("error", err.Error()),
			slog.String("book_id", b.ID.String()))
		return MapError(err)
	}

	log.Info("book created",
		slog.String("book_id", b.ID.String()),
		slog.String("owner_id", b.OwnerID.String()))
	return nil
}

// GetByID implements store.BookStore.GetByID.
func (s *PostgresBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	var b domain.Book
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, owner_id, created_at, updated_at
		FROM books WHERE id = $1`, id,
	).Scan(&b.ID, &b.Title, &b.Description, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBookNotFound
		}
		return nil, MapError(err)
	}
	return &b, nil
}

// List implements store.BookStore.List.
func (s *PostgresBookStore) List(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, owner_id, created_at, updated_at
		FROM books ORDER BY created_at, id`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	books := make([]*domain.Book, 0)
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, MapError(err)
		}
		books = append(books, &b)
	}
	return books, MapError(rows.Err())
}

// Update implements store.BookStore.Update. The owner column is never rewritten.
func (s *PostgresBookStore) Update(ctx context.Context, b *domain.Book) error {
	b.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET title = $1, description = $2, updated_at = $3
		WHERE id = $4`,
		b.Title, b.Description, b.UpdatedAt, b.ID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrBookNotFound)
}

// Delete implements store.BookStore.Delete.
func (s *PostgresBookStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrBookNotFound)
}
