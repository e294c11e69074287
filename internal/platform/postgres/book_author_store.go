package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
	"github.com/phrazzld/shelf-api/internal/store"
)

// PostgresBookAuthorStore implements store.BookAuthorStore.
type PostgresBookAuthorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookAuthorStore creates a book/author association store over db.
func NewPostgresBookAuthorStore(db store.DBTX, logger *slog.Logger) *PostgresBookAuthorStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBookAuthorStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_author_store")),
	}
}

var _ store.BookAuthorStore = (*PostgresBookAuthorStore)(nil)

// Create implements store.BookAuthorStore.Create.
func (s *PostgresBookAuthorStore) Create(ctx context.Context, ba *domain.BookAuthor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO book_authors (id, book_id, author_id, created_at)
		VALUES ($1, $2, $3, $4)`,
		ba.ID, ba.BookID, ba.AuthorID, ba.CreatedAt)
	if err != nil {
		return s.mapWriteError(ctx, err, ba)
	}
	return nil
}

// GetByID implements store.BookAuthorStore.GetByID.
func (s *PostgresBookAuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.BookAuthor, error) {
	var ba domain.BookAuthor
	err := s.db.QueryRowContext(ctx, `
		SELECT id, book_id, author_id, created_at
		FROM book_authors WHERE id = $1`, id,
	).Scan(&ba.ID, &ba.BookID, &ba.AuthorID, &ba.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBookAuthorNotFound
		}
		return nil, MapError(err)
	}
	return &ba, nil
}

// List implements store.BookAuthorStore.List.
func (s *PostgresBookAuthorStore) List(
	ctx context.Context,
	filter store.BookAuthorFilter,
) ([]*domain.BookAuthor, error) {
	var where []string
	var args []any
	if filter.BookID != nil {
		args = append(args, *filter.BookID)
		where = append(where, fmt.Sprintf("book_id = $%d", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		where = append(where, fmt.Sprintf("author_id = $%d", len(args)))
	}

	query := `SELECT id, book_id, author_id, created_at FROM book_authors`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	links := make([]*domain.BookAuthor, 0)
	for rows.Next() {
		var ba domain.BookAuthor
		if err := rows.Scan(&ba.ID, &ba.BookID, &ba.AuthorID, &ba.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		links = append(links, &ba)
	}
	return links, MapError(rows.Err())
}

// Update implements store.BookAuthorStore.Update.
func (s *PostgresBookAuthorStore) Update(ctx context.Context, ba *domain.BookAuthor) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE book_authors SET book_id = $1, author_id = $2
		WHERE id = $3`,
		ba.BookID, ba.AuthorID, ba.ID)
	if err != nil {
		return s.mapWriteError(ctx, err, ba)
	}
	return CheckRowsAffected(result, store.ErrBookAuthorNotFound)
}

// Delete implements store.BookAuthorStore.Delete.
func (s *PostgresBookAuthorStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM book_authors WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrBookAuthorNotFound)
}

// mapWriteError turns a foreign key violation into a StoreError naming the
// missing side of the association.
func (s *PostgresBookAuthorStore) mapWriteError(ctx context.Context, err error, ba *domain.BookAuthor) error {
	switch constraint := foreignKeyConstraint(err); {
	case strings.Contains(constraint, "book_id"):
		return store.NewStoreError("book_author", "write", "book does not exist",
			fmt.Errorf("%w: book %s", store.ErrInvalidEntity, ba.BookID))
	case strings.Contains(constraint, "author_id"):
		return store.NewStoreError("book_author", "write", "author does not exist",
			fmt.Errorf("%w: author %s", store.ErrInvalidEntity, ba.AuthorID))
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("failed to write book author",
		slog.String("error", err.Error()),
		slog.String("book_author_id", ba.ID.String()))
	return MapError(err)
}
