package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
	"github.com/phrazzld/shelf-api/internal/store"
)

// PostgresTokenStore implements store.TokenStore.
type PostgresTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTokenStore creates a token store over db.
func NewPostgresTokenStore(db store.DBTX, logger *slog.Logger) *PostgresTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "token_store")),
	}
}

var _ store.TokenStore = (*PostgresTokenStore)(nil)

// WithTx implements store.TokenStore.WithTx.
func (s *PostgresTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return &PostgresTokenStore{db: tx, logger: s.logger}
}

// GetOrCreate implements store.TokenStore.GetOrCreate. Concurrent callers for
// the same user converge on one row through the unique user_id constraint.
func (s *PostgresTokenStore) GetOrCreate(ctx context.Context, candidate *domain.Token) (*domain.Token, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tokens (key, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`,
		candidate.Key, candidate.UserID, candidate.CreatedAt)
	if err != nil {
		log.Error("failed to insert token",
			slog.String("error", err.Error()),
			slog.String("user_id", candidate.UserID.String()))
		return nil, MapError(err)
	}

	var tok domain.Token
	err = s.db.QueryRowContext(ctx,
		`SELECT key, user_id, created_at FROM tokens WHERE user_id = $1`,
		candidate.UserID,
	).Scan(&tok.Key, &tok.UserID, &tok.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Deleted between the insert and the read by a concurrent logout.
			return nil, store.ErrTokenNotFound
		}
		return nil, MapError(err)
	}
	return &tok, nil
}

// GetByKey implements store.TokenStore.GetByKey.
func (s *PostgresTokenStore) GetByKey(ctx context.Context, key string) (*domain.Token, error) {
	var tok domain.Token
	err := s.db.QueryRowContext(ctx,
		`SELECT key, user_id, created_at FROM tokens WHERE key = $1`, key,
	).Scan(&tok.Key, &tok.UserID, &tok.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenNotFound
		}
		return nil, MapError(err)
	}
	return &tok, nil
}

// DeleteByKey implements store.TokenStore.DeleteByKey.
func (s *PostgresTokenStore) DeleteByKey(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE key = $1`, key)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTokenNotFound)
}

// DeleteByUserID implements store.TokenStore.DeleteByUserID.
func (s *PostgresTokenStore) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = $1`, userID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete user token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}
	return nil
}
