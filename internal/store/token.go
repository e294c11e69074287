package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
)

// TokenStore persists login tokens. Each user holds at most one token.
type TokenStore interface {
	// GetOrCreate stores candidate unless the user already has a token, and
	// returns whichever token is stored for the user afterwards.
	GetOrCreate(ctx context.Context, candidate *domain.Token) (*domain.Token, error)

	// GetByKey retrieves a token by its key.
	// Returns ErrTokenNotFound if no such token exists.
	GetByKey(ctx context.Context, key string) (*domain.Token, error)

	// DeleteByKey removes a token.
	// Returns ErrTokenNotFound if no such token exists.
	DeleteByKey(ctx context.Context, key string) error

	// DeleteByUserID removes the user's token if there is one.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a TokenStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TokenStore
}
