package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/store"
)

// MockTokenStore implements store.TokenStore for testing
type MockTokenStore struct {
	GetOrCreateFn    func(ctx context.Context, candidate *domain.Token) (*domain.Token, error)
	GetByKeyFn       func(ctx context.Context, key string) (*domain.Token, error)
	DeleteByKeyFn    func(ctx context.Context, key string) error
	DeleteByUserIDFn func(ctx context.Context, userID uuid.UUID) error

	mu     sync.Mutex
	Tokens map[string]*domain.Token
}

// NewMockTokenStore creates an empty in-memory token store.
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{Tokens: make(map[string]*domain.Token)}
}

var _ store.TokenStore = (*MockTokenStore)(nil)

// GetOrCreate implements store.TokenStore.
func (m *MockTokenStore) GetOrCreate(ctx context.Context, candidate *domain.Token) (*domain.Token, error) {
	if m.GetOrCreateFn != nil {
		return m.GetOrCreateFn(ctx, candidate)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tokens {
		if t.UserID == candidate.UserID {
			cp := *t
			return &cp, nil
		}
	}
	cp := *candidate
	m.Tokens[candidate.Key] = &cp
	return candidate, nil
}

// GetByKey implements store.TokenStore.
func (m *MockTokenStore) GetByKey(ctx context.Context, key string) (*domain.Token, error) {
	if m.GetByKeyFn != nil {
		return m.GetByKeyFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tokens[key]
	if !ok {
		return nil, store.ErrTokenNotFound
	}
	cp := *t
	return &cp, nil
}

// DeleteByKey implements store.TokenStore.
func (m *MockTokenStore) DeleteByKey(ctx context.Context, key string) error {
	if m.DeleteByKeyFn != nil {
		return m.DeleteByKeyFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Tokens[key]; !ok {
		return store.ErrTokenNotFound
	}
	delete(m.Tokens, key)
	return nil
}

// DeleteByUserID implements store.TokenStore.
func (m *MockTokenStore) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteByUserIDFn != nil {
		return m.DeleteByUserIDFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, t := range m.Tokens {
		if t.UserID == userID {
			delete(m.Tokens, k)
		}
	}
	return nil
}

// WithTx returns the same mock; transactions are not simulated.
func (m *MockTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return m
}
