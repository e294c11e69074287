package mocks

import (
	"context"

	"github.com/phrazzld/shelf-api/internal/store"
)

// MockTransactor implements store.Transactor by calling fn with a nil
// transaction. Store mocks ignore the transaction in WithTx.
type MockTransactor struct {
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error
	Calls              int
}

var _ store.Transactor = (*MockTransactor)(nil)

// RunInTransaction implements store.Transactor.
func (m *MockTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	return fn(ctx, nil)
}
