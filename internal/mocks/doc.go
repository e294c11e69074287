// Package mocks provides centralized mock implementations for testing.
//
// Every mock has function fields (CreateFn, GetByIDFn, ...) that override a
// single method. When a field is nil the mock falls back to an in-memory
// implementation, so a whole request can be driven through handlers,
// services and "stores" without a database:
//
//	users := mocks.NewMockUserStore()
//	users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
//	    return nil, errors.New("boom")
//	}
package mocks
