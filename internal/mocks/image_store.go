package mocks

import (
	"context"
	"io"

	"github.com/phrazzld/shelf-api/internal/store"
)

// MockImageStore implements store.ImageStore for testing
type MockImageStore struct {
	PutFn    func(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	DeleteFn func(ctx context.Context, key string) error

	LastKey         string
	LastContentType string
	LastBody        []byte
	Deleted         []string
}

var _ store.ImageStore = (*MockImageStore)(nil)

// Put records the upload and returns a fake URL for key.
func (m *MockImageStore) Put(
	ctx context.Context,
	key, contentType string,
	body io.Reader,
	size int64,
) (string, error) {
	if m.PutFn != nil {
		return m.PutFn(ctx, key, contentType, body, size)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.LastKey, m.LastContentType, m.LastBody = key, contentType, data
	return "https://images.test/" + key, nil
}

// Delete records key as removed.
func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, key)
	}
	m.Deleted = append(m.Deleted, key)
	return nil
}
