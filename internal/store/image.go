package store

import (
	"context"
	"errors"
	"io"
)

// ErrStorageNotConfigured is returned when no object storage backend is set up.
var ErrStorageNotConfigured = errors.New("image storage not configured")

// ImageStore saves uploaded images and returns a reference to store on the
// owning record.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	// Delete removes the object stored under key. Deleting a missing key
	// is not an error.
	Delete(ctx context.Context, key string) error
}
