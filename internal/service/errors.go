package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotOwned indicates a resource belongs to a different user than the
	// caller and the caller is not staff. API layer maps this to 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrUnsupportedImage indicates an upload that is not a supported image type.
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// invalidPK is the message recorded when a referenced record does not exist.
func invalidPK(id uuid.UUID) string {
	return fmt.Sprintf("Invalid pk %q - object does not exist.", id.String())
}
