package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is the opaque credential issued at login. A user holds at most one.
type Token struct {
	Key       string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
