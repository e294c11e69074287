package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookAuthor links one book to one author. The same pair may be linked more
// than once; nothing enforces uniqueness.
type BookAuthor struct {
	ID        uuid.UUID `json:"id"`
	BookID    uuid.UUID `json:"book"`
	AuthorID  uuid.UUID `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBookAuthor creates a validated association.
func NewBookAuthor(bookID, authorID uuid.UUID) (*BookAuthor, error) {
	ba := &BookAuthor{
		ID:        uuid.New(),
		BookID:    bookID,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := ba.Validate(); err != nil {
		return nil, err
	}
	return ba, nil
}

// Validate checks that both ends of the association are set.
func (ba *BookAuthor) Validate() error {
	ve := &ValidationError{}
	if ba.ID == uuid.Nil {
		ve.Add("id", "This field is required.")
	}
	if ba.BookID == uuid.Nil {
		ve.Add("book", "This field is required.")
	}
	if ba.AuthorID == uuid.Nil {
		ve.Add("author", "This field is required.")
	}
	return ve.ErrorOrNil()
}
