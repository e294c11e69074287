package domain

import (
	"time"

	"github.com/google/uuid"
)

// Book is a catalogue entry owned by the user who created it.
// Authors are linked through BookAuthor records rather than embedded.
type Book struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewBook creates a validated Book owned by owner.
func NewBook(title, description string, owner uuid.UUID) (*Book, error) {
	now := time.Now().UTC()
	b := &Book{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		OwnerID:     owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the book's fields.
func (b *Book) Validate() error {
	ve := &ValidationError{}
	if b.ID == uuid.Nil {
		ve.Add("id", "This field is required.")
	}
	if checkRequired(ve, "title", b.Title) {
		checkLength(ve, "title", b.Title, MaxTitleLength)
	}
	if b.OwnerID == uuid.Nil {
		ve.Add("owner", "This field is required.")
	}
	return ve.ErrorOrNil()
}
