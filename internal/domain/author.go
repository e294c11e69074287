package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxTitleLength bounds author names and book titles.
const MaxTitleLength = 255

// Author is a person credited on one or more books.
type Author struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Bio         string     `json:"bio"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewAuthor creates a validated Author with a fresh ID.
func NewAuthor(name, bio string, dateOfBirth *time.Time) (*Author, error) {
	now := time.Now().UTC()
	a := &Author{
		ID:          uuid.New(),
		Name:        name,
		Bio:         bio,
		DateOfBirth: dateOfBirth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the author's fields.
func (a *Author) Validate() error {
	ve := &ValidationError{}
	if a.ID == uuid.Nil {
		ve.Add("id", "This field is required.")
	}
	if checkRequired(ve, "name", a.Name) {
		checkLength(ve, "name", a.Name, MaxTitleLength)
	}
	return ve.ErrorOrNil()
}
