package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
)

// MsgDateFormat is the field message for a date that is not YYYY-MM-DD.
const MsgDateFormat = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."

// NullableDate is a YYYY-MM-DD field that distinguishes absent, null and a
// value. Set is false when the key was not in the body.
type NullableDate struct {
	Set bool
	Raw *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *NullableDate) UnmarshalJSON(b []byte) error {
	d.Set = true
	if string(b) == "null" {
		d.Raw = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	d.Raw = &s
	return nil
}

// Parse returns the date, or nil for null or an empty string. A malformed
// value records a message for field on ve.
func (d NullableDate) Parse(field string, ve *domain.ValidationError) *time.Time {
	if d.Raw == nil {
		return nil
	}
	t, err := domain.ParseDate(*d.Raw)
	if err != nil {
		ve.Add(field, MsgDateFormat)
		return nil
	}
	return t
}

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Email     string       `json:"email"      validate:"required,email,max=254"`
	Password  string       `json:"password"   validate:"required,min=8,max=128"`
	FirstName string       `json:"first_name" validate:"max=150"`
	LastName  string       `json:"last_name"  validate:"max=150"`
	BirthDate NullableDate `json:"birth_date"`
	Image     string       `json:"image"      validate:"max=255"`
}

// RegisterResponse is returned by a successful registration. Token is always
// null; clients log in to obtain one.
type RegisterResponse struct {
	Token *string      `json:"token"`
	User  UserResponse `json:"user"`
}

// LoginRequest defines the payload for the login endpoint. Presence is
// checked by the auth service so the error lands on non_field_errors.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// UserResponse is the public representation of a user. The password is
// never serialized.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate *string   `json:"birth_date"`
	Image     string    `json:"image"`
}

// UserPatchRequest accepts any subset of the writable user fields.
type UserPatchRequest struct {
	Email     *string      `json:"email"`
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	BirthDate NullableDate `json:"birth_date"`
	Image     *string      `json:"image"`
	Password  *string      `json:"password"`
}

// AuthorRequest defines the payload for creating an author.
type AuthorRequest struct {
	Name        string       `json:"name"`
	Bio         string       `json:"bio"`
	DateOfBirth NullableDate `json:"date_of_birth"`
}

// AuthorPatchRequest accepts any subset of the author fields.
type AuthorPatchRequest struct {
	Name        *string      `json:"name"`
	Bio         *string      `json:"bio"`
	DateOfBirth NullableDate `json:"date_of_birth"`
}

// AuthorResponse is the public representation of an author.
type AuthorResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	DateOfBirth *string   `json:"date_of_birth"`
}

// BookRequest defines the payload for creating a book. There is no owner
// field: an "owner" key in the body is ignored.
type BookRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// BookPatchRequest accepts any subset of the writable book fields.
type BookPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// BookResponse is the public representation of a book.
type BookResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Owner       uuid.UUID `json:"owner"`
}

// BookAuthorRequest names both sides of an association by id. The ids stay
// strings here so a malformed one becomes a field error.
type BookAuthorRequest struct {
	Book   string `json:"book"`
	Author string `json:"author"`
}

// BookAuthorPatchRequest accepts either side of an association.
type BookAuthorPatchRequest struct {
	Book   *string `json:"book"`
	Author *string `json:"author"`
}

// BookAuthorResponse is the public representation of an association.
type BookAuthorResponse struct {
	ID     uuid.UUID `json:"id"`
	Book   uuid.UUID `json:"book"`
	Author uuid.UUID `json:"author"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		BirthDate: domain.FormatDate(u.BirthDate),
		Image:     u.Image,
	}
}

func authorToResponse(a *domain.Author) AuthorResponse {
	return AuthorResponse{
		ID:          a.ID,
		Name:        a.Name,
		Bio:         a.Bio,
		DateOfBirth: domain.FormatDate(a.DateOfBirth),
	}
}

func bookToResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Owner:       b.OwnerID,
	}
}

func bookAuthorToResponse(ba *domain.BookAuthor) BookAuthorResponse {
	return BookAuthorResponse{
		ID:     ba.ID,
		Book:   ba.BookID,
		Author: ba.AuthorID,
	}
}
