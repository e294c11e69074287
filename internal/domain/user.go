package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Password and field limits.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxEmailLength    = 254
	MaxNameLength     = 150
	MaxImageLength    = 255
)

// User represents a registered reader. The email address is the login name.
// Users are never hard-deleted; deactivation clears IsActive.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	BirthDate      *time.Time `json:"birth_date"`
	Image          string     `json:"image"`
	Password       string     `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string     `json:"-"` // Never expose password hash in JSON
	IsActive       bool       `json:"-"`
	IsStaff        bool       `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// UserOption sets an optional field on a User built by NewUser.
type UserOption func(*User)

// WithProfile sets the descriptive fields of a new user.
func WithProfile(firstName, lastName string, birthDate *time.Time, image string) UserOption {
	return func(u *User) {
		u.FirstName = firstName
		u.LastName = lastName
		u.BirthDate = birthDate
		u.Image = image
	}
}

// WithStaff marks a new user as an administrator.
func WithStaff(staff bool) UserOption {
	return func(u *User) { u.IsStaff = staff }
}

// NewUser creates an active User with the given email and password; it is
// not staff unless WithStaff says so. The email's domain part is normalised
// to lower case. Returns a *ValidationError listing every failing field.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password string, opts ...UserOption) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Password:  password,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(user)
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data and returns a *ValidationError
// describing every failing field.
func (u *User) Validate() error {
	ve := &ValidationError{}

	if u.ID == uuid.Nil {
		ve.Add("id", "This field is required.")
	}

	if checkRequired(ve, "email", u.Email) {
		if !isEmail(u.Email) {
			ve.Add("email", "Enter a valid email address.")
			ve.Cause = ErrInvalidEmail
		}
		checkLength(ve, "email", u.Email, MaxEmailLength)
	}

	checkLength(ve, "first_name", u.FirstName, MaxNameLength)
	checkLength(ve, "last_name", u.LastName, MaxNameLength)
	checkLength(ve, "image", u.Image, MaxImageLength)

	if u.Password != "" {
		if msg, ok := CheckPasswordLength(u.Password); !ok {
			ve.Add("password", msg)
			ve.Cause = ErrInvalidPassword
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store carry only the hash.
		ve.Add("password", "This field may not be blank.")
		ve.Cause = ErrInvalidPassword
	}

	return ve.ErrorOrNil()
}

// CheckPasswordLength reports whether password is within
// [MinPasswordLength, MaxPasswordLength] characters, returning the
// message to show when it is not.
func CheckPasswordLength(password string) (string, bool) {
	n := utf8.RuneCountInString(password)
	switch {
	case n < MinPasswordLength:
		return "Ensure this field has at least " + strconv.Itoa(MinPasswordLength) + " characters.", false
	case n > MaxPasswordLength:
		return "Ensure this field has no more than " + strconv.Itoa(MaxPasswordLength) + " characters.", false
	default:
		return "", true
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases the domain part.
// The local part is left untouched since it may be case sensitive.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
