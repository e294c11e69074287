package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the presented token key is unknown.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInactiveUser indicates the token belongs to a deactivated user.
	ErrInactiveUser = errors.New("user inactive or deleted")

	// ErrMalformedHeader indicates an Authorization header using the Token
	// keyword without exactly one key.
	ErrMalformedHeader = errors.New("invalid token header")

	// ErrAuthorization classifies failed credential checks at login. It is
	// always carried inside a *domain.ValidationError on NonFieldErrors.
	ErrAuthorization = errors.New("unable to authenticate")
)

// Login failure messages.
const (
	MsgMissingCredentials = `Must include "email" and "password".`
	MsgInvalidCredentials = "Unable to log in with provided credentials."
	MsgEmailExists        = "user with this email already exists."
)
