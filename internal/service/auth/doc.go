// Package auth implements token authentication: registration, login with
// bcrypt-checked credentials, one opaque token per user, and logout.
package auth
