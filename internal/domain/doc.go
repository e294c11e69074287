// Package domain contains the core business entities of the catalogue (users,
// authors, books, the book/author association and authentication tokens) together
// with their field-level validation rules. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
