package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// NonFieldErrors is the field key used for errors that are not tied to a
// single input field, such as failed credential checks.
const NonFieldErrors = "non_field_errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Every *ValidationError matches it with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidDate is returned when a date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
)

// ValidationError collects per-field messages. It is the single error type
// used for field constraint violations, uniqueness conflicts and credential
// failures, so that all of them are rendered the same way on the wire.
type ValidationError struct {
	Fields map[string][]string
	// Cause optionally classifies the failure (e.g. ErrInvalidEmail).
	Cause error
}

// NewValidationError creates a ValidationError holding a single field message.
func NewValidationError(field, message string, cause error) *ValidationError {
	e := &ValidationError{Cause: cause}
	e.Add(field, message)
	return e
}

// Add appends message to field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Merge copies every message from other into e.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		for _, m := range msgs {
			e.Add(field, m)
		}
	}
	if e.Cause == nil {
		e.Cause = other.Cause
	}
}

// HasErrors reports whether any message was recorded.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// ErrorOrNil returns e as an error when it holds messages and nil otherwise.
func (e *ValidationError) ErrorOrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// Error implements the error interface. Fields are listed in sorted order.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Unwrap exposes both ErrValidation and the cause to errors.Is/errors.As.
func (e *ValidationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Cause}
}
