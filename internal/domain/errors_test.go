package domain

import (
	"errors"
	"testing"
)

func TestValidationError(t *testing.T) {
	ve := &ValidationError{}
	if ve.ErrorOrNil() != nil {
		t.Fatal("Expected nil for empty ValidationError")
	}

	ve.Add("title", "This field may not be blank.")
	ve.Merge(NewValidationError("email", "Enter a valid email address.", ErrInvalidEmail))

	err := ve.ErrorOrNil()
	if err == nil {
		t.Fatal("Expected error")
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("Expected errors.Is(err, ErrValidation)")
	}
	if !errors.Is(err, ErrInvalidEmail) {
		t.Error("Expected cause to be merged")
	}

	want := "validation failed: email: Enter a valid email address.; title: This field may not be blank."
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}
