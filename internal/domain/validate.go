package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

var validate = validator.New()

func isEmail(s string) bool {
	return validate.Var(s, "email") == nil
}

// checkLength records a message on ve when s is longer than max runes.
func checkLength(ve *ValidationError, field, s string, max int) {
	if utf8.RuneCountInString(s) > max {
		ve.Add(field, "Ensure this field has no more than "+strconv.Itoa(max)+" characters.")
	}
}

// checkRequired records a message on ve when s is blank.
func checkRequired(ve *ValidationError, field, s string) bool {
	if strings.TrimSpace(s) == "" {
		ve.Add(field, "This field may not be blank.")
		return false
	}
	return true
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}

// FormatDate renders t as YYYY-MM-DD, or nil when t is nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
