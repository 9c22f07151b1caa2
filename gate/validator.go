package gate

import (
	"strings"
	"unicode/utf8"
)

// Validator enforces query length bounds. Length is counted in runes after trimming.
type Validator struct {
	MinLength int
	MaxLength int
}

// NewValidator creates a validator for [minLength, maxLength]
func NewValidator(minLength, maxLength int) Validator {
	return Validator{MinLength: minLength, MaxLength: maxLength}
}

// Validate trims raw and checks its length. Case and inner whitespace are kept.
func (v Validator) Validate(raw string) (string, error) {
	query := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(query)

	if n < v.MinLength {
		return "", &ValidationError{Reason: ErrTooShort, Length: n, Limit: v.MinLength}
	}
	if n > v.MaxLength {
		return "", &ValidationError{Reason: ErrTooLong, Length: n, Limit: v.MaxLength}
	}

	return query, nil
}
