// Package validate provides centralized input validation and sanitization
// utilities for the API. Profanity screening lives in the profanity package;
// this package covers structural constraints on user input.
package validate

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// String validation errors
var (
	ErrStringTooShort    = errors.New("string is too short")
	ErrStringTooLong     = errors.New("string is too long")
	ErrInvalidCharacters = errors.New("string contains invalid characters")
	ErrEmpty             = errors.New("string is empty")
)

// StringConstraints defines validation constraints for a string.
type StringConstraints struct {
	MinLength      int            // Minimum length (0 = no minimum)
	MaxLength      int            // Maximum length (0 = no maximum)
	AllowedPattern *regexp.Regexp // Optional regex pattern for allowed characters
	AllowEmpty     bool           // Whether empty strings are allowed
	TrimSpace      bool           // Whether to trim whitespace before validation
}

// String validates a string against the given constraints.
// Returns the validated (and optionally trimmed) string and an error if validation fails.
func String(s string, constraints StringConstraints) (string, error) {
	if constraints.TrimSpace {
		s = strings.TrimSpace(s)
	}

	if s == "" {
		if !constraints.AllowEmpty {
			return "", ErrEmpty
		}
		return s, nil
	}

	// Character count, not byte count
	length := utf8.RuneCountInString(s)

	if constraints.MinLength > 0 && length < constraints.MinLength {
		return "", fmt.Errorf("%w: got %d chars, need at least %d", ErrStringTooShort, length, constraints.MinLength)
	}

	if constraints.MaxLength > 0 && length > constraints.MaxLength {
		return "", fmt.Errorf("%w: got %d chars, maximum is %d", ErrStringTooLong, length, constraints.MaxLength)
	}

	if constraints.AllowedPattern != nil && !constraints.AllowedPattern.MatchString(s) {
		return "", fmt.Errorf("%w: does not match required pattern", ErrInvalidCharacters)
	}

	return s, nil
}

// SanitizeHTML escapes HTML special characters to prevent XSS attacks.
// This should be called on all user-generated text that will be displayed in HTML.
func SanitizeHTML(s string) string {
	return html.EscapeString(s)
}

// namePattern allows letters, spaces, hyphens, apostrophes, and periods.
var namePattern = regexp.MustCompile(`^[\p{L}\p{M}' .-]+$`)

// NameConstraints are the constraints applied to roster first and last names.
var NameConstraints = StringConstraints{
	MinLength:      1,
	MaxLength:      100,
	AllowedPattern: namePattern,
	TrimSpace:      true,
}

// ReviewTextConstraints are the constraints applied to review text.
// Empty text is allowed; rating-only reviews carry no text.
var ReviewTextConstraints = StringConstraints{
	MaxLength:  2000,
	AllowEmpty: true,
	TrimSpace:  true,
}

// SchoolNameConstraints are the constraints applied to school names.
var SchoolNameConstraints = StringConstraints{
	MinLength: 2,
	MaxLength: 200,
	TrimSpace: true,
}

// Name validates a person name field.
func Name(s string) (string, error) {
	return String(s, NameConstraints)
}

// ReviewText validates review body text.
func ReviewText(s string) (string, error) {
	return String(s, ReviewTextConstraints)
}

// SchoolName validates a school name.
func SchoolName(s string) (string, error) {
	return String(s, SchoolNameConstraints)
}
