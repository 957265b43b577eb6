package validation

import (
	"errors"
	"strings"
)

// MinInputLength is the minimum rune count accepted for crop and city input.
const MinInputLength = 2

// ErrInputEmpty is returned when input is empty or whitespace-only after trim.
var ErrInputEmpty = errors.New("input is required")

// ErrInputTooShort is returned when input length is below the minimum.
var ErrInputTooShort = errors.New("input too short")

// ValidateInput trims the input and enforces a minimum length in runes.
// Returns the trimmed string. Case is preserved; exit tokens are not checked here.
func ValidateInput(input string, minLen int) (string, error) {
	s := strings.TrimSpace(input)
	n := len([]rune(s))
	if n == 0 {
		return "", ErrInputEmpty
	}
	if minLen > 0 && n < minLen {
		return "", ErrInputTooShort
	}
	return s, nil
}

// IsExitToken reports whether input asks to leave the program ("exit" or "quit",
// any case, surrounding whitespace ignored).
func IsExitToken(input string) bool {
	switch normalize(input) {
	case "exit", "quit":
		return true
	}
	return false
}

// IsAffirmative reports whether input is "yes" or "y".
func IsAffirmative(input string) bool {
	switch normalize(input) {
	case "yes", "y":
		return true
	}
	return false
}

// IsNegative reports whether input is "no" or "n", or an exit token.
func IsNegative(input string) bool {
	switch normalize(input) {
	case "no", "n":
		return true
	}
	return IsExitToken(input)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
