package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CleanString trims surrounding whitespace and drops control characters.
func CleanString(s string) string {
	return strings.TrimSpace(removeControlChars(s))
}

// ValidateStringLength validates that a string is within the specified length constraints.
// Length is counted in runes. A max of 0 disables the upper bound.
func ValidateStringLength(field, value string, min, max int) error {
	length := utf8.RuneCountInString(value)

	if min > 0 && length < min {
		if min == 1 {
			return fmt.Errorf("%s must not be empty", field)
		}
		return fmt.Errorf("%s must be at least %d characters long", field, min)
	}

	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters long", field, max)
	}

	return nil
}

// removeControlChars removes control characters except newline and tab.
func removeControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
