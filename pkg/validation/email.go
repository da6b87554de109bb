package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// Email validation regex (stricter than RFC 5322 for practical use)
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

const maxEmailLength = 254 // RFC 5321

// ValidateEmail validates an email address for format and length.
// The address must be a bare addr-spec; display names are rejected.
// Callers validate the NormalizeEmail form, so case is not significant.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if len(email) > maxEmailLength {
		return fmt.Errorf("email is too long (max %d characters)", maxEmailLength)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return fmt.Errorf("email is not a valid email address")
	}

	if !emailRegex.MatchString(addr.Address) {
		return fmt.Errorf("email is not a valid email address")
	}

	return nil
}

// NormalizeEmail normalizes an email address by lowercasing and trimming.
// The local part is lowercased too, so addresses that differ only by case
// are stored as the same email and collide on uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
