package domain

import "errors"

// Lookup errors
var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrUserNotFound   = errors.New("user not found")
)

// Conflict errors
var (
	ErrTenantNameTaken = errors.New("tenant with that name already exists")
	ErrEmailTaken      = errors.New("user with that email already exists")
)

// Referential errors
var (
	ErrTenantReference = errors.New("referenced tenant does not exist")
)

// ErrStorage wraps storage failures that map to no other kind.
var ErrStorage = errors.New("storage error")

// ValidationError reports malformed input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err means a tenant or user does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTenantNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTenantReference)
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrTenantNameTaken) || errors.Is(err, ErrEmailTaken)
}
