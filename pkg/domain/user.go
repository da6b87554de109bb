package domain

import (
	"github.com/tendant/simple-tenancy/pkg/validation"
)

// User represents a person belonging to exactly one tenant.
type User struct {
	ID               int64            `db:"id"`
	Email            string           `db:"email"`
	FullName         string           `db:"full_name"`
	SubscriptionTier SubscriptionTier `db:"subscription_tier"`
	TenantID         int64            `db:"tenant_id"`
}

// UserCreate is the input for creating a user.
type UserCreate struct {
	Email            string
	FullName         string
	SubscriptionTier SubscriptionTier
	TenantID         int64
}

// UserUpdate is a partial user update. Nil fields are left unchanged.
// The owning tenant cannot be changed after creation.
type UserUpdate struct {
	Email            *string
	FullName         *string
	SubscriptionTier *SubscriptionTier
}

// Normalize trims and validates every field of the create request.
func (c *UserCreate) Normalize() error {
	email, err := normalizeEmail(c.Email)
	if err != nil {
		return err
	}
	fullName, err := normalizeName("full_name", c.FullName)
	if err != nil {
		return err
	}
	if c.SubscriptionTier == "" {
		return &ValidationError{Field: "subscription_tier", Message: "subscription_tier is required"}
	}
	if !c.SubscriptionTier.Valid() {
		return invalidTier()
	}
	if c.TenantID <= 0 {
		return &ValidationError{Field: "tenant_id", Message: "tenant_id must be a positive integer"}
	}

	c.Email = email
	c.FullName = fullName
	return nil
}

// Normalize validates the supplied fields only.
func (u *UserUpdate) Normalize() error {
	if u.Email != nil {
		email, err := normalizeEmail(*u.Email)
		if err != nil {
			return err
		}
		u.Email = &email
	}
	if u.FullName != nil {
		fullName, err := normalizeName("full_name", *u.FullName)
		if err != nil {
			return err
		}
		u.FullName = &fullName
	}
	if u.SubscriptionTier != nil && !u.SubscriptionTier.Valid() {
		return invalidTier()
	}
	return nil
}

// IsEmpty returns true if no field is set.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.FullName == nil && u.SubscriptionTier == nil
}

func normalizeEmail(email string) (string, error) {
	normalized := validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(normalized); err != nil {
		return "", &ValidationError{Field: "email", Message: err.Error()}
	}
	return normalized, nil
}

func normalizeName(field, value string) (string, error) {
	cleaned := validation.CleanString(value)
	if err := validation.ValidateStringLength(field, cleaned, 1, MaxNameLength); err != nil {
		return "", &ValidationError{Field: field, Message: err.Error()}
	}
	return cleaned, nil
}

func invalidTier() error {
	return &ValidationError{
		Field:   "subscription_tier",
		Message: "subscription_tier must be one of FREE, STANDARD, PREMIUM",
	}
}
