package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestUserCreate_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		input     UserCreate
		wantField string
		want      UserCreate
	}{
		{
			name: "valid",
			input: UserCreate{
				Email:            "  A@Acme.com ",
				FullName:         "  Alice  ",
				SubscriptionTier: SubscriptionTierFree,
				TenantID:         1,
			},
			want: UserCreate{
				Email:            "a@acme.com",
				FullName:         "Alice",
				SubscriptionTier: SubscriptionTierFree,
				TenantID:         1,
			},
		},
		{
			name:      "invalid email",
			input:     UserCreate{Email: "not-an-email", FullName: "A", SubscriptionTier: SubscriptionTierFree, TenantID: 1},
			wantField: "email",
		},
		{
			name:      "missing email",
			input:     UserCreate{FullName: "A", SubscriptionTier: SubscriptionTierFree, TenantID: 1},
			wantField: "email",
		},
		{
			name:      "blank full name",
			input:     UserCreate{Email: "a@acme.com", FullName: "   ", SubscriptionTier: SubscriptionTierFree, TenantID: 1},
			wantField: "full_name",
		},
		{
			name:      "full name too long",
			input:     UserCreate{Email: "a@acme.com", FullName: strings.Repeat("x", MaxNameLength+1), SubscriptionTier: SubscriptionTierFree, TenantID: 1},
			wantField: "full_name",
		},
		{
			name:      "missing tier",
			input:     UserCreate{Email: "a@acme.com", FullName: "A", TenantID: 1},
			wantField: "subscription_tier",
		},
		{
			name:      "unknown tier",
			input:     UserCreate{Email: "a@acme.com", FullName: "A", SubscriptionTier: "GOLD", TenantID: 1},
			wantField: "subscription_tier",
		},
		{
			name:      "lowercase tier is not accepted",
			input:     UserCreate{Email: "a@acme.com", FullName: "A", SubscriptionTier: "free", TenantID: 1},
			wantField: "subscription_tier",
		},
		{
			name:      "missing tenant",
			input:     UserCreate{Email: "a@acme.com", FullName: "A", SubscriptionTier: SubscriptionTierPremium},
			wantField: "tenant_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input
			err := got.Normalize()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Normalize() unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Normalize() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestUserUpdate_Normalize(t *testing.T) {
	premium := SubscriptionTierPremium
	gold := SubscriptionTier("GOLD")

	t.Run("only supplied fields are touched", func(t *testing.T) {
		u := UserUpdate{SubscriptionTier: &premium}
		if err := u.Normalize(); err != nil {
			t.Fatalf("Normalize() unexpected error: %v", err)
		}
		if u.Email != nil || u.FullName != nil {
			t.Errorf("absent fields should stay nil: %+v", u)
		}
		if *u.SubscriptionTier != SubscriptionTierPremium {
			t.Errorf("SubscriptionTier = %v, want PREMIUM", *u.SubscriptionTier)
		}
	})

	t.Run("supplied fields are normalized", func(t *testing.T) {
		u := UserUpdate{Email: stringPtr(" B@Acme.com"), FullName: stringPtr(" Bob ")}
		if err := u.Normalize(); err != nil {
			t.Fatalf("Normalize() unexpected error: %v", err)
		}
		if *u.Email != "b@acme.com" {
			t.Errorf("Email = %q", *u.Email)
		}
		if *u.FullName != "Bob" {
			t.Errorf("FullName = %q", *u.FullName)
		}
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		cases := []UserUpdate{
			{Email: stringPtr("nope")},
			{FullName: stringPtr("")},
			{SubscriptionTier: &gold},
		}
		for _, u := range cases {
			if err := u.Normalize(); !IsValidation(err) {
				t.Errorf("Normalize(%+v) error = %v, want validation error", u, err)
			}
		}
	})

	t.Run("empty update", func(t *testing.T) {
		u := UserUpdate{}
		if !u.IsEmpty() {
			t.Error("IsEmpty() should be true")
		}
		if err := u.Normalize(); err != nil {
			t.Errorf("Normalize() unexpected error: %v", err)
		}
	})
}

func TestSubscriptionTier_Valid(t *testing.T) {
	for _, tier := range SubscriptionTiers() {
		if !tier.Valid() {
			t.Errorf("%s should be valid", tier)
		}
	}
	for _, tier := range []SubscriptionTier{"", "free", "GOLD"} {
		if tier.Valid() {
			t.Errorf("%q should be invalid", tier)
		}
	}
}

// Helper function
func stringPtr(s string) *string {
	return &s
}
