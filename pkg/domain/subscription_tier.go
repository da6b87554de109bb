package domain

// SubscriptionTier is the service level of a user.
type SubscriptionTier string

const (
	SubscriptionTierFree     SubscriptionTier = "FREE"
	SubscriptionTierStandard SubscriptionTier = "STANDARD"
	SubscriptionTierPremium  SubscriptionTier = "PREMIUM"
)

// MaxNameLength bounds tenant names and user full names.
const MaxNameLength = 255

// SubscriptionTiers lists every valid tier in ascending order.
func SubscriptionTiers() []SubscriptionTier {
	return []SubscriptionTier{SubscriptionTierFree, SubscriptionTierStandard, SubscriptionTierPremium}
}

// Valid returns true if t is a known tier.
func (t SubscriptionTier) Valid() bool {
	switch t {
	case SubscriptionTierFree, SubscriptionTierStandard, SubscriptionTierPremium:
		return true
	}
	return false
}

func (t SubscriptionTier) String() string {
	return string(t)
}
