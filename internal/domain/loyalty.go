package domain

type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "bronze"
	TierSilver   LoyaltyTier = "silver"
	TierGold     LoyaltyTier = "gold"
	TierPlatinum LoyaltyTier = "platinum"
)

// LoyaltyTierFor maps a client's completed reservation count to a tier.
func LoyaltyTierFor(completed int64) LoyaltyTier {
	switch {
	case completed >= 30:
		return TierPlatinum
	case completed >= 15:
		return TierGold
	case completed >= 5:
		return TierSilver
	default:
		return TierBronze
	}
}
