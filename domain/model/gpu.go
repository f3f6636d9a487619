package model

// GPUOffer represents a GPU offering quoted by the provider. Offers live only
// for the duration of a single deploy call and are never persisted.
type GPUOffer struct {
	ID          string
	DisplayName string

	// Spot price tiers in USD per hour. Either may be absent.
	CommunitySpotPrice *float64
	SecureSpotPrice    *float64
}

// Name returns the display name, falling back to the provider ID.
func (g *GPUOffer) Name() string {
	if g.DisplayName != "" {
		return g.DisplayName
	}
	return g.ID
}

// MinSpotPrice returns the effective minimum price of the offer, preferring
// the community tier over the secure tier. The second return is false when
// neither tier is quoted.
func (g *GPUOffer) MinSpotPrice() (float64, bool) {
	if g.CommunitySpotPrice != nil {
		return *g.CommunitySpotPrice, true
	}
	if g.SecureSpotPrice != nil {
		return *g.SecureSpotPrice, true
	}
	return 0, false
}
