package energy

// Tier bundles the per-tier economy rules. Numbers live here, not in the
// ledger logic.
type Tier struct {
	Key               string `json:"key"`
	Label             string `json:"label"`
	Cap               int    `json:"cap"`
	RefillMinsPerUnit float64
	DailyGift         int
	Ads               bool
	Mic               bool
	TTS               bool
	AIImages          bool
}

const (
	TierFree     = "free"
	TierStandard = "standard"
	TierPremium  = "premium"
	TierUltimate = "ultimate"
)

var tiers = map[string]Tier{
	TierFree:     {Key: TierFree, Label: "Free Pass", Cap: 30, RefillMinsPerUnit: 5.0, DailyGift: 3, Ads: true},
	TierStandard: {Key: TierStandard, Label: "Standard Pass", Cap: 45, RefillMinsPerUnit: 3.5, DailyGift: 8},
	TierPremium:  {Key: TierPremium, Label: "Premium Pass", Cap: 60, RefillMinsPerUnit: 2.5, DailyGift: 15, Mic: true, TTS: true},
	TierUltimate: {Key: TierUltimate, Label: "Ultimate Pass", Cap: 85, RefillMinsPerUnit: 1.0, DailyGift: 20, Mic: true, TTS: true, AIImages: true},
}

// TierOrDefault falls back to the free tier when an unknown key sneaks in.
func TierOrDefault(key string) Tier {
	if t, ok := tiers[key]; ok {
		return t
	}
	return tiers[TierFree]
}

// IsSubscriptionSKU reports whether the sku names a purchasable tier.
func IsSubscriptionSKU(sku string) bool {
	_, ok := tiers[sku]
	return ok && sku != TierFree
}
