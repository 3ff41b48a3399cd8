package wallet

import (
	"time"

	"talespin/internal/domain/energy"
)

// Snapshot is the wire view of a ledger at a point in time.
type Snapshot struct {
	Current      int    `json:"current"`
	EffectiveMax int    `json:"effective_max"`
	Tier         string `json:"tier"`
	BoostActive  bool   `json:"boost_active"`
}

// EntitlementsView mirrors the ledger's unlock flags.
type EntitlementsView struct {
	AdsRemoved bool `json:"ads_removed"`
	Mic        bool `json:"mic"`
	TTS        bool `json:"tts"`
	Sarcasm    bool `json:"sarcasm"`
	Gore       bool `json:"gore"`
	Adult      bool `json:"adult"`
}

// ProfileResponse is the full player view: energy plus entitlements.
type ProfileResponse struct {
	PlayerID     string           `json:"player_id"`
	Energy       Snapshot         `json:"energy"`
	Entitlements EntitlementsView `json:"entitlements"`
}

type SpendRequest struct {
	PlayerID string
	Amount   int `json:"amount"`
}

type PurchaseRequest struct {
	PlayerID  string
	SKU       string `json:"sku"`
	Kind      string `json:"kind"`
	ReceiptID string `json:"receipt_id"`
	GiftDays  int    `json:"gift_days"`
}

type RefillRequest struct {
	PlayerID  string
	ReceiptID string `json:"receipt_id"`
}

// SnapshotOf captures a ledger for the response after passive refill has
// already been applied by the caller.
func SnapshotOf(l *energy.Ledger, now time.Time) Snapshot {
	return Snapshot{
		Current:      l.Current,
		EffectiveMax: l.EffectiveMax(now),
		Tier:         l.TierKey,
		BoostActive:  l.Boost.ActiveAt(now),
	}
}

// EntitlementsOf copies the ledger's unlock flags.
func EntitlementsOf(l *energy.Ledger) EntitlementsView {
	return EntitlementsView{
		AdsRemoved: l.Entitlements.AdsRemoved,
		Mic:        l.Entitlements.Mic,
		TTS:        l.Entitlements.TTS,
		Sarcasm:    l.Entitlements.Sarcasm,
		Gore:       l.Entitlements.Gore,
		Adult:      l.Entitlements.Adult,
	}
}
