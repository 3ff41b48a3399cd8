package energy

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	BoostPercent    = 20
	DefaultGiftDays = 7

	DailyGiftWindow = 24 * time.Hour
	AdCooldown      = 10 * time.Minute
	AdRewardAmount  = 5
)

var (
	ErrInsufficientEnergy  = errors.New("insufficient energy")
	ErrDailyAlreadyClaimed = errors.New("daily gift already claimed")
	ErrAdCooldownActive    = errors.New("ad reward cooldown active")
	ErrAdsNotAvailable     = errors.New("ad rewards not available for tier")
	ErrUnknownSKU          = errors.New("unknown sku")
)

type DailyAlreadyClaimedError struct {
	RetryAfter time.Duration
}

func (e *DailyAlreadyClaimedError) Error() string { return ErrDailyAlreadyClaimed.Error() }
func (e *DailyAlreadyClaimedError) Unwrap() error { return ErrDailyAlreadyClaimed }

type AdCooldownError struct {
	RetryAfter time.Duration
}

func (e *AdCooldownError) Error() string { return ErrAdCooldownActive.Error() }
func (e *AdCooldownError) Unwrap() error { return ErrAdCooldownActive }

// Boost is the non-stackable +20% capacity gift. Percent is always 0 or 20;
// purchases only ever extend the expiry.
type Boost struct {
	Percent   int       `json:"percent"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (b Boost) ActiveAt(now time.Time) bool {
	return b.Percent == BoostPercent && !b.ExpiresAt.IsZero() && b.ExpiresAt.After(now)
}

// Entitlements are one-time or tier-linked feature flags. Union is
// monotonic: a tier change never revokes a purchased entitlement.
type Entitlements struct {
	AdsRemoved bool `json:"ads_removed"`
	Mic        bool `json:"mic"`
	TTS        bool `json:"tts"`
	Sarcasm    bool `json:"sarcasm"`
	Gore       bool `json:"gore"`
	Adult      bool `json:"adult"`
}

func (e Entitlements) Union(o Entitlements) Entitlements {
	return Entitlements{
		AdsRemoved: e.AdsRemoved || o.AdsRemoved,
		Mic:        e.Mic || o.Mic,
		TTS:        e.TTS || o.TTS,
		Sarcasm:    e.Sarcasm || o.Sarcasm,
		Gore:       e.Gore || o.Gore,
		Adult:      e.Adult || o.Adult,
	}
}

// Ledger is one player's regenerating energy pool plus the purchase-derived
// state hanging off it. All mutation happens under the repository's
// per-player critical section.
type Ledger struct {
	PlayerID     string       `json:"player_id"`
	TierKey      string       `json:"tier"`
	Current      int          `json:"current"`
	BaseCap      int          `json:"base_cap"`
	LastUpdateAt time.Time    `json:"last_update_at"`
	Boost        Boost        `json:"boost"`
	Entitlements Entitlements `json:"entitlements"`

	LastDailyGiftAt time.Time `json:"last_daily_gift_at"`
	LastAdClaimAt   time.Time `json:"last_ad_claim_at"`
}

// NewLedger creates a free-tier ledger filled to cap, the lazy first-touch
// state for an unseen player.
func NewLedger(playerID string, now time.Time) *Ledger {
	tier := TierOrDefault(TierFree)
	return &Ledger{
		PlayerID:     playerID,
		TierKey:      tier.Key,
		Current:      tier.Cap,
		BaseCap:      tier.Cap,
		LastUpdateAt: now,
	}
}

func (l *Ledger) Tier() Tier {
	return TierOrDefault(l.TierKey)
}

// EffectiveMax is the capped pool size including the boost when active.
func (l *Ledger) EffectiveMax(now time.Time) int {
	mult := 1.0
	if l.Boost.ActiveAt(now) {
		mult = 1.20
	}
	max := int(math.Floor(float64(l.BaseCap) * mult))
	if max < 0 {
		return 0
	}
	return max
}

// ApplyPassiveRefill grants floor(elapsedMinutes / minsPerUnit) units. The
// clock only advances when at least one whole unit was granted, so fractional
// progress is never lost. Always clamps down to the effective max afterward,
// which also covers boost expiry.
func (l *Ledger) ApplyPassiveRefill(now time.Time) int {
	effectiveMax := l.EffectiveMax(now)
	elapsed := now.Sub(l.LastUpdateAt)
	if elapsed < 0 {
		elapsed = 0
	}
	minsPerUnit := l.Tier().RefillMinsPerUnit
	gained := 0
	if minsPerUnit > 0 {
		gained = int(math.Floor(elapsed.Minutes() / minsPerUnit))
	}
	actuallyGained := 0
	if gained > 0 {
		next := l.Current + gained
		if next > effectiveMax {
			next = effectiveMax
		}
		actuallyGained = next - l.Current
		if actuallyGained < 0 {
			actuallyGained = 0
		}
		l.Current = next
		l.LastUpdateAt = now
	}
	if l.Current > effectiveMax {
		l.Current = effectiveMax
	}
	return actuallyGained
}

// Spend refills first, then decrements, failing without mutation of the
// balance when the pool is short.
func (l *Ledger) Spend(amount int, now time.Time) error {
	if amount <= 0 {
		return fmt.Errorf("spend amount %d: %w", amount, ErrInsufficientEnergy)
	}
	l.ApplyPassiveRefill(now)
	if l.Current < amount {
		return ErrInsufficientEnergy
	}
	l.Current -= amount
	return nil
}

// GrantDailyGift adds the tier's daily amount once per rolling 24h window.
// Returns the amount actually added, which may be less than configured when
// the pool is near cap.
func (l *Ledger) GrantDailyGift(now time.Time) (int, error) {
	l.ApplyPassiveRefill(now)
	if !l.LastDailyGiftAt.IsZero() {
		elapsed := now.Sub(l.LastDailyGiftAt)
		if elapsed < DailyGiftWindow {
			return 0, &DailyAlreadyClaimedError{RetryAfter: DailyGiftWindow - elapsed}
		}
	}
	added := l.addClamped(l.Tier().DailyGift, now)
	l.LastDailyGiftAt = now
	return added, nil
}

// GrantAdReward adds the fixed ad amount, free tier only, under a fixed
// cooldown.
func (l *Ledger) GrantAdReward(now time.Time) (int, error) {
	l.ApplyPassiveRefill(now)
	if l.TierKey != TierFree {
		return 0, ErrAdsNotAvailable
	}
	if !l.LastAdClaimAt.IsZero() {
		elapsed := now.Sub(l.LastAdClaimAt)
		if elapsed < AdCooldown {
			return 0, &AdCooldownError{RetryAfter: AdCooldown - elapsed}
		}
	}
	added := l.addClamped(AdRewardAmount, now)
	l.LastAdClaimAt = now
	return added, nil
}

// ExtendBoost (re-)extends the non-stackable +20% boost. The percentage never
// layers; only the expiry moves, from the later of now and the current expiry.
func (l *Ledger) ExtendBoost(now time.Time, days int) Boost {
	if days < 1 {
		days = 1
	}
	base := now
	if l.Boost.ExpiresAt.After(base) {
		base = l.Boost.ExpiresAt
	}
	l.Boost = Boost{
		Percent:   BoostPercent,
		ExpiresAt: base.Add(time.Duration(days) * 24 * time.Hour),
	}
	return l.Boost
}

// ApplySubscription switches the tier, re-deriving the base capacity and the
// tier-linked entitlement flags while preserving previously purchased
// entitlements. When the base capacity grew, the pool tops up to the new
// effective max.
func (l *Ledger) ApplySubscription(sku string, now time.Time) error {
	if !IsSubscriptionSKU(sku) {
		return fmt.Errorf("subscription %q: %w", sku, ErrUnknownSKU)
	}
	prevBaseCap := l.BaseCap
	owned := l.Entitlements

	tier := TierOrDefault(sku)
	l.TierKey = tier.Key
	l.BaseCap = tier.Cap
	l.Entitlements = owned.Union(Entitlements{
		AdsRemoved: !tier.Ads,
		Mic:        tier.Mic,
		TTS:        tier.TTS,
	})

	// Comparing base caps matches comparing the new base cap against the
	// previous effective capacity: every tier cap exceeds the next smaller
	// cap by more than the boost percentage, so no boosted smaller cap can
	// reach a larger base cap.
	if l.BaseCap > prevBaseCap {
		l.Current = l.EffectiveMax(now)
	}
	return nil
}

// ApplyOneTime idempotently sets a single named entitlement flag.
func (l *Ledger) ApplyOneTime(sku string) error {
	switch sku {
	case "remove_ads":
		l.Entitlements.AdsRemoved = true
	case "mic":
		l.Entitlements.Mic = true
	case "tts":
		l.Entitlements.TTS = true
	case "mic_tts_bundle":
		l.Entitlements.Mic = true
		l.Entitlements.TTS = true
	case "sarcasm":
		l.Entitlements.Sarcasm = true
	case "gore":
		l.Entitlements.Gore = true
	case "adult":
		l.Entitlements.Adult = true
	default:
		return fmt.Errorf("one_time %q: %w", sku, ErrUnknownSKU)
	}
	return nil
}

// RefillToMax fills the pool to the current effective max (purchase refill).
func (l *Ledger) RefillToMax(now time.Time) {
	l.Current = l.EffectiveMax(now)
}

// ClampToMax re-applies the capacity invariant after any external mutation.
func (l *Ledger) ClampToMax(now time.Time) {
	if max := l.EffectiveMax(now); l.Current > max {
		l.Current = max
	}
}

func (l *Ledger) addClamped(amount int, now time.Time) int {
	if amount <= 0 {
		return 0
	}
	max := l.EffectiveMax(now)
	before := l.Current
	next := before + amount
	if next > max {
		next = max
	}
	if next < before {
		next = before
	}
	l.Current = next
	return next - before
}
