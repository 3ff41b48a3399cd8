package energy

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Unix(1700000000, 0)

func freshLedger() *Ledger {
	return NewLedger("p1", t0)
}

func TestNewLedger_FreeTierFilled(t *testing.T) {
	l := freshLedger()
	if l.TierKey != TierFree || l.BaseCap != 30 || l.Current != 30 {
		t.Fatalf("fresh ledger = %+v", l)
	}
}

func TestApplyPassiveRefill_WholeUnitsOnly(t *testing.T) {
	l := freshLedger()
	l.Current = 0

	// 4 minutes is less than one free-tier unit: nothing granted and the
	// clock must not advance, or the fraction would be lost.
	if gained := l.ApplyPassiveRefill(t0.Add(4 * time.Minute)); gained != 0 {
		t.Fatalf("gained %d before a whole unit elapsed", gained)
	}
	if !l.LastUpdateAt.Equal(t0) {
		t.Fatalf("clock advanced on zero gain")
	}

	if gained := l.ApplyPassiveRefill(t0.Add(15 * time.Minute)); gained != 3 {
		t.Fatalf("gained %d after 15m, want 3", gained)
	}
	if l.Current != 3 || !l.LastUpdateAt.Equal(t0.Add(15*time.Minute)) {
		t.Fatalf("post-refill state current=%d lastUpdate=%v", l.Current, l.LastUpdateAt)
	}
}

func TestApplyPassiveRefill_ClampsAtEffectiveMax(t *testing.T) {
	l := freshLedger()
	l.Current = 29
	if gained := l.ApplyPassiveRefill(t0.Add(100 * time.Minute)); gained != 1 {
		t.Fatalf("gained %d, want clamp to 1", gained)
	}
	if l.Current != 30 {
		t.Fatalf("current = %d, want cap", l.Current)
	}
}

func TestSpend(t *testing.T) {
	l := freshLedger()
	l.Current = 0
	if err := l.Spend(1, t0); !errors.Is(err, ErrInsufficientEnergy) {
		t.Fatalf("spend on empty pool: %v", err)
	}
	// Refill happens before the check: 10 minutes grants 2 units.
	if err := l.Spend(1, t0.Add(10*time.Minute)); err != nil {
		t.Fatalf("spend after refill: %v", err)
	}
	if l.Current != 1 {
		t.Fatalf("current = %d, want 1", l.Current)
	}
}

func TestGrantDailyGift_RollingWindow(t *testing.T) {
	l := freshLedger()
	l.Current = 0
	added, err := l.GrantDailyGift(t0)
	if err != nil || added != 3 {
		t.Fatalf("first claim added=%d err=%v", added, err)
	}

	_, err = l.GrantDailyGift(t0.Add(1 * time.Hour))
	if !errors.Is(err, ErrDailyAlreadyClaimed) {
		t.Fatalf("second claim inside window: %v", err)
	}
	var claimed *DailyAlreadyClaimedError
	if !errors.As(err, &claimed) || claimed.RetryAfter != 23*time.Hour {
		t.Fatalf("retry-after = %+v", err)
	}

	l.Current = 0
	if _, err := l.GrantDailyGift(t0.Add(25 * time.Hour)); err != nil {
		t.Fatalf("claim after window: %v", err)
	}
}

func TestGrantAdReward(t *testing.T) {
	l := freshLedger()
	l.Current = 0
	l.LastUpdateAt = t0
	added, err := l.GrantAdReward(t0)
	if err != nil || added != AdRewardAmount {
		t.Fatalf("ad claim added=%d err=%v", added, err)
	}

	_, err = l.GrantAdReward(t0.Add(3 * time.Minute))
	if !errors.Is(err, ErrAdCooldownActive) {
		t.Fatalf("claim inside cooldown: %v", err)
	}
	var cooldown *AdCooldownError
	if !errors.As(err, &cooldown) || cooldown.RetryAfter != 7*time.Minute {
		t.Fatalf("cooldown retry-after = %+v", err)
	}

	l.TierKey = TierStandard
	if _, err := l.GrantAdReward(t0.Add(time.Hour)); !errors.Is(err, ErrAdsNotAvailable) {
		t.Fatalf("paid tier ad claim: %v", err)
	}
}

func TestExtendBoost_NeverStacksPercent(t *testing.T) {
	l := freshLedger()
	l.ExtendBoost(t0, 7)
	if l.Boost.Percent != BoostPercent {
		t.Fatalf("boost percent = %d", l.Boost.Percent)
	}
	if got := l.EffectiveMax(t0.Add(time.Hour)); got != 36 {
		t.Fatalf("boosted max = %d, want 36", got)
	}

	// A second purchase extends from the current expiry, not from now.
	l.ExtendBoost(t0.Add(24*time.Hour), 7)
	want := t0.Add(14 * 24 * time.Hour)
	if !l.Boost.ExpiresAt.Equal(want) {
		t.Fatalf("extended expiry = %v, want %v", l.Boost.ExpiresAt, want)
	}
	if l.Boost.Percent != BoostPercent {
		t.Fatalf("boost percent stacked: %d", l.Boost.Percent)
	}
}

func TestBoostExpiry_ClampsPool(t *testing.T) {
	l := freshLedger()
	l.ExtendBoost(t0, 1)
	l.Current = 36
	l.ApplyPassiveRefill(t0.Add(48 * time.Hour))
	if l.Current != 30 {
		t.Fatalf("current after boost expiry = %d, want 30", l.Current)
	}
}

func TestApplySubscription_UnionAndTopUp(t *testing.T) {
	l := freshLedger()
	l.Entitlements.Gore = true
	l.Current = 5
	l.LastUpdateAt = t0

	if err := l.ApplySubscription(TierUltimate, t0); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if l.TierKey != TierUltimate || l.BaseCap != 85 {
		t.Fatalf("tier state = %+v", l)
	}
	if l.Current != 85 {
		t.Fatalf("grown capacity did not top up: current = %d", l.Current)
	}
	e := l.Entitlements
	if !e.Mic || !e.TTS || !e.AdsRemoved || !e.Gore {
		t.Fatalf("entitlements after upgrade = %+v", e)
	}

	// Downgrade keeps purchased and previously granted flags.
	if err := l.ApplySubscription(TierStandard, t0); err != nil {
		t.Fatalf("downgrade: %v", err)
	}
	e = l.Entitlements
	if !e.Mic || !e.TTS || !e.Gore {
		t.Fatalf("downgrade revoked entitlements: %+v", e)
	}
	if l.BaseCap != 45 {
		t.Fatalf("downgrade cap = %d", l.BaseCap)
	}

	if err := l.ApplySubscription("free", t0); !errors.Is(err, ErrUnknownSKU) {
		t.Fatalf("free is not purchasable: %v", err)
	}
}

func TestApplyOneTime(t *testing.T) {
	l := freshLedger()
	for _, sku := range []string{"remove_ads", "mic_tts_bundle", "sarcasm", "adult"} {
		if err := l.ApplyOneTime(sku); err != nil {
			t.Fatalf("apply %s: %v", sku, err)
		}
	}
	e := l.Entitlements
	if !e.AdsRemoved || !e.Mic || !e.TTS || !e.Sarcasm || !e.Adult {
		t.Fatalf("one-time entitlements = %+v", e)
	}
	if err := l.ApplyOneTime("jetpack"); !errors.Is(err, ErrUnknownSKU) {
		t.Fatalf("unknown sku: %v", err)
	}
}
