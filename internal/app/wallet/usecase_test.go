package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"talespin/internal/adapter/repo/memory"
	"talespin/internal/domain/energy"
)

var testNow = time.Unix(1700000000, 0)

func newFixture(t *testing.T) (*UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.Now = func() time.Time { return testNow }
	uc := &UseCase{
		Ledgers:  store,
		Receipts: store,
		Now:      func() time.Time { return testNow },
	}
	return uc, store
}

func TestUseCase_ProfileCreatesFreeLedger(t *testing.T) {
	uc, _ := newFixture(t)
	resp, err := uc.Profile(context.Background(), "p1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if resp.Energy.Tier != energy.TierFree || resp.Energy.Current != 30 || resp.Energy.EffectiveMax != 30 {
		t.Fatalf("fresh profile = %+v", resp.Energy)
	}
	if resp.Entitlements != (EntitlementsView{}) {
		t.Fatalf("fresh entitlements = %+v", resp.Entitlements)
	}
}

func TestUseCase_Spend(t *testing.T) {
	uc, _ := newFixture(t)
	snap, err := uc.Spend(context.Background(), SpendRequest{PlayerID: "p1", Amount: 2})
	if err != nil {
		t.Fatalf("spend: %v", err)
	}
	if snap.Current != 28 {
		t.Fatalf("current = %d, want 28", snap.Current)
	}

	_, err = uc.Spend(context.Background(), SpendRequest{PlayerID: "p1", Amount: 0})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("zero spend: %v", err)
	}
	_, err = uc.Spend(context.Background(), SpendRequest{PlayerID: "p1", Amount: 100})
	if !errors.Is(err, energy.ErrInsufficientEnergy) {
		t.Fatalf("overspend: %v", err)
	}
}

func TestUseCase_ConfirmPurchase_Subscription(t *testing.T) {
	uc, _ := newFixture(t)
	resp, err := uc.ConfirmPurchase(context.Background(), PurchaseRequest{
		PlayerID: "p1", SKU: energy.TierUltimate, Kind: "subscription", ReceiptID: "r1",
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if resp.Energy.Tier != energy.TierUltimate {
		t.Fatalf("tier = %q", resp.Energy.Tier)
	}
	// Upgrade tops the pool to the pre-boost max; the boost then raises the
	// ceiling without granting units.
	if resp.Energy.Current != 85 || resp.Energy.EffectiveMax != 102 {
		t.Fatalf("energy = %+v", resp.Energy)
	}
	if !resp.Energy.BoostActive {
		t.Fatalf("boost not active after purchase")
	}
	if !resp.Entitlements.AdsRemoved || !resp.Entitlements.Mic || !resp.Entitlements.TTS {
		t.Fatalf("tier entitlements = %+v", resp.Entitlements)
	}
}

func TestUseCase_ConfirmPurchase_OneTime(t *testing.T) {
	uc, _ := newFixture(t)
	resp, err := uc.ConfirmPurchase(context.Background(), PurchaseRequest{
		PlayerID: "p1", SKU: "gore", Kind: "one_time", ReceiptID: "r1",
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !resp.Entitlements.Gore || resp.Entitlements.Adult {
		t.Fatalf("entitlements = %+v", resp.Entitlements)
	}
	if !resp.Energy.BoostActive {
		t.Fatalf("one-time purchase did not extend the boost")
	}
	if resp.Energy.Tier != energy.TierFree {
		t.Fatalf("one-time purchase changed the tier: %q", resp.Energy.Tier)
	}
}

func TestUseCase_ConfirmPurchase_ReceiptReplay(t *testing.T) {
	uc, _ := newFixture(t)
	req := PurchaseRequest{PlayerID: "p1", SKU: energy.TierStandard, Kind: "subscription", ReceiptID: "r1"}
	if _, err := uc.ConfirmPurchase(context.Background(), req); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	_, err := uc.ConfirmPurchase(context.Background(), req)
	if !errors.Is(err, ErrReceiptReplay) {
		t.Fatalf("replay: %v", err)
	}
	// The replay applied nothing: the tier is unchanged and no second boost
	// extension happened.
	resp, err := uc.Profile(context.Background(), "p1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if resp.Energy.Tier != energy.TierStandard || resp.Energy.Current != 45 {
		t.Fatalf("post-replay energy = %+v", resp.Energy)
	}
}

func TestUseCase_ConfirmPurchase_InvalidKind(t *testing.T) {
	uc, _ := newFixture(t)
	_, err := uc.ConfirmPurchase(context.Background(), PurchaseRequest{
		PlayerID: "p1", SKU: "gore", Kind: "gift", ReceiptID: "r1",
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("invalid kind: %v", err)
	}
}

func TestUseCase_Refill(t *testing.T) {
	uc, _ := newFixture(t)
	if _, err := uc.Spend(context.Background(), SpendRequest{PlayerID: "p1", Amount: 12}); err != nil {
		t.Fatalf("spend: %v", err)
	}
	snap, err := uc.Refill(context.Background(), RefillRequest{PlayerID: "p1", ReceiptID: "r1"})
	if err != nil {
		t.Fatalf("refill: %v", err)
	}
	if snap.Current != snap.EffectiveMax {
		t.Fatalf("refill left pool at %d of %d", snap.Current, snap.EffectiveMax)
	}

	_, err = uc.Refill(context.Background(), RefillRequest{PlayerID: "p1", ReceiptID: "r1"})
	if !errors.Is(err, ErrReceiptReplay) {
		t.Fatalf("refill replay: %v", err)
	}
}

func TestUseCase_ClaimDaily(t *testing.T) {
	uc, store := newFixture(t)
	store.SeedLedger(&energy.Ledger{
		PlayerID: "p1", TierKey: energy.TierFree, Current: 20, BaseCap: 30, LastUpdateAt: testNow,
	})
	added, snap, err := uc.ClaimDaily(context.Background(), "p1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if added != 3 || snap.Current != 23 {
		t.Fatalf("added=%d current=%d", added, snap.Current)
	}
	_, _, err = uc.ClaimDaily(context.Background(), "p1")
	if !errors.Is(err, energy.ErrDailyAlreadyClaimed) {
		t.Fatalf("second claim: %v", err)
	}
	var claimed *energy.DailyAlreadyClaimedError
	if !errors.As(err, &claimed) || claimed.RetryAfter != 24*time.Hour {
		t.Fatalf("retry hint = %+v", claimed)
	}
}

func TestUseCase_ClaimAd(t *testing.T) {
	uc, store := newFixture(t)
	store.SeedLedger(&energy.Ledger{
		PlayerID: "p1", TierKey: energy.TierFree, Current: 10, BaseCap: 30, LastUpdateAt: testNow,
	})
	added, snap, err := uc.ClaimAd(context.Background(), "p1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if added != 5 || snap.Current != 15 {
		t.Fatalf("added=%d current=%d", added, snap.Current)
	}
	_, _, err = uc.ClaimAd(context.Background(), "p1")
	if !errors.Is(err, energy.ErrAdCooldownActive) {
		t.Fatalf("second claim: %v", err)
	}

	store.SeedLedger(&energy.Ledger{
		PlayerID: "p2", TierKey: energy.TierPremium, Current: 10, BaseCap: 60, LastUpdateAt: testNow,
	})
	_, _, err = uc.ClaimAd(context.Background(), "p2")
	if !errors.Is(err, energy.ErrAdsNotAvailable) {
		t.Fatalf("paid-tier claim: %v", err)
	}
}
