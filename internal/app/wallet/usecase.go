package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talespin/internal/app/ports"
	"talespin/internal/domain/energy"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrReceiptReplay  = errors.New("receipt already consumed")
)

// UseCase owns every energy-economy operation: reads, spends, gift claims,
// and purchase application. All ledger mutation runs inside the player's
// critical section and is followed by a flusher notification.
type UseCase struct {
	Ledgers  ports.EnergyLedgerRepository
	Receipts ports.ReceiptRegistry
	Flusher  ports.LedgerFlusher
	Now      func() time.Time
}

func (uc *UseCase) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

func (uc *UseCase) notify(l *energy.Ledger) {
	if uc.Flusher != nil {
		uc.Flusher.Notify(*l)
	}
}

// Profile applies the lazy passive refill and returns the read-your-writes
// view of the ledger.
func (uc *UseCase) Profile(ctx context.Context, playerID string) (ProfileResponse, error) {
	if playerID == "" {
		return ProfileResponse{}, fmt.Errorf("player id: %w", ErrInvalidRequest)
	}
	now := uc.now()
	var resp ProfileResponse
	err := uc.Ledgers.WithLedger(ctx, playerID, func(l *energy.Ledger) error {
		if l.ApplyPassiveRefill(now) > 0 {
			uc.notify(l)
		}
		resp = ProfileResponse{
			PlayerID:     playerID,
			Energy:       SnapshotOf(l, now),
			Entitlements: EntitlementsOf(l),
		}
		return nil
	})
	return resp, err
}

// Spend deducts a flat amount, refilling first so a player is never charged
// against a stale balance.
func (uc *UseCase) Spend(ctx context.Context, req SpendRequest) (Snapshot, error) {
	if req.PlayerID == "" || req.Amount <= 0 {
		return Snapshot{}, fmt.Errorf("spend %d for %q: %w", req.Amount, req.PlayerID, ErrInvalidRequest)
	}
	now := uc.now()
	var snap Snapshot
	err := uc.Ledgers.WithLedger(ctx, req.PlayerID, func(l *energy.Ledger) error {
		if err := l.Spend(req.Amount, now); err != nil {
			return err
		}
		uc.notify(l)
		snap = SnapshotOf(l, now)
		return nil
	})
	return snap, err
}

// ClaimDaily grants the tier's daily gift once per rolling window.
func (uc *UseCase) ClaimDaily(ctx context.Context, playerID string) (added int, snap Snapshot, err error) {
	if playerID == "" {
		return 0, Snapshot{}, fmt.Errorf("player id: %w", ErrInvalidRequest)
	}
	now := uc.now()
	err = uc.Ledgers.WithLedger(ctx, playerID, func(l *energy.Ledger) error {
		n, gerr := l.GrantDailyGift(now)
		if gerr != nil {
			return gerr
		}
		added = n
		uc.notify(l)
		snap = SnapshotOf(l, now)
		return nil
	})
	return added, snap, err
}

// ClaimAd grants the fixed ad-watch reward, free tier only.
func (uc *UseCase) ClaimAd(ctx context.Context, playerID string) (added int, snap Snapshot, err error) {
	if playerID == "" {
		return 0, Snapshot{}, fmt.Errorf("player id: %w", ErrInvalidRequest)
	}
	now := uc.now()
	err = uc.Ledgers.WithLedger(ctx, playerID, func(l *energy.Ledger) error {
		n, gerr := l.GrantAdReward(now)
		if gerr != nil {
			return gerr
		}
		added = n
		uc.notify(l)
		snap = SnapshotOf(l, now)
		return nil
	})
	return added, snap, err
}

// ConfirmPurchase consumes the receipt exactly once, then applies the sku
// and extends the capacity boost. The receipt burn happens before any
// ledger mutation so a replay can never double-apply.
func (uc *UseCase) ConfirmPurchase(ctx context.Context, req PurchaseRequest) (ProfileResponse, error) {
	if req.PlayerID == "" || req.SKU == "" || req.ReceiptID == "" {
		return ProfileResponse{}, fmt.Errorf("purchase for %q: %w", req.PlayerID, ErrInvalidRequest)
	}
	if req.Kind != "subscription" && req.Kind != "one_time" {
		return ProfileResponse{}, fmt.Errorf("purchase kind %q: %w", req.Kind, ErrInvalidRequest)
	}
	if err := uc.Receipts.Consume(ctx, req.ReceiptID); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return ProfileResponse{}, fmt.Errorf("receipt %q: %w", req.ReceiptID, ErrReceiptReplay)
		}
		return ProfileResponse{}, err
	}

	now := uc.now()
	days := req.GiftDays
	if days <= 0 {
		days = energy.DefaultGiftDays
	}
	var resp ProfileResponse
	err := uc.Ledgers.WithLedger(ctx, req.PlayerID, func(l *energy.Ledger) error {
		l.ApplyPassiveRefill(now)
		switch req.Kind {
		case "subscription":
			if err := l.ApplySubscription(req.SKU, now); err != nil {
				return err
			}
		case "one_time":
			if err := l.ApplyOneTime(req.SKU); err != nil {
				return err
			}
		}
		l.ExtendBoost(now, days)
		l.ClampToMax(now)
		uc.notify(l)
		resp = ProfileResponse{
			PlayerID:     req.PlayerID,
			Energy:       SnapshotOf(l, now),
			Entitlements: EntitlementsOf(l),
		}
		return nil
	})
	return resp, err
}

// Refill consumes a receipt and fills the pool to the effective max.
func (uc *UseCase) Refill(ctx context.Context, req RefillRequest) (Snapshot, error) {
	if req.PlayerID == "" || req.ReceiptID == "" {
		return Snapshot{}, fmt.Errorf("refill for %q: %w", req.PlayerID, ErrInvalidRequest)
	}
	if err := uc.Receipts.Consume(ctx, req.ReceiptID); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return Snapshot{}, fmt.Errorf("receipt %q: %w", req.ReceiptID, ErrReceiptReplay)
		}
		return Snapshot{}, err
	}
	now := uc.now()
	var snap Snapshot
	err := uc.Ledgers.WithLedger(ctx, req.PlayerID, func(l *energy.Ledger) error {
		l.RefillToMax(now)
		l.LastUpdateAt = now
		uc.notify(l)
		snap = SnapshotOf(l, now)
		return nil
	})
	return snap, err
}
