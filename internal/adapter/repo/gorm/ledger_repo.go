package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talespin/internal/adapter/repo/gorm/model"
	"talespin/internal/domain/energy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerWriter is the durable sink behind the debounced flusher. Writes are
// whole-row upserts; the in-memory ledger is the source of truth and the
// row is only a crash-recovery snapshot.
type LedgerWriter struct {
	db *gorm.DB
}

func NewLedgerWriter(db *gorm.DB) LedgerWriter {
	return LedgerWriter{db: db}
}

func (w LedgerWriter) WriteLedger(ctx context.Context, ledger energy.Ledger) error {
	entJSON, _ := json.Marshal(ledger.Entitlements)
	row := model.EnergyLedger{
		PlayerID:        ledger.PlayerID,
		Tier:            ledger.TierKey,
		Current:         ledger.Current,
		BaseCap:         ledger.BaseCap,
		LastUpdateAt:    ledger.LastUpdateAt,
		BoostPercent:    ledger.Boost.Percent,
		BoostExpiresAt:  ledger.Boost.ExpiresAt,
		Entitlements:    entJSON,
		LastDailyGiftAt: ledger.LastDailyGiftAt,
		LastAdClaimAt:   ledger.LastAdClaimAt,
		UpdatedAt:       time.Now().UTC(),
	}
	err := w.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("write ledger %s: %w", ledger.PlayerID, err)
	}
	return nil
}

// LoadLedger restores a snapshot row, used to warm the in-memory registry
// at boot. Missing rows are not an error; the registry creates lazily.
func (w LedgerWriter) LoadLedger(ctx context.Context, playerID string) (*energy.Ledger, bool, error) {
	var row model.EnergyLedger
	err := w.db.WithContext(ctx).Where(&model.EnergyLedger{PlayerID: playerID}).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var ents energy.Entitlements
	_ = json.Unmarshal(row.Entitlements, &ents)
	return &energy.Ledger{
		PlayerID:        row.PlayerID,
		TierKey:         row.Tier,
		Current:         row.Current,
		BaseCap:         row.BaseCap,
		LastUpdateAt:    row.LastUpdateAt,
		Boost:           energy.Boost{Percent: row.BoostPercent, ExpiresAt: row.BoostExpiresAt},
		Entitlements:    ents,
		LastDailyGiftAt: row.LastDailyGiftAt,
		LastAdClaimAt:   row.LastAdClaimAt,
	}, true, nil
}
