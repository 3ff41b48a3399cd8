// Package model holds the gorm row types for the durable tables. Live
// session state never lands here; only saved stories, ledger snapshots,
// and consumed receipts are persisted.
package model

import "time"

type Story struct {
	ID          string `gorm:"primaryKey"`
	PlayerID    string `gorm:"index;not null"`
	SessionID   string `gorm:"not null"`
	Genre       string `gorm:"not null"`
	MainQuest   string `gorm:"not null"`
	Personality string
	Turns       int
	Completed   bool
	Dead        bool
	History     []byte    `gorm:"type:jsonb"`
	SavedAt     time.Time `gorm:"index"`
}

type EnergyLedger struct {
	PlayerID        string `gorm:"primaryKey"`
	Tier            string `gorm:"not null"`
	Current         int
	BaseCap         int
	LastUpdateAt    time.Time
	BoostPercent    int
	BoostExpiresAt  time.Time
	Entitlements    []byte `gorm:"type:jsonb"`
	LastDailyGiftAt time.Time
	LastAdClaimAt   time.Time
	UpdatedAt       time.Time
}

type Receipt struct {
	ReceiptID  string    `gorm:"primaryKey"`
	ConsumedAt time.Time `gorm:"not null"`
}
