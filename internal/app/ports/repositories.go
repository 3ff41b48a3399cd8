package ports

import (
	"context"
	"time"

	"talespin/internal/domain/adventure"
	"talespin/internal/domain/energy"
)

// SessionRegistry is the single in-process registry of live sessions:
// per-key locked entries over a shared index, not one global lock. Sessions
// are independent; turns within one session are serialized by WithSession.
type SessionRegistry interface {
	Create(ctx context.Context, s *adventure.Session) error
	// WithSession runs fn holding the session's exclusive lock. Returns
	// ErrNotFound for unknown ids. fn runs to completion before another
	// caller gets the same session.
	WithSession(ctx context.Context, id string, fn func(*adventure.Session) error) error
}

// EnergyLedgerRepository guards the per-player energy pool. Entries are
// created lazily on first reference; fn runs under the player's critical
// section so refill-then-spend is atomic.
type EnergyLedgerRepository interface {
	WithLedger(ctx context.Context, playerID string, fn func(*energy.Ledger) error) error
}

// ReceiptRegistry is the append-only set of consumed purchase receipts.
// Consume must check-then-insert atomically; a replay returns ErrConflict
// with no effect.
type ReceiptRegistry interface {
	Consume(ctx context.Context, receiptID string) error
}

// StorySnapshot is the immutable record handed to the durable store on an
// explicit save. The engine never reads it back mid-session.
type StorySnapshot struct {
	ID          string
	PlayerID    string
	SessionID   string
	Genre       string
	MainQuest   string
	Personality string
	Turns       int
	Completed   bool
	Dead        bool
	History     []adventure.Message
	SavedAt     time.Time
}

type StorySummary struct {
	ID        string    `json:"id"`
	SavedAt   time.Time `json:"saved_at"`
	Genre     string    `json:"genre"`
	MainQuest string    `json:"main_quest"`
	Turns     int       `json:"turns"`
	Completed bool      `json:"completed"`
	Dead      bool      `json:"dead"`
}

type StoryRepository interface {
	Save(ctx context.Context, snapshot StorySnapshot) (string, error)
	ListByPlayer(ctx context.Context, playerID string) ([]StorySummary, error)
	GetByID(ctx context.Context, playerID, storyID string) (StorySnapshot, error)
}

// LedgerFlusher schedules a debounced background write of a mutated ledger,
// coalesced per player; it never blocks the request path.
type LedgerFlusher interface {
	Notify(ledger energy.Ledger)
}

// LedgerSnapshotWriter is the durable sink behind the flusher.
type LedgerSnapshotWriter interface {
	WriteLedger(ctx context.Context, ledger energy.Ledger) error
}
