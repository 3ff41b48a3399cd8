// Package memory holds the volatile in-process registries: live sessions,
// energy ledgers, consumed receipts, and an optional story archive for
// running without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"talespin/internal/app/ports"
	"talespin/internal/domain/adventure"
	"talespin/internal/domain/energy"
)

type sessionEntry struct {
	mu sync.Mutex
	s  *adventure.Session
}

type ledgerEntry struct {
	mu sync.Mutex
	l  *energy.Ledger
}

// Store implements every registry port over per-key locked entries behind a
// shared index. Two sessions (or two players) never contend on the same
// lock; two operations on the same key are serialized.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ledgers  map[string]*ledgerEntry
	receipts map[string]struct{}

	storyMu  sync.RWMutex
	stories  []ports.StorySnapshot
	storySeq int

	// Now is injectable for tests; lazily created ledgers are stamped with it.
	Now func() time.Time

	// LedgerLoader, when set, is consulted before creating a fresh ledger so
	// a durable snapshot survives a restart. Load failures fall through to a
	// fresh ledger.
	LedgerLoader func(ctx context.Context, playerID string) (*energy.Ledger, bool, error)
}

func NewStore() *Store {
	return &Store{
		sessions: map[string]*sessionEntry{},
		ledgers:  map[string]*ledgerEntry{},
		receipts: map[string]struct{}{},
	}
}

func (st *Store) now() time.Time {
	if st.Now != nil {
		return st.Now()
	}
	return time.Now()
}
