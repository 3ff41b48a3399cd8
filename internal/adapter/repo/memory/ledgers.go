package memory

import (
	"context"

	"talespin/internal/domain/energy"
)

// WithLedger runs fn holding the player's ledger lock, creating a fresh
// free-tier ledger on first touch.
func (st *Store) WithLedger(ctx context.Context, playerID string, fn func(*energy.Ledger) error) error {
	st.mu.RLock()
	entry, ok := st.ledgers[playerID]
	st.mu.RUnlock()
	if !ok {
		// The durable snapshot load happens outside the index lock.
		var restored *energy.Ledger
		if st.LedgerLoader != nil {
			if l, found, err := st.LedgerLoader(ctx, playerID); err == nil && found {
				restored = l
			}
		}
		st.mu.Lock()
		entry, ok = st.ledgers[playerID]
		if !ok {
			if restored == nil {
				restored = energy.NewLedger(playerID, st.now())
			}
			entry = &ledgerEntry{l: restored}
			st.ledgers[playerID] = entry
		}
		st.mu.Unlock()
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(entry.l)
}

// SeedLedger installs a prepared ledger, replacing any lazy default.
func (st *Store) SeedLedger(l *energy.Ledger) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.ledgers[l.PlayerID] = &ledgerEntry{l: l}
}
