package memory

import (
	"context"
	"fmt"

	"talespin/internal/app/ports"
	"talespin/internal/domain/adventure"
)

func (st *Store) Create(ctx context.Context, s *adventure.Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, exists := st.sessions[s.ID]; exists {
		return fmt.Errorf("session %q: %w", s.ID, ports.ErrConflict)
	}
	st.sessions[s.ID] = &sessionEntry{s: s}
	return nil
}

// WithSession runs fn holding the session's lock. The index read and the
// entry lock are separate so long turns on one session never block lookups
// of another.
func (st *Store) WithSession(ctx context.Context, id string, fn func(*adventure.Session) error) error {
	st.mu.RLock()
	entry, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return fmt.Errorf("session %q: %w", id, ports.ErrNotFound)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(entry.s)
}
