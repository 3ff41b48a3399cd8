package memory

import (
	"context"
	"fmt"

	"talespin/internal/app/ports"
)

// Consume burns a receipt id exactly once. Check and insert happen under
// one lock so two concurrent confirms of the same receipt cannot both win.
func (st *Store) Consume(ctx context.Context, receiptID string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, used := st.receipts[receiptID]; used {
		return fmt.Errorf("receipt %q: %w", receiptID, ports.ErrConflict)
	}
	st.receipts[receiptID] = struct{}{}
	return nil
}
