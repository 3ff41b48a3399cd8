// Package flush decouples ledger durability from the request path: mutations
// notify the flusher, which debounces and coalesces writes per player.
package flush

import (
	"context"
	"log"
	"sync"
	"time"

	"talespin/internal/app/ports"
	"talespin/internal/domain/energy"
)

const DefaultDelay = 2 * time.Second

type pending struct {
	ledger energy.Ledger
	timer  *time.Timer
}

// Flusher implements ports.LedgerFlusher. A burst of mutations for one
// player collapses into a single write carrying the latest snapshot; writes
// for different players are independent.
type Flusher struct {
	writer ports.LedgerSnapshotWriter
	delay  time.Duration

	mu     sync.Mutex
	queue  map[string]*pending
	closed bool
}

func New(writer ports.LedgerSnapshotWriter, delay time.Duration) *Flusher {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Flusher{
		writer: writer,
		delay:  delay,
		queue:  map[string]*pending{},
	}
}

// Notify schedules a write of the given snapshot. Never blocks: the actual
// write happens on the timer goroutine after the debounce window.
func (f *Flusher) Notify(ledger energy.Ledger) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	playerID := ledger.PlayerID
	if p, ok := f.queue[playerID]; ok {
		p.ledger = ledger
		return
	}
	p := &pending{ledger: ledger}
	p.timer = time.AfterFunc(f.delay, func() { f.flush(playerID) })
	f.queue[playerID] = p
}

func (f *Flusher) flush(playerID string) {
	f.mu.Lock()
	p, ok := f.queue[playerID]
	if ok {
		delete(f.queue, playerID)
	}
	f.mu.Unlock()
	if !ok {
		return
	}
	f.write(p.ledger)
}

// Close stops the timers and writes everything still queued.
func (f *Flusher) Close() {
	f.mu.Lock()
	f.closed = true
	remaining := make([]energy.Ledger, 0, len(f.queue))
	for id, p := range f.queue {
		p.timer.Stop()
		remaining = append(remaining, p.ledger)
		delete(f.queue, id)
	}
	f.mu.Unlock()

	for _, l := range remaining {
		f.write(l)
	}
}

func (f *Flusher) write(ledger energy.Ledger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.writer.WriteLedger(ctx, ledger); err != nil {
		log.Printf("ledger flush %s: %v", ledger.PlayerID, err)
	}
}
