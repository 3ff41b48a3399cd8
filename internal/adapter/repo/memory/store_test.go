package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"talespin/internal/app/ports"
	"talespin/internal/domain/adventure"
	"talespin/internal/domain/energy"
)

var testNow = time.Unix(1700000000, 0)

func newTestStore() *Store {
	st := NewStore()
	st.Now = func() time.Time { return testNow }
	return st
}

func TestStore_SessionLifecycle(t *testing.T) {
	st := newTestStore()
	s := adventure.NewSession("s1", "p1", "g", "q", nil, nil, nil, testNow)
	if err := st.Create(context.Background(), s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.Create(context.Background(), s); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("duplicate create: %v", err)
	}

	err := st.WithSession(context.Background(), "s1", func(got *adventure.Session) error {
		if got.ID != "s1" {
			t.Fatalf("session id = %q", got.ID)
		}
		got.Turns = 7
		return nil
	})
	if err != nil {
		t.Fatalf("with session: %v", err)
	}
	err = st.WithSession(context.Background(), "s1", func(got *adventure.Session) error {
		if got.Turns != 7 {
			t.Fatalf("mutation lost: turns=%d", got.Turns)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with session: %v", err)
	}

	if err := st.WithSession(context.Background(), "nope", func(*adventure.Session) error { return nil }); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("unknown session: %v", err)
	}
}

func TestStore_WithSessionHonorsCancellation(t *testing.T) {
	st := newTestStore()
	s := adventure.NewSession("s1", "p1", "g", "q", nil, nil, nil, testNow)
	if err := st.Create(context.Background(), s); err != nil {
		t.Fatalf("create: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := st.WithSession(ctx, "s1", func(*adventure.Session) error {
		t.Fatalf("fn ran under cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled with-session: %v", err)
	}
}

func TestStore_LazyLedgerCreation(t *testing.T) {
	st := newTestStore()
	err := st.WithLedger(context.Background(), "p1", func(l *energy.Ledger) error {
		if l.TierKey != energy.TierFree || l.Current != 30 || !l.LastUpdateAt.Equal(testNow) {
			t.Fatalf("lazy ledger = %+v", l)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with ledger: %v", err)
	}
}

func TestStore_LedgerLoaderRestoresSnapshot(t *testing.T) {
	st := newTestStore()
	st.LedgerLoader = func(_ context.Context, playerID string) (*energy.Ledger, bool, error) {
		if playerID != "p1" {
			return nil, false, nil
		}
		return &energy.Ledger{
			PlayerID: "p1", TierKey: energy.TierPremium, Current: 12, BaseCap: 60, LastUpdateAt: testNow,
		}, true, nil
	}
	err := st.WithLedger(context.Background(), "p1", func(l *energy.Ledger) error {
		if l.TierKey != energy.TierPremium || l.Current != 12 {
			t.Fatalf("restored ledger = %+v", l)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with ledger: %v", err)
	}

	// The loader is consulted on first touch only.
	st.LedgerLoader = func(context.Context, string) (*energy.Ledger, bool, error) {
		t.Fatalf("loader called for a cached ledger")
		return nil, false, nil
	}
	err = st.WithLedger(context.Background(), "p1", func(*energy.Ledger) error { return nil })
	if err != nil {
		t.Fatalf("second touch: %v", err)
	}
}

func TestStore_LedgerLoaderFailureFallsBack(t *testing.T) {
	st := newTestStore()
	st.LedgerLoader = func(context.Context, string) (*energy.Ledger, bool, error) {
		return nil, false, errors.New("db down")
	}
	err := st.WithLedger(context.Background(), "p1", func(l *energy.Ledger) error {
		if l.TierKey != energy.TierFree || l.Current != 30 {
			t.Fatalf("fallback ledger = %+v", l)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with ledger: %v", err)
	}
}

func TestStore_ReceiptConsumeIsExactlyOnce(t *testing.T) {
	st := newTestStore()
	if err := st.Consume(context.Background(), "r1"); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if err := st.Consume(context.Background(), "r1"); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("second consume: %v", err)
	}
	if err := st.Consume(context.Background(), "r2"); err != nil {
		t.Fatalf("distinct receipt: %v", err)
	}
}

func TestStore_StoryArchive(t *testing.T) {
	st := newTestStore()
	mk := func(sessionID string, savedAt time.Time) ports.StorySnapshot {
		return ports.StorySnapshot{
			PlayerID: "p1", SessionID: sessionID, Genre: "g", MainQuest: "q", SavedAt: savedAt,
		}
	}
	id1, err := st.Save(context.Background(), mk("s1", testNow))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	id2, err := st.Save(context.Background(), mk("s2", testNow.Add(time.Hour)))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("duplicate story ids %q", id1)
	}

	list, err := st.ListByPlayer(context.Background(), "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != id2 {
		t.Fatalf("newest-first order violated: %+v", list)
	}

	got, err := st.GetByID(context.Background(), "p1", id1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SessionID != "s1" {
		t.Fatalf("snapshot = %+v", got)
	}
	if _, err := st.GetByID(context.Background(), "p2", id1); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("cross-player get: %v", err)
	}
	list, err = st.ListByPlayer(context.Background(), "p2")
	if err != nil || len(list) != 0 {
		t.Fatalf("foreign list = %+v, err %v", list, err)
	}
}
