package imagejob

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"talespin/internal/adapter/repo/memory"
	"talespin/internal/domain/adventure"
	"talespin/internal/domain/energy"
)

type blockingIllustrator struct {
	release chan struct{}
	err     error
}

func (b *blockingIllustrator) Generate(_ context.Context, _, fileStem string) (string, error) {
	<-b.release
	if b.err != nil {
		return "", b.err
	}
	return "/generated/" + fileStem + ".png", nil
}

func newTrackerFixture(t *testing.T) (*Tracker, *memory.Store, *blockingIllustrator, *adventure.Session) {
	t.Helper()
	store := memory.NewStore()
	ill := &blockingIllustrator{release: make(chan struct{})}
	tracker := &Tracker{Sessions: store, Illustrator: ill, Threshold: 1}

	s := adventure.NewSession("s1", "p1", "post-apocalypse", "Find the vault.", nil, nil, nil, time.Unix(1700000000, 0))
	s.Turns = 3
	if err := store.Create(context.Background(), s); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return tracker, store, ill, s
}

func waitReady(t *testing.T, tracker *Tracker, sessionID, jobID string) Status {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		st, err := tracker.Status(context.Background(), sessionID, jobID)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if st.Ready {
			return st
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never became ready", jobID)
	return Status{}
}

func TestTracker_PendingThenReady(t *testing.T) {
	tracker, store, ill, _ := newTrackerFixture(t)
	ultimate := energy.TierOrDefault(energy.TierUltimate)

	var jobID string
	err := store.WithSession(context.Background(), "s1", func(s *adventure.Session) error {
		jobID = tracker.MaybeLaunch(s, ultimate, "You cross the ruined bridge.")
		return nil
	})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if jobID == "" {
		t.Fatalf("eligible turn did not launch")
	}

	st, err := tracker.Status(context.Background(), "s1", jobID)
	if err != nil || st.Ready {
		t.Fatalf("in-flight status = %+v, err %v", st, err)
	}

	close(ill.release)
	st = waitReady(t, tracker, "s1", jobID)
	if !strings.HasSuffix(st.AssetURL, jobID+".png") {
		t.Fatalf("asset url = %q", st.AssetURL)
	}
	if st.Turn != 3 {
		t.Fatalf("job turn = %d", st.Turn)
	}
}

func TestTracker_FreeTierNeverLaunches(t *testing.T) {
	tracker, store, _, _ := newTrackerFixture(t)
	free := energy.TierOrDefault(energy.TierFree)

	err := store.WithSession(context.Background(), "s1", func(s *adventure.Session) error {
		if jobID := tracker.MaybeLaunch(s, free, "text"); jobID != "" {
			t.Fatalf("free tier launched job %q", jobID)
		}
		if s.TurnsSinceLastImage != 1 {
			t.Fatalf("image counter = %d, want 1", s.TurnsSinceLastImage)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with session: %v", err)
	}
}

func TestTracker_ThresholdGatesLaunch(t *testing.T) {
	tracker, store, _, _ := newTrackerFixture(t)
	tracker.Threshold = 3
	ultimate := energy.TierOrDefault(energy.TierUltimate)

	var ids []string
	for i := 0; i < 3; i++ {
		err := store.WithSession(context.Background(), "s1", func(s *adventure.Session) error {
			ids = append(ids, tracker.MaybeLaunch(s, ultimate, "text"))
			return nil
		})
		if err != nil {
			t.Fatalf("with session: %v", err)
		}
	}
	if ids[0] != "" || ids[1] != "" || ids[2] == "" {
		t.Fatalf("launch pattern = %q", ids)
	}
}

func TestTracker_EveryTurnLaunchesOnceUnlocked(t *testing.T) {
	tracker, store, _, _ := newTrackerFixture(t)
	tracker.Threshold = 3
	ultimate := energy.TierOrDefault(energy.TierUltimate)

	var launched []int
	for turn := 1; turn <= 6; turn++ {
		err := store.WithSession(context.Background(), "s1", func(s *adventure.Session) error {
			if jobID := tracker.MaybeLaunch(s, ultimate, "text"); jobID != "" {
				launched = append(launched, turn)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("with session: %v", err)
		}
	}
	want := []int{3, 4, 5, 6}
	if len(launched) != len(want) {
		t.Fatalf("launched on turns %v, want %v", launched, want)
	}
	for i, turn := range want {
		if launched[i] != turn {
			t.Fatalf("launched on turns %v, want %v", launched, want)
		}
	}
}

func TestTracker_UpgradeMidSessionInheritsElapsedGap(t *testing.T) {
	tracker, store, _, _ := newTrackerFixture(t)
	tracker.Threshold = 3
	free := energy.TierOrDefault(energy.TierFree)
	ultimate := energy.TierOrDefault(energy.TierUltimate)

	for i := 0; i < 2; i++ {
		err := store.WithSession(context.Background(), "s1", func(s *adventure.Session) error {
			if jobID := tracker.MaybeLaunch(s, free, "text"); jobID != "" {
				t.Fatalf("free tier launched job %q", jobID)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("with session: %v", err)
		}
	}

	err := store.WithSession(context.Background(), "s1", func(s *adventure.Session) error {
		if jobID := tracker.MaybeLaunch(s, ultimate, "text"); jobID == "" {
			t.Fatalf("third turn after upgrade did not launch")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with session: %v", err)
	}
}

func TestTracker_FailedJobStaysPending(t *testing.T) {
	tracker, store, ill, _ := newTrackerFixture(t)
	ill.err = errors.New("render failed")
	ultimate := energy.TierOrDefault(energy.TierUltimate)

	var jobID string
	err := store.WithSession(context.Background(), "s1", func(s *adventure.Session) error {
		jobID = tracker.MaybeLaunch(s, ultimate, "text")
		return nil
	})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	close(ill.release)

	time.Sleep(50 * time.Millisecond)
	st, err := tracker.Status(context.Background(), "s1", jobID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Ready {
		t.Fatalf("failed job reported ready: %+v", st)
	}
}

func TestTracker_UnknownLookups(t *testing.T) {
	tracker, _, _, _ := newTrackerFixture(t)

	st, err := tracker.Status(context.Background(), "s1", "nope")
	if err != nil || st.Ready {
		t.Fatalf("unknown job = %+v, err %v", st, err)
	}
	st, err = tracker.Status(context.Background(), "ghost", "nope")
	if err != nil || st.Ready {
		t.Fatalf("unknown session = %+v, err %v", st, err)
	}
}

func TestTracker_NilTrackerIsInert(t *testing.T) {
	var tracker *Tracker
	s := adventure.NewSession("s1", "p1", "g", "q", nil, nil, nil, time.Unix(1700000000, 0))
	if jobID := tracker.MaybeLaunch(s, energy.TierOrDefault(energy.TierUltimate), "text"); jobID != "" {
		t.Fatalf("nil tracker launched %q", jobID)
	}
}

func TestClampPrompt(t *testing.T) {
	if got := ClampPrompt("  a \n b\t c  "); got != "a b c" {
		t.Fatalf("normalize = %q", got)
	}
	long := strings.Repeat("x", MaxPromptLen+50)
	got := ClampPrompt(long)
	if len([]rune(got)) != MaxPromptLen+1 || !strings.HasSuffix(got, "…") {
		t.Fatalf("clamp length = %d", len([]rune(got)))
	}
}
