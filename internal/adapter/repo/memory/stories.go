package memory

import (
	"context"
	"fmt"
	"sort"

	"talespin/internal/app/ports"
	"talespin/internal/domain/adventure"
)

func (st *Store) Save(ctx context.Context, snapshot ports.StorySnapshot) (string, error) {
	st.storyMu.Lock()
	defer st.storyMu.Unlock()
	st.storySeq++
	snapshot.ID = fmt.Sprintf("story_%d", st.storySeq)
	snapshot.History = append([]adventure.Message(nil), snapshot.History...)
	st.stories = append(st.stories, snapshot)
	return snapshot.ID, nil
}

func (st *Store) ListByPlayer(ctx context.Context, playerID string) ([]ports.StorySummary, error) {
	st.storyMu.RLock()
	defer st.storyMu.RUnlock()
	var out []ports.StorySummary
	for _, s := range st.stories {
		if s.PlayerID != playerID {
			continue
		}
		out = append(out, ports.StorySummary{
			ID:        s.ID,
			SavedAt:   s.SavedAt,
			Genre:     s.Genre,
			MainQuest: s.MainQuest,
			Turns:     s.Turns,
			Completed: s.Completed,
			Dead:      s.Dead,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

func (st *Store) GetByID(ctx context.Context, playerID, storyID string) (ports.StorySnapshot, error) {
	st.storyMu.RLock()
	defer st.storyMu.RUnlock()
	for _, s := range st.stories {
		if s.ID == storyID && s.PlayerID == playerID {
			return s, nil
		}
	}
	return ports.StorySnapshot{}, fmt.Errorf("story %q: %w", storyID, ports.ErrNotFound)
}
