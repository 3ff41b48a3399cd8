package play

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talespin/internal/app/ports"
	"talespin/internal/domain/adventure"
)

// StoryUseCase promotes a live session to the durable story archive and
// serves the archive back. Saves are write-only snapshots; the engine never
// resumes a session from one.
type StoryUseCase struct {
	Sessions ports.SessionRegistry
	Stories  ports.StoryRepository
	Now      func() time.Time
}

func (uc *StoryUseCase) Save(ctx context.Context, req SaveRequest) (SaveResponse, error) {
	if req.PlayerID == "" || req.SessionID == "" {
		return SaveResponse{}, fmt.Errorf("save session %q: %w", req.SessionID, ErrInvalidRequest)
	}
	var snapshot ports.StorySnapshot
	err := uc.Sessions.WithSession(ctx, req.SessionID, func(s *adventure.Session) error {
		personality := ""
		if s.Personality != nil {
			personality = s.Personality.Label
		}
		snapshot = ports.StorySnapshot{
			PlayerID:    req.PlayerID,
			SessionID:   s.ID,
			Genre:       s.Genre,
			MainQuest:   s.MainQuest,
			Personality: personality,
			Turns:       s.Turns,
			Completed:   s.Endgame.Completed,
			Dead:        s.Dead,
			History:     append([]adventure.Message(nil), s.History...),
			SavedAt:     uc.now(),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return SaveResponse{}, fmt.Errorf("session %q: %w", req.SessionID, ErrSessionNotFound)
		}
		return SaveResponse{}, err
	}
	id, err := uc.Stories.Save(ctx, snapshot)
	if err != nil {
		return SaveResponse{}, fmt.Errorf("archive story: %w", err)
	}
	return SaveResponse{StoryID: id}, nil
}

func (uc *StoryUseCase) List(ctx context.Context, playerID string) ([]ports.StorySummary, error) {
	if playerID == "" {
		return nil, fmt.Errorf("player id: %w", ErrInvalidRequest)
	}
	return uc.Stories.ListByPlayer(ctx, playerID)
}

func (uc *StoryUseCase) Get(ctx context.Context, playerID, storyID string) (ports.StorySnapshot, error) {
	if playerID == "" || storyID == "" {
		return ports.StorySnapshot{}, fmt.Errorf("story %q: %w", storyID, ErrInvalidRequest)
	}
	snapshot, err := uc.Stories.GetByID(ctx, playerID, storyID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ports.StorySnapshot{}, fmt.Errorf("story %q: %w", storyID, ErrStoryNotFound)
		}
		return ports.StorySnapshot{}, err
	}
	return snapshot, nil
}

func (uc *StoryUseCase) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}
