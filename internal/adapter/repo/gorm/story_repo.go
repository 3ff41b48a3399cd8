package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"talespin/internal/adapter/repo/gorm/model"
	"talespin/internal/app/ports"
	"talespin/internal/domain/adventure"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoryRepo struct {
	db *gorm.DB
}

func NewStoryRepo(db *gorm.DB) StoryRepo {
	return StoryRepo{db: db}
}

func (r StoryRepo) Save(ctx context.Context, snapshot ports.StorySnapshot) (string, error) {
	historyJSON, _ := json.Marshal(snapshot.History)
	row := model.Story{
		ID:          uuid.NewString(),
		PlayerID:    snapshot.PlayerID,
		SessionID:   snapshot.SessionID,
		Genre:       snapshot.Genre,
		MainQuest:   snapshot.MainQuest,
		Personality: snapshot.Personality,
		Turns:       snapshot.Turns,
		Completed:   snapshot.Completed,
		Dead:        snapshot.Dead,
		History:     historyJSON,
		SavedAt:     snapshot.SavedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("save story: %w", err)
	}
	return row.ID, nil
}

func (r StoryRepo) ListByPlayer(ctx context.Context, playerID string) ([]ports.StorySummary, error) {
	var rows []model.Story
	err := r.db.WithContext(ctx).
		Select("id", "saved_at", "genre", "main_quest", "turns", "completed", "dead").
		Where(&model.Story{PlayerID: playerID}).
		Order("saved_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ports.StorySummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.StorySummary{
			ID:        row.ID,
			SavedAt:   row.SavedAt,
			Genre:     row.Genre,
			MainQuest: row.MainQuest,
			Turns:     row.Turns,
			Completed: row.Completed,
			Dead:      row.Dead,
		})
	}
	return out, nil
}

func (r StoryRepo) GetByID(ctx context.Context, playerID, storyID string) (ports.StorySnapshot, error) {
	var row model.Story
	err := r.db.WithContext(ctx).
		Where(&model.Story{ID: storyID, PlayerID: playerID}).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.StorySnapshot{}, ports.ErrNotFound
		}
		return ports.StorySnapshot{}, err
	}
	var history []adventure.Message
	_ = json.Unmarshal(row.History, &history)
	return ports.StorySnapshot{
		ID:          row.ID,
		PlayerID:    row.PlayerID,
		SessionID:   row.SessionID,
		Genre:       row.Genre,
		MainQuest:   row.MainQuest,
		Personality: row.Personality,
		Turns:       row.Turns,
		Completed:   row.Completed,
		Dead:        row.Dead,
		History:     history,
		SavedAt:     row.SavedAt,
	}, nil
}
