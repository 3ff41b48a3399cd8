package ports

import (
	"context"

	"talespin/internal/domain/adventure"
)

// EndgameStage is the collaborator-facing view of an active arc.
type EndgameStage struct {
	Stage  int    `json:"stage"`
	Total  int    `json:"total"`
	Who    string `json:"who"`
	Reason string `json:"reason"`
}

type OpeningPrompt struct {
	Genre       string
	MainQuest   string
	Vars        map[string]string
	Personality *adventure.Personality
	Prefs       adventure.TonePrefs
}

type TurnPrompt struct {
	Genre         string
	MainQuest     string
	Vars          map[string]string
	History       []adventure.Message
	Action        string
	Personality   *adventure.Personality
	SideQuestHook string
	Endgame       *EndgameStage
	Prefs         adventure.TonePrefs
}

type EpiloguePrompt struct {
	Genre       string
	MainQuest   string
	Vars        map[string]string
	Personality *adventure.Personality
	Endgame     EndgameStage
}

// Narrator is the external narrative-generation collaborator. Failures
// surface as turn-processing failures; the engine never substitutes prose
// silently and never retries at this level.
type Narrator interface {
	Opening(ctx context.Context, p OpeningPrompt) (string, error)
	ContinueStory(ctx context.Context, p TurnPrompt) (string, error)
	Epilogue(ctx context.Context, p EpiloguePrompt) (string, error)
	// FillVariables resolves {placeholder} names in a template to short
	// setting-appropriate strings, respecting prior values for consistency.
	FillVariables(ctx context.Context, genre, template string, prior map[string]string) (map[string]string, error)
}

type RiskContext struct {
	MainQuest     string `json:"main_quest"`
	EndgameActive bool   `json:"endgame_active"`
	SideQuestTurn bool   `json:"sidequest_turn"`
}

// RiskScorer rates an action's physical risk 0-5. The turn usecase falls
// back to the deterministic rules when the scorer is unavailable or errors.
type RiskScorer interface {
	Score(ctx context.Context, action string, rctx RiskContext) (int, error)
}

// Illustrator renders a clamped scene prompt to an addressable asset and
// returns its URL. Called off the request path only.
type Illustrator interface {
	Generate(ctx context.Context, prompt, fileStem string) (assetURL string, err error)
}

// ContentProvider serves the per-genre template packs and the NPC
// personality pool.
type ContentProvider interface {
	Genres(ctx context.Context) ([]string, error)
	MainQuests(ctx context.Context, genre string) ([]string, error)
	SideEvents(ctx context.Context, genre string) ([]string, error)
	Personalities(ctx context.Context) ([]adventure.Personality, error)
}
