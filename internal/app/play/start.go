package play

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"talespin/internal/app/ports"
	"talespin/internal/domain/adventure"
	"talespin/internal/domain/energy"
	domrng "talespin/internal/domain/rng"
	"talespin/internal/domain/wildcard"
)

// StartUseCase creates a new session: genre content selection, variable
// filling, companion personality choice, and the opening scene.
type StartUseCase struct {
	Sessions ports.SessionRegistry
	Ledgers  ports.EnergyLedgerRepository
	Content  ports.ContentProvider
	Narrator ports.Narrator
	Wildcard *wildcard.Engine
	RNG      domrng.Rand
	NewID    func() string
	Now      func() time.Time
}

func (uc *StartUseCase) Execute(ctx context.Context, req StartRequest) (StartResponse, error) {
	if req.PlayerID == "" {
		return StartResponse{}, fmt.Errorf("player id: %w", ErrInvalidRequest)
	}
	genres, err := uc.Content.Genres(ctx)
	if err != nil {
		return StartResponse{}, fmt.Errorf("list genres: %w", err)
	}
	genre := req.Genre
	if genre == "" && len(genres) > 0 {
		genre = genres[0]
	}
	if !containsString(genres, genre) {
		return StartResponse{}, fmt.Errorf("genre %q: %w", genre, ErrUnsupportedGenre)
	}

	quests, err := uc.Content.MainQuests(ctx, genre)
	if err != nil {
		return StartResponse{}, fmt.Errorf("main quests for %q: %w", genre, err)
	}
	if len(quests) == 0 {
		return StartResponse{}, fmt.Errorf("genre %q: %w", genre, ErrNoContentForGenre)
	}
	questTpl := quests[uc.RNG.Intn(len(quests))]

	vars, err := uc.Narrator.FillVariables(ctx, genre, questTpl, nil)
	if err != nil {
		return StartResponse{}, fmt.Errorf("fill quest variables: %w", ErrCollaborator)
	}
	mainQuest := adventure.ApplyTemplate(questTpl, vars)

	sideEvents, err := uc.Content.SideEvents(ctx, genre)
	if err != nil {
		return StartResponse{}, fmt.Errorf("side events for %q: %w", genre, err)
	}

	pool, err := uc.Content.Personalities(ctx)
	if err != nil {
		return StartResponse{}, fmt.Errorf("personalities: %w", err)
	}
	var personality *adventure.Personality
	if len(pool) > 0 {
		p := adventure.ChoosePersonality(uc.RNG, pool, mainQuest)
		personality = &p
	}

	// Tone switches only take effect for owned entitlements.
	var prefs adventure.TonePrefs
	err = uc.Ledgers.WithLedger(ctx, req.PlayerID, func(l *energy.Ledger) error {
		prefs = normalizePrefs(req.Prefs, l.Entitlements)
		return nil
	})
	if err != nil {
		return StartResponse{}, fmt.Errorf("load entitlements: %w", err)
	}

	opening, err := uc.Narrator.Opening(ctx, ports.OpeningPrompt{
		Genre:       genre,
		MainQuest:   mainQuest,
		Vars:        vars,
		Personality: personality,
		Prefs:       prefs,
	})
	if err != nil {
		return StartResponse{}, fmt.Errorf("opening scene: %w", ErrCollaborator)
	}

	s := adventure.NewSession(uc.newID(), req.PlayerID, genre, mainQuest, vars, sideEvents, personality, uc.now())
	s.Prefs = prefs
	opening = spice(uc.Wildcard, s, opening)
	s.Append(adventure.RoleAssistant, opening)

	if err := uc.Sessions.Create(ctx, s); err != nil {
		return StartResponse{}, fmt.Errorf("register session: %w", err)
	}

	resp := StartResponse{
		SessionID: s.ID,
		Genre:     genre,
		MainQuest: mainQuest,
		Reply:     opening,
		Health:    s.Health,
		Turns:     s.Turns,
	}
	if personality != nil {
		resp.Personality = personality.Label
	}
	return resp, nil
}

func (uc *StartUseCase) newID() string {
	if uc.NewID != nil {
		return uc.NewID()
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return fmt.Sprintf("s_%d", time.Now().UnixNano())
	}
	return "s_" + hex.EncodeToString(buf[:])
}

func (uc *StartUseCase) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

func normalizePrefs(req adventure.TonePrefs, owned energy.Entitlements) adventure.TonePrefs {
	return adventure.TonePrefs{
		Sarcasm: req.Sarcasm && owned.Sarcasm,
		Gore:    req.Gore && owned.Gore,
		Adult:   req.Adult && owned.Adult,
	}
}

// spice runs the wildcard pass against the session's recency window,
// persisting the window back onto the session.
func spice(engine *wildcard.Engine, s *adventure.Session, text string) string {
	if engine == nil {
		return text
	}
	win := &wildcard.Window{Words: s.WildcardRecent}
	out := engine.Transform(text, win)
	s.WildcardRecent = win.Words
	return out
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
