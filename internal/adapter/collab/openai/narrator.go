package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"talespin/internal/app/ports"
	"talespin/internal/domain/adventure"
)

// historyWindow bounds how much transcript rides along on each narration
// call; older turns fall off without summarization.
const historyWindow = 12

// Narrator generates the story prose. One instance is shared across all
// sessions; everything per-session arrives in the prompt.
type Narrator struct {
	client *Client
}

func NewNarrator(client *Client) *Narrator {
	return &Narrator{client: client}
}

func (n *Narrator) Opening(ctx context.Context, p ports.OpeningPrompt) (string, error) {
	sys := systemPrompt(p.Genre, p.MainQuest, p.Personality, p.Prefs)
	user := "Open the adventure. Set the scene, hint at the main quest, and end by asking what the player does."
	text, err := n.client.chat(ctx, []chatMessage{
		{Role: "system", Content: sys},
		{Role: "user", Content: user},
	}, 400, 0.9)
	if err != nil {
		return "", fmt.Errorf("opening: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (n *Narrator) ContinueStory(ctx context.Context, p ports.TurnPrompt) (string, error) {
	sys := systemPrompt(p.Genre, p.MainQuest, p.Personality, p.Prefs)
	if p.SideQuestHook != "" {
		sys += "\nWeave this unexpected event into the scene before anything else: " + p.SideQuestHook
	}
	if p.Endgame != nil {
		sys += fmt.Sprintf(
			"\nThe story has reached its climax, step %d of %d, driven by %s. %s Raise the stakes; do not resolve the arc unless the player's action clearly pushes it forward.",
			p.Endgame.Stage, p.Endgame.Total, p.Endgame.Who, p.Endgame.Reason,
		)
	}

	msgs := []chatMessage{{Role: "system", Content: sys}}
	history := p.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, m := range history {
		msgs = append(msgs, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: p.Action})

	text, err := n.client.chat(ctx, msgs, 400, 0.9)
	if err != nil {
		return "", fmt.Errorf("continue story: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (n *Narrator) Epilogue(ctx context.Context, p ports.EpiloguePrompt) (string, error) {
	sys := systemPrompt(p.Genre, p.MainQuest, p.Personality, adventure.TonePrefs{})
	user := fmt.Sprintf(
		"The climactic arc driven by %s has just been resolved (%s). Write a closing epilogue: what the resolution cost, what it changed, and where the world leaves the player. Past tense, reflective, no question at the end.",
		p.Endgame.Who, p.Endgame.Reason,
	)
	text, err := n.client.chat(ctx, []chatMessage{
		{Role: "system", Content: sys},
		{Role: "user", Content: user},
	}, 500, 0.8)
	if err != nil {
		return "", fmt.Errorf("epilogue: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// FillVariables asks for a strict JSON object mapping placeholder names to
// short phrases. Prior values are pinned; malformed model output degrades
// to deterministic defaults instead of failing the turn.
func (n *Narrator) FillVariables(ctx context.Context, genre, template string, prior map[string]string) (map[string]string, error) {
	names := adventure.Placeholders(template)
	if len(names) == 0 {
		return map[string]string{}, nil
	}
	missing := make([]string, 0, len(names))
	for _, name := range names {
		if prior[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return copyVars(prior), nil
	}

	sys := fmt.Sprintf(
		"You name things for a %s adventure. Reply with a single JSON object and nothing else: each key maps to a short, evocative name or phrase (1-4 words) that fits the setting.",
		genre,
	)
	user := fmt.Sprintf("Template: %q\nKeys to fill: %s", template, strings.Join(missing, ", "))
	text, err := n.client.chat(ctx, []chatMessage{
		{Role: "system", Content: sys},
		{Role: "user", Content: user},
	}, 200, 1.0)
	if err != nil {
		return nil, fmt.Errorf("fill variables: %w", err)
	}

	out := copyVars(prior)
	var filled map[string]string
	if jsonErr := json.Unmarshal([]byte(extractJSON(text)), &filled); jsonErr != nil {
		return adventure.FallbackVars(template, prior), nil
	}
	for _, name := range missing {
		if v := strings.TrimSpace(filled[name]); v != "" {
			out[name] = v
		}
	}
	for k, v := range adventure.FallbackVars(template, out) {
		if out[k] == "" {
			out[k] = v
		}
	}
	return out, nil
}

func systemPrompt(genre, mainQuest string, personality *adventure.Personality, prefs adventure.TonePrefs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You narrate a %s text adventure in second person, present tense. ", genre)
	fmt.Fprintf(&b, "The player's main quest: %s. ", mainQuest)
	b.WriteString("Keep replies to 2-5 vivid, concrete sentences. Never decide the player's actions for them; end turns implicitly inviting their next move.")
	if personality != nil && personality.Label != "" {
		fmt.Fprintf(&b, "\nA recurring companion travels with the player: %s. Keep their voice and history consistent.", personality.Label)
	}
	if prefs.Sarcasm {
		b.WriteString("\nNarrate with a dry, sarcastic edge.")
	}
	if prefs.Gore {
		b.WriteString("\nDo not soften violence; injuries are described plainly and graphically.")
	}
	if prefs.Adult {
		b.WriteString("\nMature themes and language are permitted.")
	}
	return b.String()
}

func copyVars(vars map[string]string) map[string]string {
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}

// extractJSON trims prose or code fences the model sometimes wraps around
// the object.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
