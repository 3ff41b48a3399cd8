package openai

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"talespin/internal/app/ports"
)

// RiskScorer rates an action's physical danger 0-5 with a single short
// completion. Anything unparseable is an error; the caller falls back to
// the deterministic rules.
type RiskScorer struct {
	client *Client
}

func NewRiskScorer(client *Client) *RiskScorer {
	return &RiskScorer{client: client}
}

func (r *RiskScorer) Score(ctx context.Context, action string, rctx ports.RiskContext) (int, error) {
	sys := "You rate the physical danger of a player action in a text adventure. Reply with a single digit 0-5 and nothing else. 0 means completely safe, 5 means near-certain serious injury."
	user := fmt.Sprintf("Main quest: %s\nClimax active: %t\nSide event in play: %t\nAction: %q",
		rctx.MainQuest, rctx.EndgameActive, rctx.SideQuestTurn, action)

	text, err := r.client.chat(ctx, []chatMessage{
		{Role: "system", Content: sys},
		{Role: "user", Content: user},
	}, 4, 0)
	if err != nil {
		return 0, err
	}
	score, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("risk score %q: %w", text, err)
	}
	if score < 0 || score > 5 {
		return 0, fmt.Errorf("risk score %d out of range", score)
	}
	return score, nil
}
