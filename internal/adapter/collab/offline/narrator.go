// Package offline is the no-API-key narrator: deterministic canned prose so
// the engine runs end to end in development and tests without a
// collaborator. The state machine, economy, and wildcard pass behave
// exactly as in production.
package offline

import (
	"context"
	"fmt"

	"talespin/internal/app/ports"
	"talespin/internal/domain/adventure"
)

type Narrator struct{}

func (Narrator) Opening(_ context.Context, p ports.OpeningPrompt) (string, error) {
	return fmt.Sprintf(
		"The %s stretches out before you. Word on the road is clear enough: %s What do you do?",
		p.Genre, p.MainQuest,
	), nil
}

func (Narrator) ContinueStory(_ context.Context, p ports.TurnPrompt) (string, error) {
	switch {
	case p.Endgame != nil:
		return fmt.Sprintf(
			"You press on. %s is close now; this feels like step %d of %d. The main quest hangs in the balance: %s What do you do?",
			p.Endgame.Who, p.Endgame.Stage, p.Endgame.Total, p.MainQuest,
		), nil
	case p.SideQuestHook != "":
		return fmt.Sprintf(
			"Something interrupts the road. %s You weigh it against the main quest: %s What do you do?",
			p.SideQuestHook, p.MainQuest,
		), nil
	default:
		return fmt.Sprintf("You proceed. The main quest still pulls at you: %s What do you do?", p.MainQuest), nil
	}
}

func (Narrator) Epilogue(_ context.Context, p ports.EpiloguePrompt) (string, error) {
	return fmt.Sprintf(
		"It is done. %s is dealt with, and the matter of %q is settled at last. The road behind you is littered with choices; the one ahead is quiet, for now.",
		p.Endgame.Who, p.MainQuest,
	), nil
}

func (Narrator) FillVariables(_ context.Context, _ string, template string, prior map[string]string) (map[string]string, error) {
	return adventure.FallbackVars(template, prior), nil
}
