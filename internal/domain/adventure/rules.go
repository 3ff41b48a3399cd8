package adventure

import "regexp"

const (
	StartingHealth = 10
	MaxHealth      = 10

	BlockSize = 10

	SideQuestSingleChance = 0.7

	MomentumTurn       = 35
	EndgameMinTurns    = 35
	EndgameMinProgress = 24

	EndgameBaseChance    = 0.10
	EndgameChancePerTurn = 0.02
	EndgameMaxChance     = 0.60

	ProgressSoftResetFraction = 0.25
)

// Rules holds the tunable keyword lists and patterns driving progress,
// endgame advancement, and risk. The defaults mirror the shipped content;
// operators can override them without touching the state machine.
type Rules struct {
	// Constructive actions earn +2 progress on top of the per-turn base.
	Constructive *regexp.Regexp
	// Advancing actions move an active endgame arc a step forward.
	Advancing *regexp.Regexp
	// Hazard matches actions that deliberately enter an unsurvivable hazard
	// and short-circuit to instant death.
	Hazard *regexp.Regexp

	// Fallback risk-scoring verb classes, used when no scorer collaborator
	// is available.
	Cautious *regexp.Regexp
	Brisk    *regexp.Regexp
	Violent  *regexp.Regexp
}

func DefaultRules() Rules {
	return Rules{
		Constructive: regexp.MustCompile(`\b(rescue|save|escort|deliver|search|track|repair|build|decode|negotiate|sneak|defend|guard|map|scout|treat|heal|cure|fix)\b`),
		Advancing:    regexp.MustCompile(`\b(yes|accept|help|assist|fight|board|join|proceed|advance|go|run|charge|defend|negotiate|launch|activate|repair|broadcast|enter)\b`),
		Hazard:       regexp.MustCompile(`(?i)\b(jump into|walk into|enter|charge into)\b.*\b(fire|firestorm|reactor|acid|void|airlock|radiation|minefield)\b`),
		Cautious:     regexp.MustCompile(`\b(sneak|careful|hide|observe|wait|listen)\b`),
		Brisk:        regexp.MustCompile(`\b(run|dash|hurry|push|climb|cross|enter)\b`),
		Violent:      regexp.MustCompile(`\b(fight|attack|charge|shoot|ambush|explode|detonate)\b`),
	}
}
