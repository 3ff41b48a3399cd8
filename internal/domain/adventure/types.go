package adventure

import "time"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TonePrefs are the optional narration tone switches. They are requested by
// the client but only honored for owned entitlements; normalization happens
// in the app layer.
type TonePrefs struct {
	Sarcasm bool `json:"sarcasm"`
	Gore    bool `json:"gore"`
	Adult   bool `json:"adult"`
}

// Personality describes the recurring NPC attached to a session.
type Personality struct {
	Label         string             `json:"label"`
	Traits        map[string]float64 `json:"traits,omitempty"`
	GoalAffinity  []string           `json:"goal_affinity,omitempty"`
	SideQuestBias map[string]float64 `json:"side_quest_bias,omitempty"`
}

// Endgame is the climactic-arc sub-state. Invariants: 0 <= StepsDone <=
// StepsTotal, and Active and Completed are never both true.
type Endgame struct {
	Active            bool   `json:"active"`
	StepsTotal        int    `json:"steps_total"`
	StepsDone         int    `json:"steps_done"`
	TriggeredBy       string `json:"triggered_by,omitempty"`
	Reason            string `json:"reason,omitempty"`
	StartedTurn       int    `json:"started_turn,omitempty"`
	Completed         bool   `json:"completed"`
	EpilogueShown     bool   `json:"epilogue_shown"`
	PostEpilogueReady bool   `json:"post_epilogue_ready"`
}

type ImageJobStatus string

const (
	ImageJobPending ImageJobStatus = "pending"
	ImageJobReady   ImageJobStatus = "ready"
)

// ImageJob tracks one asynchronous illustration request. A job moves
// pending -> ready at most once, written by exactly one completion path.
type ImageJob struct {
	ID       string         `json:"id"`
	Turn     int            `json:"turn"`
	Status   ImageJobStatus `json:"status"`
	AssetURL string         `json:"asset_url,omitempty"`
}

// Session is one player's in-progress adventure and all of its mutable turn
// state. It is volatile: only an explicit save promotes it to the durable
// store. All mutation goes through the turn usecase under the registry's
// per-session lock.
type Session struct {
	ID          string
	PlayerID    string
	Genre       string
	MainQuest   string
	Vars        map[string]string
	SideEvents  []string
	Personality *Personality
	Prefs       TonePrefs

	History []Message

	Turns          int
	Progress       int
	SideQuestSlots []int
	Endgame        Endgame
	Health         int
	Dead           bool

	WildcardRecent []string

	ImageJobs           map[string]*ImageJob
	TurnsSinceLastImage int
	// NextImageAt is the turns-since-last-illustration gate for this session.
	// Zero means the session has never launched and the configured warm-up
	// gap applies; it drops to 1 after the first launch.
	NextImageAt int
	ImageSeq    int

	CreatedAt time.Time
}

// TurnFacts captures the deterministic per-turn decisions the state machine
// made before narration, for response assembly and collaborator hints.
type TurnFacts struct {
	BlockTurn        int
	SideQuestTurn    bool
	SideQuestHook    string
	EndgameTriggered bool
	WorldReopened    bool
}
