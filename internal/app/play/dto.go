package play

import (
	"talespin/internal/app/wallet"
	"talespin/internal/domain/adventure"
)

type StartRequest struct {
	PlayerID string
	Genre    string              `json:"genre"`
	Prefs    adventure.TonePrefs `json:"prefs"`
}

type StartResponse struct {
	SessionID   string `json:"session_id"`
	Genre       string `json:"genre"`
	MainQuest   string `json:"main_quest"`
	Personality string `json:"personality,omitempty"`
	Reply       string `json:"reply"`
	Health      int    `json:"health"`
	Turns       int    `json:"turns"`
}

type TurnRequest struct {
	PlayerID  string
	SessionID string               `json:"session_id"`
	Action    string               `json:"action"`
	Prefs     *adventure.TonePrefs `json:"prefs,omitempty"`
}

type TurnResponse struct {
	Reply             string `json:"reply"`
	SideQuestDetected bool   `json:"side_quest_detected"`
	SideQuestsLeft    int    `json:"side_quests_remaining_in_block"`

	EndgameActive     bool   `json:"endgame_active"`
	EndgameStep       int    `json:"endgame_step"`
	EndgameStepsTotal int    `json:"endgame_steps_total"`
	Completed         bool   `json:"completed"`
	Epilogue          string `json:"epilogue,omitempty"`
	PostEpilogueHook  string `json:"post_epilogue_hook,omitempty"`

	Health   int  `json:"health"`
	Dead     bool `json:"dead"`
	Turns    int  `json:"turns"`
	Progress int  `json:"progress"`

	ImageJobID string `json:"image_job_id,omitempty"`

	Energy wallet.Snapshot `json:"energy"`
}

type SaveRequest struct {
	PlayerID  string
	SessionID string `json:"session_id"`
}

type SaveResponse struct {
	StoryID string `json:"story_id"`
}
