package adventure

import (
	"fmt"
	"time"
)

func NewSession(id, playerID, genre, mainQuest string, vars map[string]string, sideEvents []string, personality *Personality, now time.Time) *Session {
	if vars == nil {
		vars = map[string]string{}
	}
	return &Session{
		ID:          id,
		PlayerID:    playerID,
		Genre:       genre,
		MainQuest:   mainQuest,
		Vars:        vars,
		SideEvents:  sideEvents,
		Personality: personality,
		Health:      StartingHealth,
		ImageJobs:   map[string]*ImageJob{},
		CreatedAt:   now,
	}
}

// BlockTurn maps the absolute turn counter onto its 1..BlockSize position
// within the current side-quest scheduling block.
func (s *Session) BlockTurn() int {
	if s.Turns <= 0 {
		return 0
	}
	return ((s.Turns - 1) % BlockSize) + 1
}

func (s *Session) Append(role Role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content})
}

// MarkDead is terminal and absorbing. Health is forced to zero so the
// dead <=> health==0 invariant holds on both damage and hazard paths.
func (s *Session) MarkDead() {
	s.Health = 0
	s.Dead = true
}

// NextImageJobID allocates a job identifier unique to (session, turn,
// sequence), independent of clock resolution.
func (s *Session) NextImageJobID() string {
	s.ImageSeq++
	return fmt.Sprintf("%s-t%d-%d", s.ID, s.Turns, s.ImageSeq)
}

// CheckInvariants reports the first violated session invariant, nil when the
// state is consistent. Exercised by tests after every mutation path.
func (s *Session) CheckInvariants() error {
	if s.Health < 0 || s.Health > MaxHealth {
		return fmt.Errorf("health %d out of range", s.Health)
	}
	if s.Dead != (s.Health == 0) && s.Dead {
		return fmt.Errorf("dead flag with health %d", s.Health)
	}
	if s.Endgame.StepsDone < 0 || s.Endgame.StepsDone > s.Endgame.StepsTotal {
		return fmt.Errorf("endgame steps %d/%d out of range", s.Endgame.StepsDone, s.Endgame.StepsTotal)
	}
	if s.Endgame.Active && s.Endgame.Completed {
		return fmt.Errorf("endgame both active and completed")
	}
	if len(s.SideQuestSlots) > 2 {
		return fmt.Errorf("%d side-quest slots", len(s.SideQuestSlots))
	}
	for _, slot := range s.SideQuestSlots {
		if slot < 1 || slot > BlockSize {
			return fmt.Errorf("side-quest slot %d out of block", slot)
		}
	}
	return nil
}
