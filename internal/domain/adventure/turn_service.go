package adventure

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"talespin/internal/domain/rng"
)

// TurnService advances a session's hidden turn state. Every roll goes
// through the injected random source; nothing here touches the global
// generator.
type TurnService struct {
	Rules Rules
	RNG   rng.Rand
}

// ReopenIfReady applies the post-epilogue continuation: the first turn after
// the epilogue resets the endgame sub-state and soft-resets progress to a
// quarter of its prior value so a new arc can eventually re-trigger.
func (t TurnService) ReopenIfReady(s *Session) bool {
	eg := s.Endgame
	if !(eg.Completed && eg.EpilogueShown && eg.PostEpilogueReady) {
		return false
	}
	s.Endgame = Endgame{StartedTurn: s.Turns}
	s.Progress = int(math.Floor(float64(s.Progress) * ProgressSoftResetFraction))
	return true
}

// BeginTurn applies the deterministic (up to injected randomness) turn
// mutations in order: turn counter, block-start slot sampling, progress,
// endgame trigger, side-quest consumption. It must run before the narrative
// call; nothing it decides depends on generated prose.
func (t TurnService) BeginTurn(s *Session, action string) TurnFacts {
	s.Turns++
	facts := TurnFacts{BlockTurn: s.BlockTurn()}

	// Slots are drawn exactly once per block, never retroactively.
	if facts.BlockTurn == 1 {
		s.SideQuestSlots = t.sampleSideQuestSlots()
	}

	s.Progress += t.progressDelta(action)
	if s.Turns >= MomentumTurn {
		s.Progress++
	}

	if !s.Endgame.Active && !s.Endgame.Completed {
		chance := EndgameChance(s.Turns)
		if s.Progress >= EndgameMinProgress && t.RNG.Float64() < chance {
			t.triggerEndgame(s)
			facts.EndgameTriggered = true
		}
	}

	// The endgame owns the turn: a side-quest slot that would have fired is
	// suppressed (and kept for later in the block).
	if !s.Endgame.Active && slotSet(s.SideQuestSlots, facts.BlockTurn) {
		facts.SideQuestTurn = true
		facts.SideQuestHook = t.chooseSideEvent(s)
		s.SideQuestSlots = removeSlot(s.SideQuestSlots, facts.BlockTurn)
	}

	return facts
}

// AdvanceEndgame classifies the action against the advancing lexicon and
// moves an active arc forward. Returns true when this turn completed the arc.
func (t TurnService) AdvanceEndgame(s *Session, action string) bool {
	if !s.Endgame.Active {
		return false
	}
	if !t.Rules.Advancing.MatchString(strings.ToLower(action)) {
		return false
	}
	s.Endgame.StepsDone++
	if s.Endgame.StepsDone >= s.Endgame.StepsTotal {
		s.Endgame.Active = false
		s.Endgame.Completed = true
		return true
	}
	return false
}

// MarkEpilogueShown flips the one-shot epilogue flags after the epilogue has
// been generated.
func (t TurnService) MarkEpilogueShown(s *Session) {
	s.Endgame.EpilogueShown = true
	s.Endgame.PostEpilogueReady = true
}

// EndgameChance ramps from 10% at the eligibility turn by 2% per turn,
// capped at 60%.
func EndgameChance(turns int) float64 {
	if turns < EndgameMinTurns {
		return 0
	}
	extra := float64(turns - EndgameMinTurns)
	chance := EndgameBaseChance + EndgameChancePerTurn*extra
	if chance < 0 {
		return 0
	}
	if chance > EndgameMaxChance {
		return EndgameMaxChance
	}
	return chance
}

func (t TurnService) progressDelta(action string) int {
	delta := 1
	if t.Rules.Constructive.MatchString(strings.ToLower(action)) {
		delta += 2
	}
	return delta
}

func (t TurnService) sampleSideQuestSlots() []int {
	count := 1
	if t.RNG.Float64() >= SideQuestSingleChance {
		count = 2
	}
	pool := make([]int, BlockSize)
	for i := range pool {
		pool[i] = i + 1
	}
	for i := len(pool) - 1; i > 0; i-- {
		j := t.RNG.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	slots := append([]int(nil), pool[:count]...)
	sort.Ints(slots)
	return slots
}

func (t TurnService) triggerEndgame(s *Session) {
	who := "A figure you've been following"
	if s.Personality != nil && s.Personality.Label != "" {
		who = s.Personality.Label
	}
	stepsTotal := 2
	if t.RNG.Float64() >= 0.5 {
		stepsTotal = 3
	}
	s.Endgame = Endgame{
		Active:      true,
		StepsTotal:  stepsTotal,
		TriggeredBy: who,
		Reason:      fmt.Sprintf("Because of your earlier efforts (%q), their plan finally comes together.", s.MainQuest),
		StartedTurn: s.Turns,
	}
}

// chooseSideEvent picks a side-event template, weighted by the personality's
// side-quest bias when tags match the template text.
func (t TurnService) chooseSideEvent(s *Session) string {
	events := s.SideEvents
	if len(events) == 0 {
		return ""
	}
	var bias map[string]float64
	if s.Personality != nil {
		bias = s.Personality.SideQuestBias
	}
	if len(bias) == 0 {
		return events[t.RNG.Intn(len(events))]
	}
	weights := make([]float64, len(events))
	total := 0.0
	for i, tpl := range events {
		w := 1.0
		lower := strings.ToLower(tpl)
		for tag, weight := range bias {
			if weight > 0 && strings.Contains(lower, strings.ToLower(tag)) {
				w += weight
			}
		}
		weights[i] = w
		total += w
	}
	r := t.RNG.Float64() * total
	for i, w := range weights {
		if r -= w; r <= 0 {
			return events[i]
		}
	}
	return events[len(events)-1]
}

func slotSet(slots []int, n int) bool {
	for _, s := range slots {
		if s == n {
			return true
		}
	}
	return false
}

func removeSlot(slots []int, n int) []int {
	out := slots[:0]
	for _, s := range slots {
		if s != n {
			out = append(out, s)
		}
	}
	return out
}
