package play

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"talespin/internal/app/imagejob"
	"talespin/internal/app/ports"
	"talespin/internal/app/wallet"
	"talespin/internal/domain/adventure"
	"talespin/internal/domain/energy"
	"talespin/internal/domain/wildcard"
)

// TurnEnergyCost is the flat per-turn deduction.
const TurnEnergyCost = 1

const (
	instantDeathText = "You step into certain death, and the world does not negotiate. Everything goes white, then silent. Your story ends here."
	woundsDeathText  = "Your wounds are too deep this time. Your legs give out, the ground rushes up, and the world fades. Your story ends here."

	postEpilogueHookText = "The dust settles, but the world keeps turning. A new rumor finds you on the road. Say the word when you're ready to walk again."
)

// TurnUseCase is the per-turn orchestrator. The whole pipeline runs inside
// the session's exclusive lock, in a fixed order: death gate, energy gate,
// post-epilogue reopen, deterministic state machine, risk and damage,
// endgame advance, narration, wildcard pass, illustration launch, epilogue.
// All deterministic mutations land before the narrative call; a narrative
// failure keeps them.
type TurnUseCase struct {
	Sessions ports.SessionRegistry
	Ledgers  ports.EnergyLedgerRepository
	Flusher  ports.LedgerFlusher
	Narrator ports.Narrator
	Scorer   ports.RiskScorer
	Images   *imagejob.Tracker
	Wildcard *wildcard.Engine
	Turn     adventure.TurnService
	Metrics  ports.TurnMetrics
	Now      func() time.Time
}

func (uc *TurnUseCase) Execute(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	action := strings.TrimSpace(req.Action)
	if req.PlayerID == "" || req.SessionID == "" || action == "" {
		uc.recordRejected()
		return TurnResponse{}, fmt.Errorf("turn for session %q: %w", req.SessionID, ErrInvalidRequest)
	}

	var resp TurnResponse
	err := uc.Sessions.WithSession(ctx, req.SessionID, func(s *adventure.Session) error {
		if s.Dead {
			return ErrAlreadyDead
		}

		now := uc.now()
		var tier energy.Tier
		var snap wallet.Snapshot
		var owned energy.Entitlements
		err := uc.Ledgers.WithLedger(ctx, req.PlayerID, func(l *energy.Ledger) error {
			if err := l.Spend(TurnEnergyCost, now); err != nil {
				return err
			}
			if uc.Flusher != nil {
				uc.Flusher.Notify(*l)
			}
			tier = l.Tier()
			owned = l.Entitlements
			snap = wallet.SnapshotOf(l, now)
			return nil
		})
		if err != nil {
			return err
		}
		if req.Prefs != nil {
			s.Prefs = normalizePrefs(*req.Prefs, owned)
		}

		reopened := uc.Turn.ReopenIfReady(s)
		facts := uc.Turn.BeginTurn(s, action)
		facts.WorldReopened = reopened

		// The hook template is resolved before narration so the narrator
		// sees concrete names, and resolved variables persist for later
		// turns.
		hook := ""
		if facts.SideQuestTurn && facts.SideQuestHook != "" {
			vars, err := uc.Narrator.FillVariables(ctx, s.Genre, facts.SideQuestHook, s.Vars)
			if err != nil {
				uc.recordFailure()
				return fmt.Errorf("fill side-quest variables: %w", ErrCollaborator)
			}
			for k, v := range vars {
				s.Vars[k] = v
			}
			hook = adventure.ApplyTemplate(facts.SideQuestHook, s.Vars)
		}

		risk := uc.scoreRisk(ctx, s, action, facts.SideQuestTurn)
		outcome := adventure.DamageFromRisk(uc.Turn.RNG, risk, facts.SideQuestTurn)
		if adventure.ApplyDamage(s, outcome) {
			// Death is final and needs no narrator: the fixed death text is
			// the reply, and the session stays queryable but rejects turns.
			text := woundsDeathText
			if outcome.InstantDeath {
				text = instantDeathText
			}
			s.Append(adventure.RoleUser, action)
			s.Append(adventure.RoleAssistant, text)
			resp = uc.assemble(s, facts, text, "", "", "", snap)
			uc.recordTurn("died")
			return nil
		}

		// Stage is captured pre-advance so the narrator narrates the step
		// the player is completing, not the one after it.
		var stage *ports.EndgameStage
		if s.Endgame.Active {
			st := endgameStage(s)
			st.Stage = s.Endgame.StepsDone + 1
			stage = &st
		}
		uc.Turn.AdvanceEndgame(s, action)

		text, err := uc.Narrator.ContinueStory(ctx, ports.TurnPrompt{
			Genre:         s.Genre,
			MainQuest:     s.MainQuest,
			Vars:          s.Vars,
			History:       s.History,
			Action:        action,
			Personality:   s.Personality,
			SideQuestHook: hook,
			Endgame:       stage,
			Prefs:         s.Prefs,
		})
		if err != nil {
			uc.recordFailure()
			return fmt.Errorf("continue story: %w", ErrCollaborator)
		}
		text = spice(uc.Wildcard, s, text)

		jobID := uc.Images.MaybeLaunch(s, tier, text)

		epilogue := ""
		postHook := ""
		if s.Endgame.Completed && !s.Endgame.EpilogueShown {
			epilogue, err = uc.Narrator.Epilogue(ctx, ports.EpiloguePrompt{
				Genre:       s.Genre,
				MainQuest:   s.MainQuest,
				Vars:        s.Vars,
				Personality: s.Personality,
				Endgame:     endgameStage(s),
			})
			if err != nil {
				uc.recordFailure()
				return fmt.Errorf("epilogue: %w", ErrCollaborator)
			}
			epilogue = spice(uc.Wildcard, s, epilogue)
			uc.Turn.MarkEpilogueShown(s)
			postHook = postEpilogueHookText
		}

		s.Append(adventure.RoleUser, action)
		s.Append(adventure.RoleAssistant, text)
		if epilogue != "" {
			s.Append(adventure.RoleAssistant, epilogue)
		}

		resp = uc.assemble(s, facts, text, epilogue, postHook, jobID, snap)
		switch {
		case epilogue != "":
			uc.recordTurn("completed")
		case facts.EndgameTriggered:
			uc.recordTurn("endgame_triggered")
		default:
			uc.recordTurn("advanced")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			uc.recordRejected()
			return TurnResponse{}, fmt.Errorf("session %q: %w", req.SessionID, ErrSessionNotFound)
		}
		if errors.Is(err, ErrAlreadyDead) || errors.Is(err, energy.ErrInsufficientEnergy) {
			uc.recordRejected()
		}
		return TurnResponse{}, err
	}
	return resp, nil
}

// scoreRisk resolves the action's 0-5 risk: the hazard lexicon first, then
// the scorer collaborator, then the deterministic fallback when the scorer
// is absent, errors, or returns garbage.
func (uc *TurnUseCase) scoreRisk(ctx context.Context, s *adventure.Session, action string, sideQuestTurn bool) int {
	if score := uc.Turn.Rules.HazardScore(action); score >= 0 {
		return score
	}
	if uc.Scorer != nil {
		score, err := uc.Scorer.Score(ctx, action, ports.RiskContext{
			MainQuest:     s.MainQuest,
			EndgameActive: s.Endgame.Active,
			SideQuestTurn: sideQuestTurn,
		})
		if err == nil && score >= 0 && score <= 5 {
			return score
		}
	}
	return uc.Turn.Rules.FallbackRiskScore(action)
}

func (uc *TurnUseCase) assemble(s *adventure.Session, facts adventure.TurnFacts, reply, epilogue, postHook, jobID string, snap wallet.Snapshot) TurnResponse {
	return TurnResponse{
		Reply:             reply,
		SideQuestDetected: facts.SideQuestTurn,
		SideQuestsLeft:    len(s.SideQuestSlots),
		EndgameActive:     s.Endgame.Active,
		EndgameStep:       s.Endgame.StepsDone,
		EndgameStepsTotal: s.Endgame.StepsTotal,
		Completed:         s.Endgame.Completed,
		Epilogue:          epilogue,
		PostEpilogueHook:  postHook,
		Health:            s.Health,
		Dead:              s.Dead,
		Turns:             s.Turns,
		Progress:          s.Progress,
		ImageJobID:        jobID,
		Energy:            snap,
	}
}

func endgameStage(s *adventure.Session) ports.EndgameStage {
	return ports.EndgameStage{
		Stage:  s.Endgame.StepsDone,
		Total:  s.Endgame.StepsTotal,
		Who:    s.Endgame.TriggeredBy,
		Reason: s.Endgame.Reason,
	}
}

func (uc *TurnUseCase) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

func (uc *TurnUseCase) recordTurn(outcome string) {
	if uc.Metrics != nil {
		uc.Metrics.RecordTurn(outcome)
	}
}

func (uc *TurnUseCase) recordRejected() {
	if uc.Metrics != nil {
		uc.Metrics.RecordRejected()
	}
}

func (uc *TurnUseCase) recordFailure() {
	if uc.Metrics != nil {
		uc.Metrics.RecordFailure()
	}
}
