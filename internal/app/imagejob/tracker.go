package imagejob

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"talespin/internal/app/ports"
	"talespin/internal/domain/adventure"
	"talespin/internal/domain/energy"
)

// MaxPromptLen bounds the scene prompt handed to the illustration
// collaborator, after whitespace normalization.
const MaxPromptLen = 480

// Tracker launches and tracks asynchronous illustration jobs keyed by turn.
// Jobs are registered pending before dispatch; the completion goroutine is
// the only writer that flips a job to ready, and it does so under the
// session's lock so a turn can never pick up another turn's artwork.
type Tracker struct {
	Sessions    ports.SessionRegistry
	Illustrator ports.Illustrator
	// Threshold is the warm-up gap before a session's first launch. After
	// that the per-session gate drops to 1, so every eligible turn launches.
	Threshold int
}

// MaybeLaunch must be called with the session's lock held (inside the turn
// usecase). It returns the launched job id, or "" when this turn is not
// illustration-eligible. Generation runs after the turn response content is
// finalized and never blocks it.
func (t *Tracker) MaybeLaunch(s *adventure.Session, tier energy.Tier, sceneText string) string {
	if t == nil {
		return ""
	}
	// The counter runs on every turn so a mid-session tier upgrade inherits
	// the elapsed gap instead of starting over.
	s.TurnsSinceLastImage++
	if t.Illustrator == nil || !tier.AIImages {
		return ""
	}
	gate := s.NextImageAt
	if gate < 1 {
		gate = t.Threshold
	}
	if gate < 1 {
		gate = 1
	}
	if s.TurnsSinceLastImage < gate {
		return ""
	}
	s.TurnsSinceLastImage = 0
	s.NextImageAt = 1

	jobID := s.NextImageJobID()
	s.ImageJobs[jobID] = &adventure.ImageJob{ID: jobID, Turn: s.Turns, Status: adventure.ImageJobPending}

	prompt := ClampPrompt(fmt.Sprintf(
		"Scene from a %s adventure. Main quest: %s. Recent story: %s. Rendered in detailed cinematic style, natural lighting, realistic proportions.",
		s.Genre, s.MainQuest, sceneText,
	))
	sessionID := s.ID

	go t.run(sessionID, jobID, prompt)
	return jobID
}

func (t *Tracker) run(sessionID, jobID, prompt string) {
	url, err := t.Illustrator.Generate(context.Background(), prompt, jobID)
	if err != nil {
		// The job stays pending forever; the caller's poll budget handles it.
		log.Printf("image job %s failed: %v", jobID, err)
		return
	}
	err = t.Sessions.WithSession(context.Background(), sessionID, func(s *adventure.Session) error {
		job, ok := s.ImageJobs[jobID]
		if !ok || job.Status != adventure.ImageJobPending {
			return nil
		}
		job.Status = adventure.ImageJobReady
		job.AssetURL = url
		return nil
	})
	if err != nil {
		log.Printf("image job %s completion: %v", jobID, err)
	}
}

type Status struct {
	Ready    bool   `json:"ready"`
	AssetURL string `json:"image_url,omitempty"`
	Turn     int    `json:"turn,omitempty"`
}

// Status reports a job's state. Unknown sessions, unknown jobs, and pending
// jobs all read as not-ready; only an explicitly completed job exposes its
// asset and originating turn.
func (t *Tracker) Status(ctx context.Context, sessionID, jobID string) (Status, error) {
	var out Status
	err := t.Sessions.WithSession(ctx, sessionID, func(s *adventure.Session) error {
		job, ok := s.ImageJobs[jobID]
		if !ok || job.Status != adventure.ImageJobReady {
			return nil
		}
		out = Status{Ready: true, AssetURL: job.AssetURL, Turn: job.Turn}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return Status{}, nil
		}
		return Status{}, err
	}
	return out, nil
}

// ClampPrompt whitespace-normalizes and bounds a scene description.
func ClampPrompt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= MaxPromptLen {
		return s
	}
	return string(runes[:MaxPromptLen]) + "…"
}
