package adventure

import (
	"strings"

	"talespin/internal/domain/rng"
)

// InstantDeathRisk is the sentinel score for actions that deliberately enter
// an unsurvivable hazard; it bypasses the normal damage bands.
const InstantDeathRisk = 999

// HazardScore short-circuits hazard actions to the instant-death sentinel.
// Returns -1 when the action is not a hazard and normal scoring applies.
func (r Rules) HazardScore(action string) int {
	if strings.TrimSpace(action) == "" {
		return -1
	}
	if r.Hazard.MatchString(action) {
		return InstantDeathRisk
	}
	return -1
}

// FallbackRiskScore is the deterministic 0-5 scoring used when no scorer
// collaborator is available: cautious verbs 0, brisk movement 2, violence 4,
// everything else 1.
func (r Rules) FallbackRiskScore(action string) int {
	a := strings.ToLower(strings.TrimSpace(action))
	if a == "" {
		return 0
	}
	switch {
	case r.Cautious.MatchString(a):
		return 0
	case r.Brisk.MatchString(a):
		return 2
	case r.Violent.MatchString(a):
		return 4
	default:
		return 1
	}
}

type DamageOutcome struct {
	InstantDeath bool
	Damage       int
}

// DamageFromRisk maps a 0-5 risk score onto a damage range and an
// apply-probability. Side-quest turns raise the upper bound by one (capped
// at 5) and the probability by 0.1 (capped at 1.0).
func DamageFromRisk(random rng.Rand, risk int, sideQuestTurn bool) DamageOutcome {
	if risk >= InstantDeathRisk {
		return DamageOutcome{InstantDeath: true, Damage: InstantDeathRisk}
	}
	var lo, hi int
	var applyProb float64
	switch {
	case risk <= 1:
		lo, hi, applyProb = 0, 1, 0.5
	case risk <= 3:
		lo, hi, applyProb = 2, 3, 0.8
	default:
		lo, hi, applyProb = 4, 5, 1.0
	}
	if sideQuestTurn {
		if hi < 5 {
			hi++
		}
		applyProb += 0.1
		if applyProb > 1.0 {
			applyProb = 1.0
		}
	}
	if random.Float64() > applyProb {
		return DamageOutcome{}
	}
	return DamageOutcome{Damage: rng.IntBetween(random, lo, hi)}
}

// ApplyDamage mutates health and the dead flag. Returns true when this
// damage killed the session.
func ApplyDamage(s *Session, out DamageOutcome) bool {
	if s.Dead {
		return false
	}
	if out.InstantDeath {
		s.MarkDead()
		return true
	}
	if out.Damage <= 0 {
		return false
	}
	s.Health -= out.Damage
	if s.Health <= 0 {
		s.MarkDead()
		return true
	}
	return false
}
