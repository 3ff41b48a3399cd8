package adventure

import (
	"regexp"

	"talespin/internal/domain/rng"
)

var goalPatterns = []struct {
	goal string
	re   *regexp.Regexp
}{
	{"rescue", regexp.MustCompile(`(?i)\b(rescue|save|free|liberate|protect)\b`)},
	{"retrieve", regexp.MustCompile(`(?i)\b(find|retrieve|recover|locate|steal|collect)\b`)},
	{"destroy", regexp.MustCompile(`(?i)\b(destroy|kill|sabotage|burn|dismantle|end)\b`)},
	{"escort", regexp.MustCompile(`(?i)\b(deliver|escort|bring|transport|guide)\b`)},
	{"survive", regexp.MustCompile(`(?i)\b(survive|escape|outlast|endure|flee)\b`)},
}

// InferGoalType classifies a main-quest line by its dominant verb.
func InferGoalType(quest string) string {
	for _, gp := range goalPatterns {
		if gp.re.MatchString(quest) {
			return gp.goal
		}
	}
	return "explore"
}

// ChoosePersonality picks a companion personality weighted toward the
// quest's goal type. Candidates whose affinity lists the goal are
// preferred; when none match the whole pool is eligible.
func ChoosePersonality(r rng.Rand, pool []Personality, quest string) Personality {
	if len(pool) == 0 {
		return Personality{}
	}
	goal := InferGoalType(quest)
	var matched []Personality
	for _, p := range pool {
		for _, g := range p.GoalAffinity {
			if g == goal {
				matched = append(matched, p)
				break
			}
		}
	}
	if len(matched) == 0 {
		matched = pool
	}
	return matched[r.Intn(len(matched))]
}
