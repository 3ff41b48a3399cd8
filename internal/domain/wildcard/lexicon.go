package wildcard

import "strings"

// Lexicon holds the curated substitution data: a synonym bank keyed by
// lowercased word, a descriptor pool for noun injection, and the stop-word
// set. Pools can be enriched with descriptors mined from paired example
// sentences at load time.
type Lexicon struct {
	Synonyms    map[string][]string
	Descriptors []string
	StopWords   map[string]struct{}
}

// ExamplePair is a base sentence and its hand-spiced rendition; tokens
// present only in the spiced side and at least four characters long feed the
// descriptor pool.
type ExamplePair struct {
	Base   string `json:"base"`
	Spiced string `json:"spiced"`
}

// MineDescriptors diffs the paired sentences for extra descriptor tokens.
func MineDescriptors(pairs []ExamplePair) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range pairs {
		base := map[string]struct{}{}
		for _, tok := range splitAlnum(strings.ToLower(p.Base)) {
			base[tok] = struct{}{}
		}
		for _, tok := range splitAlnum(strings.ToLower(p.Spiced)) {
			if len(tok) < 4 {
				continue
			}
			if _, dup := base[tok]; dup {
				continue
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}

func splitAlnum(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
}

// DefaultLexicon is the hand-tuned post-apocalypse bank: verbs with their
// inflections, a few nouns, adjectives, and adverbs.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Synonyms: map[string][]string{
			"search":    {"rummage", "scour", "probe", "comb"},
			"searches":  {"rummages", "scours", "probes", "combs"},
			"searched":  {"rummaged", "scoured", "probed", "combed"},
			"searching": {"rummaging", "scouring", "probing", "combing"},

			"carry":    {"haul", "lug", "shoulder", "drag"},
			"carries":  {"hauls", "lugs", "shoulders", "drags"},
			"carried":  {"hauled", "lugged", "shouldered", "dragged"},
			"carrying": {"hauling", "lugging", "shouldering", "dragging"},

			"walk":    {"trudge", "limp", "shuffle", "stalk"},
			"walks":   {"trudges", "limps", "shuffles", "stalks"},
			"walked":  {"trudged", "limped", "shuffled", "stalked"},
			"walking": {"trudging", "limping", "shuffling", "stalking"},

			"see":  {"spot", "sight", "espy", "notice"},
			"sees": {"spots", "sights", "espies", "notices"},
			"saw":  {"spotted", "sighted", "espied", "noticed"},

			"say":  {"murmur", "rasp", "mutter", "growl"},
			"says": {"murmurs", "rasps", "mutters", "growls"},
			"said": {"murmured", "rasped", "muttered", "growled"},

			"look":    {"peer", "glance", "scan", "survey"},
			"looks":   {"peers", "glances", "scans", "surveys"},
			"looked":  {"peered", "glanced", "scanned", "surveyed"},
			"looking": {"peering", "glancing", "scanning", "surveying"},

			"rifle": {"carbine", "boltgun"},
			"road":  {"causeway", "strip", "artery", "span"},
			"city":  {"grid", "concrete hive", "dead borough", "civic shell"},
			"mask":  {"respirator", "filter rig", "visor"},
			"armor": {"plates", "patchwork mail", "layered rig"},

			"broken": {"fractured", "splintered", "buckled", "spidered"},
			"ruined": {"gutted", "blasted", "shattered", "picked-over"},
			"small":  {"meager", "stingy", "paltry", "scant"},
			"silent": {"hushed", "soundless", "mute", "dead-still"},
			"dark":   {"lightless", "sooted", "pitch-black", "coal-dim"},

			"slowly":  {"measuredly", "wearily", "haltingly", "gingerly"},
			"quietly": {"softly", "hushedly", "mutedly", "underbreath"},
		},
		Descriptors: []string{
			"pitted", "lichen-choked", "sun-pocked", "bone-white", "oxide-veined",
			"frost-burned", "burlap-wrapped", "oil-caked", "wire-lashed", "tar-streaked",
			"silt-dusted", "skeletonized", "sputtering", "buckled",
		},
		StopWords: defaultStopWords(),
	}
}

func defaultStopWords() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an", "and", "any", "are", "as", "at", "be", "because",
		"been", "before", "being", "below", "between", "both", "but", "by", "could", "did", "do", "does", "doing", "down",
		"during", "each", "few", "for", "from", "further", "had", "has", "have", "having", "he", "her", "here", "hers",
		"herself", "him", "himself", "his", "how", "i", "if", "in", "into", "is", "it", "its", "itself", "me", "more", "most",
		"my", "myself", "no", "nor", "not", "of", "off", "on", "once", "only", "or", "other", "our", "ours", "ourselves", "out",
		"over", "own", "same", "she", "should", "so", "some", "such", "than", "that", "the", "their", "theirs", "them",
		"themselves", "then", "there", "these", "they", "this", "those", "through", "to", "too", "under", "until", "up", "very",
		"was", "we", "were", "what", "when", "where", "which", "while", "who", "whom", "why", "with", "would", "you", "your",
		"yours", "yourself", "yourselves",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
