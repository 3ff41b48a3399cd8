package wildcard

import (
	"strings"

	"talespin/internal/domain/rng"
)

// Window is the bounded FIFO of recently used flavor words, owned by the
// caller (one per session). It keeps the engine from repeating itself.
type Window struct {
	Max   int
	Words []string
}

func (w *Window) Seen(word string) bool {
	if w == nil {
		return false
	}
	word = strings.ToLower(word)
	for _, used := range w.Words {
		if used == word {
			return true
		}
	}
	return false
}

func (w *Window) Push(word string) {
	if w == nil {
		return
	}
	w.Words = append(w.Words, strings.ToLower(word))
	max := w.Max
	if max <= 0 {
		max = DefaultConfig().RecentWindowSize
	}
	for len(w.Words) > max {
		w.Words = w.Words[1:]
	}
}

// Engine is the lexical flavor-substitution pass applied to generated prose.
// Transform is pure text work over an injected random source; its only side
// effect is pushing accepted replacements into the caller's window.
type Engine struct {
	cfg         Config
	lex         Lexicon
	descriptors []string
	rng         rng.Rand
}

// NewEngine merges the curated descriptor pool with descriptors mined from
// the paired examples.
func NewEngine(cfg Config, lex Lexicon, pairs []ExamplePair, random rng.Rand) *Engine {
	pool := make([]string, 0, len(lex.Descriptors))
	seen := map[string]struct{}{}
	for _, d := range append(append([]string(nil), lex.Descriptors...), MineDescriptors(pairs)...) {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		pool = append(pool, d)
	}
	return &Engine{cfg: cfg, lex: lex, descriptors: pool, rng: random}
}

func (e *Engine) Transform(text string, recent *Window) string {
	if !e.cfg.Enabled || text == "" {
		return text
	}
	sentences := splitSentences(text)
	var b strings.Builder
	for _, sentence := range sentences {
		b.WriteString(e.transformSentence(sentence, recent))
	}
	return b.String()
}

func (e *Engine) transformSentence(sentence string, recent *Window) string {
	tokens := tokenize(sentence)
	firstWord := firstWordIndex(tokens)
	swaps := 0

	for i := 0; i < len(tokens) && swaps < e.cfg.MaxSwapsPerSentence; i++ {
		tok := tokens[i]
		if !tok.word || !e.eligible(tok.text, i == firstWord) {
			continue
		}
		if e.rng.Float64() >= e.cfg.WordChance {
			continue
		}
		base := strings.ToLower(tok.text)

		if repl := e.chooseSynonym(base); repl != "" {
			if e.banned(repl) || recent.Seen(repl) {
				continue
			}
			tokens[i].text = mirrorCase(tok.text, repl)
			recent.Push(repl)
			swaps++
			continue
		}

		if !nounContext(tokens, i) {
			continue
		}
		desc := e.chooseDescriptor()
		if desc == "" || e.banned(desc) || recent.Seen(desc) {
			continue
		}
		tokens[i].text = mirrorCase(tok.text, desc) + " " + base
		recent.Push(desc)
		recent.Push(base)
		swaps++
	}
	return joinTokens(tokens)
}

func (e *Engine) eligible(tok string, first bool) bool {
	if !pureAlpha.MatchString(tok) {
		return false
	}
	lower := strings.ToLower(tok)
	if _, stop := e.lex.StopWords[lower]; stop {
		return false
	}
	if len(lower) < e.cfg.MinWordLength {
		return false
	}
	if !first && isCapitalized(tok) {
		return false
	}
	for _, p := range e.cfg.ProtectedTerms {
		if strings.Contains(lower, strings.ToLower(p)) {
			return false
		}
	}
	return true
}

func (e *Engine) chooseSynonym(word string) string {
	candidates := e.lex.Synonyms[word]
	if len(candidates) == 0 {
		return ""
	}
	return candidates[e.rng.Intn(len(candidates))]
}

func (e *Engine) chooseDescriptor() string {
	if len(e.descriptors) == 0 {
		return ""
	}
	return e.descriptors[e.rng.Intn(len(e.descriptors))]
}

func (e *Engine) banned(candidate string) bool {
	for _, b := range e.cfg.BanList {
		if strings.Contains(candidate, b) {
			return true
		}
	}
	return false
}

func firstWordIndex(tokens []token) int {
	for i, t := range tokens {
		if t.word {
			return i
		}
	}
	return -1
}

// nounContext applies the crude heuristic for descriptor injection: the word
// follows a determiner, or is followed by punctuation or the end of the
// clause.
func nounContext(tokens []token, i int) bool {
	for j := i - 1; j >= 0; j-- {
		if strings.TrimSpace(tokens[j].text) == "" {
			continue
		}
		if tokens[j].word {
			switch strings.ToLower(tokens[j].text) {
			case "the", "a", "an", "this", "that", "these", "those", "some", "any":
				return true
			}
		}
		break
	}
	for j := i + 1; j < len(tokens); j++ {
		if strings.TrimSpace(tokens[j].text) == "" {
			continue
		}
		return !tokens[j].word
	}
	return true
}
