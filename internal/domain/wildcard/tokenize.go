package wildcard

import (
	"regexp"
	"strings"
	"unicode"
)

var sentenceDelim = regexp.MustCompile(`[.!?]+["')\]]*\s+`)

// splitSentences cuts text into sentence units, each keeping its trailing
// delimiter and whitespace so plain concatenation reproduces the input.
func splitSentences(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	prev := 0
	for _, m := range sentenceDelim.FindAllStringIndex(text, -1) {
		out = append(out, text[prev:m[1]])
		prev = m[1]
	}
	if prev < len(text) {
		out = append(out, text[prev:])
	}
	return out
}

type token struct {
	text string
	word bool
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
}

// tokenize splits a sentence into alternating word and non-word runs.
// Non-word runs keep whitespace verbatim; joining the tokens back is
// lossless.
func tokenize(s string) []token {
	var out []token
	start := 0
	inWord := false
	for i, r := range s {
		w := isWordRune(r)
		if i == 0 {
			inWord = w
			continue
		}
		if w != inWord {
			out = append(out, token{text: s[start:i], word: inWord})
			start = i
			inWord = w
		}
	}
	if start < len(s) {
		out = append(out, token{text: s[start:], word: inWord})
	}
	return out
}

func joinTokens(tokens []token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.text)
	}
	return b.String()
}

var pureAlpha = regexp.MustCompile(`^[A-Za-z][A-Za-z'-]*$`)

func isAllCaps(w string) bool {
	return len(w) > 1 && w == strings.ToUpper(w)
}

func isCapitalized(w string) bool {
	if len(w) < 2 {
		return false
	}
	first := rune(w[0])
	second := rune(w[1])
	return unicode.IsUpper(first) && unicode.IsLower(second)
}

// mirrorCase forces the replacement to follow the source token's case shape.
func mirrorCase(src, repl string) string {
	if isAllCaps(src) {
		return strings.ToUpper(repl)
	}
	if len(src) > 0 && unicode.IsUpper(rune(src[0])) {
		if len(repl) == 0 {
			return repl
		}
		return strings.ToUpper(repl[:1]) + repl[1:]
	}
	return repl
}
