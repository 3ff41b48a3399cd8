package adventure

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Placeholders lists the {variable} names in a template, in order.
func Placeholders(template string) []string {
	var out []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		out = append(out, m[1])
	}
	return out
}

// ApplyTemplate substitutes known variables, leaving unknown placeholders
// visible rather than dropping them.
func ApplyTemplate(template string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := vars[name]; ok && v != "" {
			return v
		}
		return m
	})
}

// FallbackVars fills placeholders without a collaborator: prior values win,
// otherwise the variable name itself, title-cased with underscores spaced.
func FallbackVars(template string, prior map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range prior {
		out[k] = v
	}
	for _, name := range Placeholders(template) {
		if _, ok := out[name]; ok {
			continue
		}
		words := strings.Split(name, "_")
		for i, w := range words {
			if w != "" {
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
		out[name] = strings.Join(words, " ")
	}
	return out
}
