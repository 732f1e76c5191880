package chunking

import (
	"strings"
	"unicode"
)

// Abbreviations whose trailing period must not be treated as a sentence
// end. Keys are lowercased with internal periods stripped ("e.g." -> "eg").
var abbreviations = map[string]struct{}{
	"dr":     {},
	"mr":     {},
	"mrs":    {},
	"ms":     {},
	"prof":   {},
	"sr":     {},
	"jr":     {},
	"st":     {},
	"vs":     {},
	"etc":    {},
	"eg":     {},
	"ie":     {},
	"cf":     {},
	"al":     {},
	"us":     {},
	"uk":     {},
	"no":     {},
	"inc":    {},
	"ltd":    {},
	"co":     {},
	"corp":   {},
	"fig":    {},
	"dept":   {},
	"approx": {},
}

// splitSentences cuts text into sentences. Blank lines always end a
// sentence; '.', '!' and '?' end one when followed by whitespace and an
// uppercase letter or digit, unless the period closes a known abbreviation
// or a single-letter initial. Text without any boundary comes back as one
// sentence.
func splitSentences(text string) []string {
	var out []string
	for _, para := range splitParagraphs(text) {
		out = append(out, splitParagraphSentences(para)...)
	}
	return out
}

func splitParagraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			out = append(out, block)
		}
	}
	return out
}

func splitParagraphSentences(para string) []string {
	runes := []rune(para)
	var out []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if !boundaryFollows(runes, i) {
			continue
		}
		if r == '.' && protectedPeriod(runes, start, i) {
			continue
		}

		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			out = append(out, sentence)
		}
		start = i + 1
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		out = append(out, tail)
	}
	return out
}

// boundaryFollows reports whether the punctuation at i is trailed by
// whitespace and then an uppercase letter or digit.
func boundaryFollows(runes []rune, i int) bool {
	j := i + 1
	// Swallow closing quotes/brackets attached to the punctuation.
	for j < len(runes) && (runes[j] == '"' || runes[j] == '\'' || runes[j] == ')' || runes[j] == ']') {
		j++
	}
	if j >= len(runes) || !unicode.IsSpace(runes[j]) {
		return false
	}
	for j < len(runes) && unicode.IsSpace(runes[j]) {
		j++
	}
	if j >= len(runes) {
		// Trailing punctuation at end of paragraph still closes a sentence.
		return true
	}
	return unicode.IsUpper(runes[j]) || unicode.IsDigit(runes[j])
}

// protectedPeriod reports whether the period at i closes an abbreviation
// or a single-letter initial rather than a sentence.
func protectedPeriod(runes []rune, start, i int) bool {
	j := i - 1
	for j >= start && !unicode.IsSpace(runes[j]) {
		j--
	}
	word := string(runes[j+1 : i])
	if word == "" {
		return false
	}

	letters := 0
	normalized := make([]rune, 0, len(word))
	for _, r := range word {
		if r == '.' {
			continue
		}
		normalized = append(normalized, unicode.ToLower(r))
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters == 0 {
		return false
	}
	if len(normalized) == 1 {
		// Initials like "J. Smith".
		return true
	}
	_, ok := abbreviations[string(normalized)]
	return ok
}
