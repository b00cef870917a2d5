package keywords

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes is the shortest token kept; anything shorter or equal to two
// runes is dropped.
const minTokenRunes = 3

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "any": true, "can": true,
	"had": true, "her": true, "was": true, "one": true, "our": true,
	"out": true, "has": true, "have": true, "his": true, "how": true,
	"its": true, "may": true, "now": true, "who": true, "did": true,
	"she": true, "too": true, "this": true, "that": true, "with": true,
	"from": true, "they": true, "will": true, "would": true, "there": true,
	"their": true, "what": true, "about": true, "which": true, "when": true,
	"him": true, "into": true, "your": true, "some": true, "could": true,
	"them": true, "than": true, "then": true, "only": true, "over": true,
	"also": true, "after": true, "these": true, "most": true, "been": true,
	"were": true, "each": true, "where": true, "more": true, "very": true,
	"such": true, "should": true, "here": true, "those": true, "because": true,
	"both": true, "being": true, "does": true, "doing": true, "during": true,
	"before": true, "below": true, "between": true, "through": true, "under": true,
	"until": true, "while": true, "above": true, "again": true, "against": true,
	"further": true, "once": true, "same": true, "other": true, "just": true,
	"own": true, "yours": true, "ours": true, "hers": true, "himself": true,
	"herself": true, "itself": true, "themselves": true, "myself": true, "yourself": true,
	"whom": true, "why": true, "off": true, "nor": true, "few": true,
}

// IsStopWord reports whether w is filtered out of keyword counts.
func IsStopWord(w string) bool {
	return stopWords[strings.ToLower(w)]
}

// Tokenize lowercases text, strips every rune that is not a letter, digit,
// underscore or whitespace, splits on whitespace and drops short tokens and
// stop words.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenRunes || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
