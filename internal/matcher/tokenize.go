// Package matcher decides whether a keyword is present in a comment: fuzzily
// matched and not negated by a preceding trigger word.
package matcher

import (
	"strings"
	"unicode"
)

// Tokenize splits text into lower-cased word tokens. A word is a maximal run of
// letters, digits, combining marks or underscores; everything else separates.
func Tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}

// phraseStarts returns every index at which phrase occurs as contiguous whole tokens.
func phraseStarts(tokens, phrase []string) []int {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return nil
	}
	var starts []int
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		match := true
		for k, p := range phrase {
			if tokens[i+k] != p {
				match = false
				break
			}
		}
		if match {
			starts = append(starts, i)
		}
	}
	return starts
}

// HasPhrase reports whether the phrase tokens occur contiguously in tokens.
func HasPhrase(tokens, phrase []string) bool {
	return len(phraseStarts(tokens, phrase)) > 0
}

// ContainsPhrase reports whether phrase occurs in text as whole words.
func ContainsPhrase(text, phrase string) bool {
	return HasPhrase(Tokenize(text), Tokenize(phrase))
}
