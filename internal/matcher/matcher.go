package matcher

import (
	"strings"

	"github.com/FlipSniper/ebay-review-whisperer/internal/vocab"
)

const (
	DefaultNegationWindow = 3
	DefaultFuzzyThreshold = 95.0
)

// Matcher carries the negation triggers and tuning shared by every keyword check.
// It is read-only after construction and safe for concurrent use.
type Matcher struct {
	triggers  map[string]bool
	window    int
	threshold float64
}

// New builds a Matcher from the vocabulary's negation triggers. A negative window
// or a non-positive threshold falls back to the defaults.
func New(v *vocab.Vocabulary, window int, threshold float64) *Matcher {
	if window < 0 {
		window = DefaultNegationWindow
	}
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	triggers := make(map[string]bool)
	for _, t := range v.NegationTriggers() {
		for _, tok := range Tokenize(t) {
			triggers[tok] = true
		}
	}
	return &Matcher{triggers: triggers, window: window, threshold: threshold}
}

// IsNegated reports whether any whole-word occurrence of keyword is preceded by a
// negation trigger with at most window words in between. The keyword's own
// leading word never counts as its trigger.
func (m *Matcher) IsNegated(text, keyword string) bool {
	tokens := Tokenize(text)
	for _, j := range phraseStarts(tokens, Tokenize(keyword)) {
		for i := max(0, j-m.window-1); i < j; i++ {
			if m.triggers[tokens[i]] {
				return true
			}
		}
	}
	return false
}

// FuzzyMatch reports whether keyword aligns with some part of text at or above
// the configured threshold. Both sides are compared lower-cased.
func (m *Matcher) FuzzyMatch(text, keyword string) bool {
	return PartialRatio(strings.ToLower(keyword), strings.ToLower(text)) >= m.threshold
}

// Present is the keyword hit used by every rule: a fuzzy match with no negation.
func (m *Matcher) Present(text, keyword string) bool {
	if m.IsNegated(text, keyword) {
		return false
	}
	return m.FuzzyMatch(text, keyword)
}

// PresentAny returns the first keyword from kws that is present in text.
func (m *Matcher) PresentAny(text string, kws []string) (string, bool) {
	for _, kw := range kws {
		if m.Present(text, kw) {
			return kw, true
		}
	}
	return "", false
}
