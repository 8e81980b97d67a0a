package matcher

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// PhraseSet finds literal substring hits of a fixed phrase list in one pass.
// The underlying automaton keeps per-call state, so matches are serialized.
type PhraseSet struct {
	mu      sync.Mutex
	phrases []string
	m       *ahocorasick.Matcher
}

func NewPhraseSet(phrases []string) *PhraseSet {
	cleaned := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	ps := &PhraseSet{phrases: cleaned}
	if len(cleaned) > 0 {
		ps.m = ahocorasick.NewStringMatcher(cleaned)
	}
	return ps
}

// Matches returns the phrases occurring anywhere in text, in list order.
func (ps *PhraseSet) Matches(text string) []string {
	if ps.m == nil {
		return nil
	}
	lower := []byte(strings.ToLower(text))
	ps.mu.Lock()
	hits := ps.m.Match(lower)
	ps.mu.Unlock()
	if len(hits) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(hits))
	for _, i := range hits {
		seen[i] = true
	}
	out := make([]string, 0, len(seen))
	for i, p := range ps.phrases {
		if seen[i] {
			out = append(out, p)
		}
	}
	return out
}

func (ps *PhraseSet) Contains(text string) bool {
	return len(ps.Matches(text)) > 0
}
