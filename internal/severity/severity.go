// Package severity grades damage mentions as plain or severe.
package severity

import (
	"strings"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/matcher"
	"github.com/FlipSniper/ebay-review-whisperer/internal/vocab"
)

// Assessment explains a damage verdict. Category is empty when no damage is tagged.
type Assessment struct {
	Category domain.IssueCategory
	Keyword  string // first damage keyword that hit
	Severe   bool
	Minor    bool // informational; minor cues never downgrade a severe hint
}

type Detector struct {
	m            *matcher.Matcher
	keywords     []string
	severeMods   *matcher.PhraseSet
	minorMods    *matcher.PhraseSet
	alwaysSevere *matcher.PhraseSet
}

func New(v *vocab.Vocabulary, m *matcher.Matcher) *Detector {
	return &Detector{
		m:            m,
		keywords:     v.Keywords(domain.DamagedProduct),
		severeMods:   matcher.NewPhraseSet(v.SevereModifiers()),
		minorMods:    matcher.NewPhraseSet(v.MinorModifiers()),
		alwaysSevere: matcher.NewPhraseSet(v.AlwaysSevere()),
	}
}

// Detect returns DamagedProductSevere, DamagedProduct or "".
func (d *Detector) Detect(text string, rating domain.Rating) domain.IssueCategory {
	return d.Assess(text, rating).Category
}

// Assess runs the damage rules:
//   - no non-negated damage keyword hit: no damage
//   - a severe modifier or an always-severe word anywhere: severe
//   - a Positive rating without a severe cue: no damage
//   - otherwise plain damage
func (d *Detector) Assess(text string, rating domain.Rating) Assessment {
	t := strings.ToLower(text)
	kw, ok := d.m.PresentAny(t, d.keywords)
	if !ok {
		return Assessment{}
	}
	a := Assessment{
		Keyword: kw,
		Severe:  d.severeMods.Contains(t) || d.alwaysSevere.Contains(t),
		Minor:   d.minorMods.Contains(t),
	}
	switch {
	case a.Severe:
		a.Category = domain.DamagedProductSevere
	case rating.Is(domain.RatingPositive):
		// positive buyers mentioning light wear are not reporting damage
	default:
		a.Category = domain.DamagedProduct
	}
	return a
}
