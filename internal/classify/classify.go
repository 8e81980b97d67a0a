// Package classify tags a comment with issue categories using keyword rules.
package classify

import (
	"strings"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/matcher"
	"github.com/FlipSniper/ebay-review-whisperer/internal/severity"
	"github.com/FlipSniper/ebay-review-whisperer/internal/vocab"
)

// Hit is one category tagged by a keyword.
type Hit struct {
	Category domain.IssueCategory
	Keyword  string
}

// Explanation is the full trace of a rule-based classification.
type Explanation struct {
	Issues          domain.IssueSet
	Hits            []Hit
	Damage          severity.Assessment
	PositivePhrases []string
	// ConflictDropped is the description category removed by the conflict rule, if any.
	ConflictDropped domain.IssueCategory
}

type Classifier struct {
	vocab    *vocab.Vocabulary
	m        *matcher.Matcher
	damage   *severity.Detector
	positive *matcher.PhraseSet
	markers  []string
}

func New(v *vocab.Vocabulary, m *matcher.Matcher) *Classifier {
	return &Classifier{
		vocab:    v,
		m:        m,
		damage:   severity.New(v, m),
		positive: matcher.NewPhraseSet(v.PositivePhrases()),
		markers:  v.MisleadingMarkers(),
	}
}

// Classify returns the rule-based issue set for a comment.
func (c *Classifier) Classify(text string, rating domain.Rating) domain.IssueSet {
	return c.Explain(text, rating).Issues
}

func (c *Classifier) Explain(text string, rating domain.Rating) Explanation {
	t := strings.ToLower(text)
	ex := Explanation{Issues: domain.NewIssueSet()}

	ex.Damage = c.damage.Assess(t, rating)
	if ex.Damage.Category != "" {
		ex.Issues.Add(ex.Damage.Category)
		ex.Hits = append(ex.Hits, Hit{Category: ex.Damage.Category, Keyword: ex.Damage.Keyword})
	}

	for _, cat := range domain.Categories {
		if cat == domain.DamagedProduct {
			continue
		}
		if kw, ok := c.m.PresentAny(t, c.vocab.Keywords(cat)); ok {
			ex.Issues.Add(cat)
			ex.Hits = append(ex.Hits, Hit{Category: cat, Keyword: kw})
		}
	}

	ex.ConflictDropped = c.ResolveDescriptionConflict(ex.Issues, t)

	if ex.PositivePhrases = c.positive.Matches(t); len(ex.PositivePhrases) > 0 {
		ex.Issues.Add(domain.GoodProduct)
	}
	return ex
}

// ResolveDescriptionConflict keeps at most one of Accurate/Misleading description.
// Misleading wins only when the text contains an explicit misleading marker as
// whole words. It mutates issues and returns the category it removed, or "".
func (c *Classifier) ResolveDescriptionConflict(issues domain.IssueSet, text string) domain.IssueCategory {
	if !issues.Has(domain.AccurateDescription) || !issues.Has(domain.MisleadingDescription) {
		return ""
	}
	drop := domain.MisleadingDescription
	if c.HasMisleadingMarker(text) {
		drop = domain.AccurateDescription
	}
	issues.Remove(drop)
	return drop
}

// HasMisleadingMarker reports whether the text explicitly calls the listing misleading.
func (c *Classifier) HasMisleadingMarker(text string) bool {
	tokens := matcher.Tokenize(text)
	for _, marker := range c.markers {
		if matcher.HasPhrase(tokens, matcher.Tokenize(marker)) {
			return true
		}
	}
	return false
}
