// Package llm wraps the pre-trained models the classifier consults: the
// multi-label fallback tagger and the comment translator.
package llm

import (
	"context"
	"sort"
	"strings"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
)

// LabelScore is one ranked fallback label.
type LabelScore struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// FallbackClassifier scores every candidate label independently for a comment.
// Implementations may be slow; callers bound them with ctx.
type FallbackClassifier interface {
	ClassifyMultiLabel(ctx context.Context, text string, labels []string) ([]LabelScore, error)
}

// CategoryLabels returns the label list offered to every fallback call.
func CategoryLabels() []string {
	out := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		out[i] = string(c)
	}
	return out
}

// SelectLabels keeps known labels with confidence >= minConf, highest first, at
// most topK of them. Ties keep the order the classifier returned them in.
func SelectLabels(scores []LabelScore, minConf float64, topK int) []domain.IssueCategory {
	ranked := make([]LabelScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Confidence > ranked[j].Confidence })

	var out []domain.IssueCategory
	seen := make(map[domain.IssueCategory]bool)
	for _, s := range ranked {
		if len(out) >= topK {
			break
		}
		if s.Confidence < minConf {
			break
		}
		c, ok := canonicalLabel(s.Label)
		if !ok || c == domain.DamagedProductSevere || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func canonicalLabel(label string) (domain.IssueCategory, bool) {
	label = strings.TrimSpace(label)
	for _, c := range domain.Categories {
		if strings.EqualFold(string(c), label) {
			return c, true
		}
	}
	return "", false
}

// NoopClassifier never returns labels; used when no fallback model is configured.
type NoopClassifier struct{}

func (NoopClassifier) ClassifyMultiLabel(context.Context, string, []string) ([]LabelScore, error) {
	return nil, nil
}

// StaticClassifier returns fixed scores keyed by exact comment text, and Default
// for anything else. Err, when set, is returned for every call.
type StaticClassifier struct {
	ByText  map[string][]LabelScore
	Default []LabelScore
	Err     error
}

func (s StaticClassifier) ClassifyMultiLabel(_ context.Context, text string, _ []string) ([]LabelScore, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if scores, ok := s.ByText[text]; ok {
		return scores, nil
	}
	return s.Default, nil
}
