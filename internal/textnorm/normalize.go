// Package textnorm canonicalizes comment text before classification.
package textnorm

import (
	"strings"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/vocab"
	"golang.org/x/text/unicode/norm"
)

var typographic = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"’", "'", "‘", "'",
	"–", "-", "—", "-",
	"\r\n", " ", "\n", " ", "\r", " ",
)

// Normalize composes the text, folds typographic quotes and dashes to ASCII,
// flattens line breaks and trims. It never fails; "" is a valid result.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	return strings.TrimSpace(typographic.Replace(s))
}

// Normalizer drops one-word acknowledgements that carry no classification signal.
type Normalizer struct {
	stop map[string]bool
}

func New(v *vocab.Vocabulary) *Normalizer {
	stop := make(map[string]bool)
	for _, w := range v.Stoplist() {
		stop[w] = true
	}
	return &Normalizer{stop: stop}
}

// IsDegenerate reports whether a normalized comment is in the stoplist.
func (n *Normalizer) IsDegenerate(comment string) bool {
	return n.stop[strings.ToLower(strings.TrimSpace(comment))]
}

// Filter normalizes every comment and drops degenerate records. Blank comments
// are kept; they classify to an empty issue set downstream.
func (n *Normalizer) Filter(records []domain.FeedbackRecord) ([]domain.FeedbackRecord, int) {
	kept := make([]domain.FeedbackRecord, 0, len(records))
	dropped := 0
	for _, rec := range records {
		rec.Comment = Normalize(rec.Comment)
		if n.IsDegenerate(rec.Comment) {
			dropped++
			continue
		}
		kept = append(kept, rec)
	}
	return kept, dropped
}
