package severity

import (
	"testing"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/matcher"
	"github.com/FlipSniper/ebay-review-whisperer/internal/vocab"
)

func newDetector() *Detector {
	v := vocab.Default()
	return New(v, matcher.New(v, matcher.DefaultNegationWindow, matcher.DefaultFuzzyThreshold))
}

func TestDetect(t *testing.T) {
	d := newDetector()
	tests := []struct {
		name   string
		text   string
		rating domain.Rating
		want   domain.IssueCategory
	}{
		{"cracked is always severe", "Screen cracked", domain.RatingNeutral, domain.DamagedProductSevere},
		{"cracked overrides positive rating", "Screen cracked but seller refunded", domain.RatingPositive, domain.DamagedProductSevere},
		{"minor wear on positive rating", "a couple of tiny scratches, otherwise perfect", domain.RatingPositive, ""},
		{"plain damage on neutral rating", "some scratches on the back", domain.RatingNeutral, domain.DamagedProduct},
		{"severe modifier", "deep scratches all over the case", domain.RatingPositive, domain.DamagedProductSevere},
		{"negated keyword", "no scratches at all", domain.RatingNegative, ""},
		{"no damage words", "arrived on time", domain.RatingNegative, ""},
		{"broken on negative rating", "it came broken", domain.RatingNegative, domain.DamagedProduct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Detect(tt.text, tt.rating); got != tt.want {
				t.Fatalf("Detect(%q, %s) = %q, want %q", tt.text, tt.rating, got, tt.want)
			}
		})
	}
}

func TestAssessReportsCues(t *testing.T) {
	d := newDetector()
	a := d.Assess("minor scuff, phone otherwise fine", domain.RatingNeutral)
	if a.Category != domain.DamagedProduct {
		t.Fatalf("expected plain damage, got %q", a.Category)
	}
	if !a.Minor || a.Severe {
		t.Fatalf("unexpected cues: %+v", a)
	}
	if a.Keyword != "scuff" {
		t.Fatalf("expected scuff keyword, got %q", a.Keyword)
	}
}
