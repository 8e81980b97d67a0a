package textnorm

import (
	"testing"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/vocab"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  “Great” seller  ", `"Great" seller`},
		{"didn’t arrive – refund issued — thanks", "didn't arrive - refund issued - thanks"},
		{"line one\nline two", "line one line two"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterDropsDegenerateComments(t *testing.T) {
	n := New(vocab.Default())
	records := []domain.FeedbackRecord{
		{Row: 1, Comment: " OK ", RatingType: "Positive"},
		{Row: 2, Comment: "Nice", RatingType: "Positive"},
		{Row: 3, Comment: "good seller", RatingType: "Positive"},
		{Row: 4, Comment: "", RatingType: "Neutral"},
		{Row: 5, Comment: "Item arrived “broken”", RatingType: "Negative"},
	}

	kept, dropped := n.Filter(records)
	if dropped != 2 {
		t.Fatalf("expected 2 dropped records, got %d", dropped)
	}
	if len(kept) != 3 {
		t.Fatalf("expected 3 kept records, got %d", len(kept))
	}
	if kept[0].Row != 3 || kept[1].Row != 4 || kept[2].Row != 5 {
		t.Fatalf("unexpected kept rows: %+v", kept)
	}
	if kept[2].Comment != `Item arrived "broken"` {
		t.Fatalf("expected normalized comment, got %q", kept[2].Comment)
	}
}
