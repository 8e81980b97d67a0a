package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
)

type mapTranslator struct {
	out   map[string]string
	err   error
	calls int
}

func (m *mapTranslator) Translate(_ context.Context, text string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.out[text], nil
}

type memoryCache map[string]string

func (c memoryCache) GetTranslation(_ context.Context, text string) (string, bool, error) {
	v, ok := c[text]
	return v, ok, nil
}

func (c memoryCache) PutTranslation(_ context.Context, text, translated string) error {
	c[text] = translated
	return nil
}

func TestLooksEnglish(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"great seller", true},
		{"fast shipping great item thanks", true},
		{"The item arrived on time and it was exactly as described", true},
		{"El producto llegó muy tarde y estaba roto", false},
		{"Le colis est arrivé avec une semaine de retard", false},
		{"Die Ware ist nicht wie beschrieben und das ist schade", false},
		{"A+++ 5 stars", true},
	}
	for _, tt := range tests {
		if got := LooksEnglish(tt.text); got != tt.want {
			t.Fatalf("LooksEnglish(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestStageApply(t *testing.T) {
	spanish := "El producto llegó muy tarde y estaba roto"
	tr := &mapTranslator{out: map[string]string{spanish: "The product arrived very late and was broken"}}
	cache := memoryCache{}
	s := New(tr, cache)

	records := []domain.FeedbackRecord{
		{Row: 1, Comment: "great seller"},
		{Row: 2, Comment: spanish},
		{Row: 3, Comment: ""},
	}
	if n := s.Apply(context.Background(), records); n != 1 {
		t.Fatalf("expected 1 translated record, got %d", n)
	}
	if records[1].Comment != "The product arrived very late and was broken" {
		t.Fatalf("unexpected translation: %q", records[1].Comment)
	}
	if records[0].Comment != "great seller" {
		t.Fatalf("English comment changed: %q", records[0].Comment)
	}
	if cache[spanish] == "" {
		t.Fatal("translation was not cached")
	}

	again := []domain.FeedbackRecord{{Comment: spanish}}
	s.Apply(context.Background(), again)
	if tr.calls != 1 {
		t.Fatalf("expected cached translation to be reused, translator called %d times", tr.calls)
	}
}

func TestStageKeepsOriginalOnFailure(t *testing.T) {
	text := "Le colis est arrivé avec une semaine de retard"
	s := New(&mapTranslator{err: errors.New("rate limited")}, nil)
	records := []domain.FeedbackRecord{{Comment: text}}
	if n := s.Apply(context.Background(), records); n != 0 {
		t.Fatalf("expected no translations, got %d", n)
	}
	if records[0].Comment != text {
		t.Fatalf("comment should be kept, got %q", records[0].Comment)
	}
}

func TestNilStageIsNoop(t *testing.T) {
	var s *Stage
	records := []domain.FeedbackRecord{{Comment: "muy bien el producto y el vendedor"}}
	if n := s.Apply(context.Background(), records); n != 0 {
		t.Fatalf("nil stage translated %d records", n)
	}
}
