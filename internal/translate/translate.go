// Package translate rewrites non-English comments into English before they are
// classified.
package translate

import (
	"context"
	"log"
	"strings"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/integrations/llm"
)

// Cache memoizes translations by exact source text.
type Cache interface {
	GetTranslation(ctx context.Context, text string) (string, bool, error)
	PutTranslation(ctx context.Context, text, translated string) error
}

type Stage struct {
	translator llm.Translator
	cache      Cache
	detect     func(string) bool
}

// New returns a stage that translates with t. cache may be nil.
func New(t llm.Translator, cache Cache) *Stage {
	return &Stage{translator: t, cache: cache, detect: LooksEnglish}
}

// Apply translates the comments of records in place and returns how many changed.
// A comment that fails to translate is kept as written.
func (s *Stage) Apply(ctx context.Context, records []domain.FeedbackRecord) int {
	if s == nil || s.translator == nil {
		return 0
	}
	translated := 0
	for i := range records {
		out, ok := s.Translate(ctx, records[i].Comment)
		if !ok {
			continue
		}
		records[i].Comment = out
		translated++
	}
	return translated
}

// Translate returns the English text and true when text was translated.
func (s *Stage) Translate(ctx context.Context, text string) (string, bool) {
	if strings.TrimSpace(text) == "" || s.detect(text) {
		return text, false
	}
	if s.cache != nil {
		cached, ok, err := s.cache.GetTranslation(ctx, text)
		if err != nil {
			log.Printf("translate cache lookup failed err=%v", err)
		} else if ok {
			return cached, cached != text
		}
	}
	out, err := s.translator.Translate(ctx, text)
	if err != nil {
		log.Printf("translate failed, keeping original err=%v", err)
		return text, false
	}
	if s.cache != nil {
		if err := s.cache.PutTranslation(ctx, text, out); err != nil {
			log.Printf("translate cache store failed err=%v", err)
		}
	}
	return out, out != text
}
