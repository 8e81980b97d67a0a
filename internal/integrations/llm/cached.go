package llm

import (
	"context"
	"encoding/json"
	"log"
)

// LabelCache persists fallback scores keyed by exact comment text.
type LabelCache interface {
	GetFallbackLabels(ctx context.Context, provider, text string) (string, bool, error)
	PutFallbackLabels(ctx context.Context, provider, text, labelsJSON string) error
}

// CachedClassifier memoizes another classifier. Cache failures are logged and
// never fail the call; classifier errors are not cached.
type CachedClassifier struct {
	inner    FallbackClassifier
	cache    LabelCache
	provider string
}

func NewCachedClassifier(inner FallbackClassifier, cache LabelCache, provider string) *CachedClassifier {
	return &CachedClassifier{inner: inner, cache: cache, provider: provider}
}

func (c *CachedClassifier) ClassifyMultiLabel(ctx context.Context, text string, labels []string) ([]LabelScore, error) {
	if raw, ok, err := c.cache.GetFallbackLabels(ctx, c.provider, text); err != nil {
		log.Printf("llm cache read error provider=%s: %v", c.provider, err)
	} else if ok {
		var scores []LabelScore
		if err := json.Unmarshal([]byte(raw), &scores); err == nil {
			return scores, nil
		}
		log.Printf("llm cache entry unreadable provider=%s, refreshing", c.provider)
	}

	scores, err := c.inner.ClassifyMultiLabel(ctx, text, labels)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(scores)
	if err != nil {
		return scores, nil
	}
	if err := c.cache.PutFallbackLabels(ctx, c.provider, text, string(data)); err != nil {
		log.Printf("llm cache write error provider=%s: %v", c.provider, err)
	}
	return scores, nil
}
