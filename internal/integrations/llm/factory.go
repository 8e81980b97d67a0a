package llm

import (
	"log"

	"github.com/FlipSniper/ebay-review-whisperer/internal/config"
)

// NewCompleter returns the chat model for the configured provider, or nil when
// the provider cannot generate text.
func NewCompleter(cfg config.Config) Completer {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		return AnthropicCompleter{APIKey: cfg.AnthropicAPIKey, Model: cfg.LLMModel}
	case config.ProviderOpenAI:
		return OpenAICompleter{APIKey: cfg.OpenAIAPIKey, Model: cfg.LLMModel}
	default:
		return nil
	}
}

// NewFallback builds the fallback classifier for cfg. A non-nil cache memoizes
// model calls; provider "none" never consults a model.
func NewFallback(cfg config.Config, cache LabelCache) FallbackClassifier {
	var fc FallbackClassifier
	switch cfg.LLMProvider {
	case config.ProviderAnthropic, config.ProviderOpenAI:
		fc = NewChatClassifier(NewCompleter(cfg))
	case config.ProviderZeroShot:
		fc = NewZeroShotClient(cfg.ZeroShotURL)
	default:
		log.Printf("llm fallback disabled provider=%s", cfg.LLMProvider)
		return NoopClassifier{}
	}
	if cache != nil {
		fc = NewCachedClassifier(fc, cache, cfg.LLMProvider+":"+cfg.LLMModel)
	}
	return fc
}

// NewTranslator returns nil when the provider cannot translate.
func NewTranslator(cfg config.Config) Translator {
	c := NewCompleter(cfg)
	if c == nil {
		return nil
	}
	return NewChatTranslator(c)
}
