package llm

import (
	"context"
	"fmt"
	"strings"
)

const translateSystemPrompt = `You translate marketplace buyer feedback into English.
Keep the meaning, tone and any product details. Do not add commentary.
If the text is already English, return it unchanged.
Respond with the translated text only.`

// Translator turns a comment into English.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

type ChatTranslator struct {
	completer Completer
}

func NewChatTranslator(c Completer) *ChatTranslator {
	return &ChatTranslator{completer: c}
}

func (t *ChatTranslator) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	out, _, err := t.completer.Complete(ctx, translateSystemPrompt, text)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("empty translation from %s", t.completer.Provider())
	}
	return out, nil
}
