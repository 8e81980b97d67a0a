package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

const classifySystemPrompt = `You label marketplace seller feedback for a zero-shot, multi-label task.
Score every candidate label independently: the confidence (0.0 to 1.0) that the label applies to the comment.
Labels are not exclusive; several may score high, or none.
Respond with JSON only (no markdown):
[{"label": "Late delivery", "confidence": 0.12}, ...]`

// ChatClassifier asks a chat model to act as the zero-shot multi-label tagger.
type ChatClassifier struct {
	completer Completer
}

func NewChatClassifier(c Completer) *ChatClassifier {
	return &ChatClassifier{completer: c}
}

func (c *ChatClassifier) ClassifyMultiLabel(ctx context.Context, text string, labels []string) ([]LabelScore, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var b strings.Builder
	b.WriteString("Candidate labels:\n")
	for _, l := range labels {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	b.WriteString("\nComment:\n")
	b.WriteString(text)

	responseText, usage, err := c.completer.Complete(ctx, classifySystemPrompt, b.String())
	if err != nil {
		return nil, err
	}
	log.Printf("llm fallback provider=%s labels=%d tokens_in=%d tokens_out=%d", c.completer.Provider(), len(labels), usage.InputTokens, usage.OutputTokens)
	return parseLabelScores(responseText, labels)
}

// parseLabelScores keeps only offered labels, clamps confidences to [0,1] and
// ignores duplicate labels after the first.
func parseLabelScores(responseText string, offered []string) ([]LabelScore, error) {
	responseText = stripCodeFence(responseText)
	var raw []LabelScore
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		return nil, fmt.Errorf("parsing fallback response: %w (truncated response: %s)", err, truncateForError(responseText))
	}
	allowed := make(map[string]string, len(offered))
	for _, l := range offered {
		allowed[strings.ToLower(l)] = l
	}
	seen := make(map[string]bool)
	out := make([]LabelScore, 0, len(raw))
	for _, s := range raw {
		label, ok := allowed[strings.ToLower(strings.TrimSpace(s.Label))]
		if !ok || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, LabelScore{Label: label, Confidence: min(max(s.Confidence, 0), 1)})
	}
	return out, nil
}
