package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FlipSniper/ebay-review-whisperer/internal/classify"
	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/integrations/llm"
	"github.com/FlipSniper/ebay-review-whisperer/internal/matcher"
	"github.com/FlipSniper/ebay-review-whisperer/internal/vocab"
)

func newReconciler(fb llm.FallbackClassifier, opts Options) *Reconciler {
	v := vocab.Default()
	m := matcher.New(v, matcher.DefaultNegationWindow, matcher.DefaultFuzzyThreshold)
	return New(v, classify.New(v, m), fb, opts)
}

func record(comment, rating string) domain.FeedbackRecord {
	return domain.FeedbackRecord{Row: 1, Comment: comment, RatingType: rating}
}

func TestOverrideSentimentRules(t *testing.T) {
	r := newReconciler(nil, Options{})
	tests := []struct {
		name    string
		comment string
		issues  domain.IssueSet
		rating  domain.Rating
		want    domain.Sentiment
	}{
		{"late delivery on positive rating", "arrived late but otherwise great", domain.NewIssueSet(domain.LateDelivery), domain.RatingPositive, domain.SentimentPositive},
		{"hard negative beats positive rating", "this is a fake", domain.NewIssueSet(domain.FakeOrCounterfeit), domain.RatingPositive, domain.SentimentNegative},
		{"hard negative beats positive wording", "great packaging but fake", domain.NewIssueSet(domain.FakeOrCounterfeit, domain.GoodProduct), domain.RatingNeutral, domain.SentimentNegative},
		{"positive wording without hard negative", "excellent seller", domain.NewIssueSet(domain.Overpriced), domain.RatingNegative, domain.SentimentPositive},
		{"late delivery alone keeps neutral", "took a while", domain.NewIssueSet(domain.LateDelivery), domain.RatingNeutral, domain.SentimentNeutral},
		{"late delivery alone on negative rating", "took a while", domain.NewIssueSet(domain.LateDelivery), domain.RatingNegative, domain.SentimentNegative},
		{"positive issue lifts neutral", "as described", domain.NewIssueSet(domain.AccurateDescription), domain.RatingNeutral, domain.SentimentPositive},
		{"positive issue does not lift negative", "as described", domain.NewIssueSet(domain.AccurateDescription), domain.RatingNegative, domain.SentimentNegative},
		{"pass-through of unknown rating", "meh item", domain.NewIssueSet(domain.Overpriced), domain.Rating("Mixed"), domain.Sentiment("MIXED")},
		{"blank rating reads neutral", "meh item", domain.NewIssueSet(), domain.Rating(""), domain.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.OverrideSentiment(tt.comment, tt.issues, tt.rating); got != tt.want {
				t.Fatalf("OverrideSentiment = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReconcileEmptyComment(t *testing.T) {
	r := newReconciler(llm.StaticClassifier{Default: []llm.LabelScore{{Label: "Late delivery", Confidence: 0.99}}}, Options{})
	got := r.Reconcile(context.Background(), record("   ", "Neutral"))
	if got.Issues.Len() != 0 || got.Sentiment != domain.SentimentNeutral {
		t.Fatalf("unexpected result: issues=%v sentiment=%s", got.Issues.Sorted(), got.Sentiment)
	}
	got = r.Reconcile(context.Background(), record("", ""))
	if got.Sentiment != domain.SentimentNeutral {
		t.Fatalf("blank rating should default to NEUTRAL, got %s", got.Sentiment)
	}
	got = r.Reconcile(context.Background(), record("", "negative"))
	if got.Sentiment != domain.SentimentNegative {
		t.Fatalf("expected upper-cased rating, got %s", got.Sentiment)
	}
}

func TestReconcileFallbackFillsEmptyRuleSet(t *testing.T) {
	fb := llm.StaticClassifier{ByText: map[string][]llm.LabelScore{
		"took three weeks to show up": {
			{Label: "Late delivery", Confidence: 0.91},
			{Label: "Poor customer service", Confidence: 0.55},
		},
	}}
	r := newReconciler(fb, Options{})
	got := r.Reconcile(context.Background(), record("took three weeks to show up", "Neutral"))
	if !got.Issues.Equal(domain.NewIssueSet(domain.LateDelivery)) {
		t.Fatalf("unexpected issues: %v", got.Issues.Sorted())
	}
	if got.Sentiment != domain.SentimentNeutral {
		t.Fatalf("late delivery alone should keep the rating, got %s", got.Sentiment)
	}
	if len(got.FallbackLabels) != 1 || got.FallbackLabels[0] != domain.LateDelivery {
		t.Fatalf("unexpected fallback labels: %v", got.FallbackLabels)
	}
}

func TestReconcileFallbackCannotReopenDescriptionConflict(t *testing.T) {
	fb := llm.StaticClassifier{Default: []llm.LabelScore{{Label: "Misleading description", Confidence: 0.95}}}
	r := newReconciler(fb, Options{})
	got := r.Reconcile(context.Background(), record("item as described", "Positive"))
	if got.Issues.Has(domain.MisleadingDescription) || !got.Issues.Has(domain.AccurateDescription) {
		t.Fatalf("unexpected issues: %v", got.Issues.Sorted())
	}
	if got.Sentiment != domain.SentimentPositive {
		t.Fatalf("unexpected sentiment %s", got.Sentiment)
	}
}

func TestReconcileSecondConflictPass(t *testing.T) {
	fb := llm.StaticClassifier{Default: []llm.LabelScore{{Label: "Accurate description", Confidence: 0.9}}}
	r := newReconciler(fb, Options{})
	got := r.Reconcile(context.Background(), record("not as described, very disappointed", "Negative"))
	if got.Issues.Has(domain.AccurateDescription) || !got.Issues.Has(domain.MisleadingDescription) {
		t.Fatalf("marker should keep Misleading, got %v", got.Issues.Sorted())
	}
	if got.Sentiment != domain.SentimentNegative {
		t.Fatalf("unexpected sentiment %s", got.Sentiment)
	}
}

func TestReconcileDeduplicatesSeverity(t *testing.T) {
	fb := llm.StaticClassifier{Default: []llm.LabelScore{{Label: "Damaged product", Confidence: 0.9}}}
	r := newReconciler(fb, Options{})
	got := r.Reconcile(context.Background(), record("screen cracked", "Negative"))
	if !got.Issues.Has(domain.DamagedProductSevere) || got.Issues.Has(domain.DamagedProduct) {
		t.Fatalf("expected severe damage only, got %v", got.Issues.Sorted())
	}
	if got.Sentiment != domain.SentimentNegative {
		t.Fatalf("severe damage is a hard negative, got %s", got.Sentiment)
	}
}

func TestReconcileFallbackErrorMeansNoLabels(t *testing.T) {
	r := newReconciler(llm.StaticClassifier{Err: errors.New("model offline")}, Options{})
	got := r.Reconcile(context.Background(), record("arrived late", "Neutral"))
	if !got.Issues.Equal(domain.NewIssueSet(domain.LateDelivery)) {
		t.Fatalf("expected rule labels only, got %v", got.Issues.Sorted())
	}
	if len(got.FallbackLabels) != 0 {
		t.Fatalf("expected no fallback labels, got %v", got.FallbackLabels)
	}
}

type blockingClassifier struct{}

func (blockingClassifier) ClassifyMultiLabel(ctx context.Context, _ string, _ []string) ([]llm.LabelScore, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestReconcileFallbackTimeout(t *testing.T) {
	r := newReconciler(blockingClassifier{}, Options{Timeout: 20 * time.Millisecond})
	done := make(chan domain.ClassificationResult, 1)
	go func() { done <- r.Reconcile(context.Background(), record("arrived late", "Neutral")) }()
	select {
	case got := <-done:
		if !got.Issues.Equal(domain.NewIssueSet(domain.LateDelivery)) {
			t.Fatalf("unexpected issues after timeout: %v", got.Issues.Sorted())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fallback timeout was not applied")
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	fb := llm.StaticClassifier{Default: []llm.LabelScore{
		{Label: "Accurate description", Confidence: 0.8},
		{Label: "Damaged product", Confidence: 0.75},
	}}
	r := newReconciler(fb, Options{})
	comments := []struct{ comment, rating string }{
		{"no scratches on the case", "Positive"},
		{"big cracks all over", "Negative"},
		{"tiny scuff but overall happy", "Positive"},
		{"misleading listing, wrong item sent", "Negative"},
		{"took forever, arrived late", "Neutral"},
		{"fake and overpriced", "Positive"},
	}
	for _, c := range comments {
		first := r.Reconcile(context.Background(), record(c.comment, c.rating))
		second := r.Reconcile(context.Background(), record(c.comment, c.rating))
		if !first.Issues.Equal(second.Issues) || first.Sentiment != second.Sentiment {
			t.Fatalf("%q: results drifted between runs", c.comment)
		}

		again := r.Resolve(first.Issues.Clone(), c.comment)
		if !again.Equal(first.Issues) {
			t.Fatalf("%q: resolving a reconciled set changed it: %v -> %v", c.comment, first.Issues.Sorted(), again.Sorted())
		}
		if s := r.OverrideSentiment(c.comment, again, domain.ParseRating(c.rating)); s != first.Sentiment {
			t.Fatalf("%q: sentiment drifted %s -> %s", c.comment, first.Sentiment, s)
		}

		if first.Issues.Has(domain.AccurateDescription) && first.Issues.Has(domain.MisleadingDescription) {
			t.Fatalf("%q: both description tags present", c.comment)
		}
		if first.Issues.Has(domain.DamagedProduct) && first.Issues.Has(domain.DamagedProductSevere) {
			t.Fatalf("%q: both damage tags present", c.comment)
		}
	}
}

func TestReconcileAllKeepsOrder(t *testing.T) {
	r := newReconciler(nil, Options{})
	records := []domain.FeedbackRecord{
		record("arrived late", "Neutral"),
		record("fake", "Positive"),
		record("", "Negative"),
		record("great seller", "Neutral"),
		record("missing parts", "Negative"),
	}
	for i := range records {
		records[i].Row = i + 1
	}
	sequential := r.ReconcileAll(context.Background(), records, 1)
	parallel := r.ReconcileAll(context.Background(), records, 4)
	if len(parallel) != len(records) {
		t.Fatalf("expected %d results, got %d", len(records), len(parallel))
	}
	for i := range records {
		if parallel[i].Record.Row != i+1 {
			t.Fatalf("result %d out of order: row %d", i, parallel[i].Record.Row)
		}
		if !parallel[i].Issues.Equal(sequential[i].Issues) || parallel[i].Sentiment != sequential[i].Sentiment {
			t.Fatalf("result %d differs between sequential and parallel runs", i)
		}
	}
	if parallel[1].Sentiment != domain.SentimentNegative {
		t.Fatalf("fake should be NEGATIVE, got %s", parallel[1].Sentiment)
	}
}
