// Package reconcile merges rule-based and fallback labels into the final issue
// set and decides the final sentiment for each record.
package reconcile

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/FlipSniper/ebay-review-whisperer/internal/classify"
	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/integrations/llm"
	"github.com/FlipSniper/ebay-review-whisperer/internal/matcher"
	"github.com/FlipSniper/ebay-review-whisperer/internal/vocab"
)

type Options struct {
	MinConfidence float64       // default 0.70
	MaxLabels     int           // default 3
	Timeout       time.Duration // per fallback call; 0 means no extra bound
}

type Reconciler struct {
	rules    *classify.Classifier
	fallback llm.FallbackClassifier
	positive *matcher.PhraseSet
	labels   []string
	opts     Options
}

func New(v *vocab.Vocabulary, rules *classify.Classifier, fallback llm.FallbackClassifier, opts Options) *Reconciler {
	if opts.MinConfidence == 0 {
		opts.MinConfidence = 0.70
	}
	if opts.MaxLabels == 0 {
		opts.MaxLabels = 3
	}
	if fallback == nil {
		fallback = llm.NoopClassifier{}
	}
	return &Reconciler{
		rules:    rules,
		fallback: fallback,
		positive: matcher.NewPhraseSet(v.PositivePhrases()),
		labels:   llm.CategoryLabels(),
		opts:     opts,
	}
}

// Reconcile classifies one record. It never fails: fallback problems degrade to
// rule-based labels only.
func (r *Reconciler) Reconcile(ctx context.Context, rec domain.FeedbackRecord) domain.ClassificationResult {
	comment := strings.TrimSpace(rec.Comment)
	rating := rec.Rating()
	if comment == "" {
		return domain.ClassificationResult{Record: rec, Issues: domain.NewIssueSet(), Sentiment: passThrough(rating)}
	}

	issues, extra := r.FinalizeIssues(ctx, rec.Row, comment, rating)
	return domain.ClassificationResult{
		Record:         rec,
		Issues:         issues,
		Sentiment:      r.OverrideSentiment(comment, issues, rating),
		FallbackLabels: extra,
	}
}

// FinalizeIssues runs the rule-based classifier, merges the fallback labels and
// re-applies the exclusivity rules. It also returns what the fallback contributed.
func (r *Reconciler) FinalizeIssues(ctx context.Context, row int, text string, rating domain.Rating) (domain.IssueSet, []domain.IssueCategory) {
	rb := r.rules.Classify(text, rating)
	fromFallback := r.fallbackLabels(ctx, row, text)

	issues := rb.Clone()
	var added []domain.IssueCategory
	for _, c := range fromFallback {
		// the fallback may not reopen a conflict the rules already settled
		if c == domain.MisleadingDescription && rb.Has(domain.AccurateDescription) {
			continue
		}
		issues.Add(c)
		added = append(added, c)
	}
	return r.Resolve(issues, text), added
}

// Resolve enforces both exclusive pairs in place and returns issues. Applying it
// to an already resolved set changes nothing.
func (r *Reconciler) Resolve(issues domain.IssueSet, text string) domain.IssueSet {
	if issues.Has(domain.DamagedProductSevere) {
		issues.Remove(domain.DamagedProduct)
	}
	r.rules.ResolveDescriptionConflict(issues, strings.ToLower(text))
	return issues
}

func (r *Reconciler) fallbackLabels(ctx context.Context, row int, text string) []domain.IssueCategory {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}
	scores, err := r.fallback.ClassifyMultiLabel(ctx, text, r.labels)
	if err != nil {
		log.Printf("reconcile fallback error row=%d (continuing with rule labels): %v", row, err)
		return nil
	}
	return llm.SelectLabels(scores, r.opts.MinConfidence, r.opts.MaxLabels)
}

// OverrideSentiment applies the override rules in order; the first match wins.
func (r *Reconciler) OverrideSentiment(comment string, issues domain.IssueSet, rating domain.Rating) domain.Sentiment {
	hardNeg := issues.HasHardNegative()
	positiveRating := rating.Is(domain.RatingPositive)
	negativeRating := rating.Is(domain.RatingNegative)

	switch {
	case positiveRating && !hardNeg:
		return domain.SentimentPositive
	case !hardNeg && r.positive.Contains(comment):
		return domain.SentimentPositive
	case issues.Len() == 1 && issues.Has(domain.LateDelivery) && !negativeRating:
		// late delivery alone does not flip the buyer's own rating
		return passThrough(rating)
	case hardNeg:
		return domain.SentimentNegative
	case issues.HasPositive() && !negativeRating:
		return domain.SentimentPositive
	default:
		return passThrough(rating)
	}
}

// passThrough reports the buyer's rating as the sentiment; a blank rating reads as NEUTRAL.
func passThrough(rating domain.Rating) domain.Sentiment {
	if s := rating.PassThrough(); s != "" {
		return s
	}
	return domain.SentimentNeutral
}

// ReconcileAll reconciles records in input order. With workers > 1 records are
// processed concurrently; results keep their input positions.
func (r *Reconciler) ReconcileAll(ctx context.Context, records []domain.FeedbackRecord, workers int) []domain.ClassificationResult {
	results := make([]domain.ClassificationResult, len(records))
	if workers <= 1 || len(records) <= 1 {
		for i, rec := range records {
			results[i] = r.Reconcile(ctx, rec)
		}
		return results
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, rec domain.FeedbackRecord) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = r.Reconcile(ctx, rec)
		}(i, rec)
	}
	wg.Wait()
	return results
}
