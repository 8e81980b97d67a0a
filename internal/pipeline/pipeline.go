// Package pipeline runs one batch: read, translate, normalize, classify, export.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/FlipSniper/ebay-review-whisperer/internal/classify"
	"github.com/FlipSniper/ebay-review-whisperer/internal/config"
	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/feedback"
	"github.com/FlipSniper/ebay-review-whisperer/internal/httpx"
	"github.com/FlipSniper/ebay-review-whisperer/internal/integrations/llm"
	slackbot "github.com/FlipSniper/ebay-review-whisperer/internal/integrations/slack"
	"github.com/FlipSniper/ebay-review-whisperer/internal/matcher"
	"github.com/FlipSniper/ebay-review-whisperer/internal/reconcile"
	"github.com/FlipSniper/ebay-review-whisperer/internal/report"
	"github.com/FlipSniper/ebay-review-whisperer/internal/storage/sqlite"
	"github.com/FlipSniper/ebay-review-whisperer/internal/textnorm"
	"github.com/FlipSniper/ebay-review-whisperer/internal/translate"
	"github.com/FlipSniper/ebay-review-whisperer/internal/vocab"
	"github.com/google/uuid"
)

const (
	SummaryFileName   = "issue_summary.csv"
	NegativesFileName = "negative_reviews.csv"
)

// Notifier delivers a finished run.
type Notifier interface {
	Deliver(d slackbot.Delivery) error
}

// Deps are the collaborators a pipeline needs beyond its configuration.
type Deps struct {
	Vocabulary *vocab.Vocabulary
	Fallback   llm.FallbackClassifier
	Translator llm.Translator
	Notifier   Notifier
	Now        func() time.Time
}

type Pipeline struct {
	cfg        config.Config
	db         *sql.DB
	vocab      *vocab.Vocabulary
	classifier *classify.Classifier
	reconciler *reconcile.Reconciler
	normalizer *textnorm.Normalizer
	translator *translate.Stage
	notifier   Notifier
	now        func() time.Time
}

// Result describes what a run read and wrote.
type Result struct {
	RunID      string
	InputPath  string
	Records    int
	Dropped    int
	Collapsed  int
	Translated int
	Negatives  int
	Overview   report.Overview

	SummaryPath   string
	NegativesPath string
	ReportPath    string
	WorkbookPath  string
	Notified      bool
}

func New(cfg config.Config, db *sql.DB, deps Deps) *Pipeline {
	v := deps.Vocabulary
	if v == nil {
		v = vocab.Default()
	}
	m := matcher.New(v, cfg.NegationWindow, cfg.FuzzyThreshold)
	rules := classify.New(v, m)
	p := &Pipeline{
		cfg:        cfg,
		db:         db,
		vocab:      v,
		classifier: rules,
		reconciler: reconcile.New(v, rules, deps.Fallback, reconcile.Options{
			MinConfidence: cfg.LLMConfidence,
			MaxLabels:     cfg.LLMMaxLabels,
			Timeout:       cfg.FallbackTimeout(),
		}),
		normalizer: textnorm.New(v),
		notifier:   deps.Notifier,
		now:        deps.Now,
	}
	if deps.Translator != nil {
		var cache translate.Cache
		if db != nil {
			cache = sqlite.NewStore(db)
		}
		p.translator = translate.New(deps.Translator, cache)
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// NewFromConfig wires the production collaborators: vocabulary file, model
// fallback with the sqlite memo cache, translator and Slack delivery.
func NewFromConfig(cfg config.Config, db *sql.DB) (*Pipeline, error) {
	v, err := vocab.Load(cfg.VocabularyPath)
	if err != nil {
		return nil, err
	}
	timeout := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	log.Printf("pipeline external http timeout=%s provider=%s", timeout, cfg.LLMProvider)

	deps := Deps{
		Vocabulary: v,
		Fallback:   llm.NewFallback(cfg, sqlite.NewStore(db)),
	}
	if cfg.TranslateEnabled {
		deps.Translator = llm.NewTranslator(cfg)
	}
	if cfg.SlackConfigured() {
		deps.Notifier = slackbot.New(cfg.SlackBotToken, cfg.ReportChannelID)
	}
	return New(cfg, db, deps), nil
}

func (p *Pipeline) Reconciler() *reconcile.Reconciler { return p.reconciler }

func (p *Pipeline) Classifier() *classify.Classifier { return p.classifier }

// Run processes inputPath (cfg.InputPath when empty) and writes every output file.
// A missing required column aborts the run before anything is classified.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (Result, error) {
	if strings.TrimSpace(inputPath) == "" {
		inputPath = p.cfg.InputPath
	}
	started := p.now()
	res := Result{RunID: uuid.NewString(), InputPath: inputPath}
	log.Printf("pipeline run started id=%s input=%s", res.RunID, inputPath)

	table, err := feedback.ReadFile(inputPath)
	if err != nil {
		return res, err
	}
	res.Collapsed = table.Collapsed

	records := table.Records
	if p.translator != nil {
		res.Translated = p.translator.Apply(ctx, records)
	}
	records, res.Dropped = p.normalizer.Filter(records)
	res.Records = len(records)
	log.Printf("pipeline ingested id=%s records=%d dropped=%d collapsed=%d translated=%d",
		res.RunID, res.Records, res.Dropped, res.Collapsed, res.Translated)

	results := p.reconciler.ReconcileAll(ctx, records, p.cfg.Workers)
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("run cancelled: %w", err)
	}
	for _, r := range results {
		if r.Sentiment == domain.SentimentNegative {
			res.Negatives++
		}
	}

	summary := report.Summarize(results)
	res.SummaryPath = filepath.Join(p.cfg.OutputDir, SummaryFileName)
	if err := feedback.WriteFile(res.SummaryPath, func(w io.Writer) error {
		return feedback.WriteSummary(w, summary)
	}); err != nil {
		return res, err
	}
	res.NegativesPath = filepath.Join(p.cfg.OutputDir, NegativesFileName)
	if err := feedback.WriteFile(res.NegativesPath, func(w io.Writer) error {
		return feedback.WriteNegatives(w, table.Headers, results)
	}); err != nil {
		return res, err
	}

	var previous *int
	var stats domain.RunStats
	if p.db != nil {
		if score, ok, err := sqlite.PreviousTrustScore(p.db); err != nil {
			log.Printf("pipeline previous trust score unavailable err=%v", err)
		} else if ok {
			previous = &score
		}
		if stats, err = sqlite.GetRunStats(p.db); err != nil {
			log.Printf("pipeline run stats unavailable err=%v", err)
		}
	}
	res.Overview = report.BuildOverview(p.cfg.SellerName, results, res.Dropped, previous)

	reportDate := started.In(p.location())
	md := report.RenderMarkdown(res.Overview, summary, stats, reportDate)
	if res.ReportPath, err = report.WriteReportFile(md, p.cfg.OutputDir, reportDate); err != nil {
		return res, fmt.Errorf("write report: %w", err)
	}
	if res.WorkbookPath, err = report.WriteWorkbook(p.cfg.OutputDir, reportDate, res.Overview, summary, table.Headers, results); err != nil {
		return res, err
	}

	if p.db != nil {
		run := domain.RunRecord{
			ID:         res.RunID,
			InputPath:  inputPath,
			Records:    res.Records,
			Dropped:    res.Dropped,
			Negatives:  res.Negatives,
			Translated: res.Translated,
			TrustScore: res.Overview.TrustScore,
			StartedAt:  started,
			FinishedAt: p.now(),
		}
		if err := sqlite.InsertRun(p.db, run); err != nil {
			log.Printf("pipeline run history not saved id=%s err=%v", res.RunID, err)
		}
	}

	if p.notifier != nil {
		err := p.notifier.Deliver(slackbot.Delivery{
			Overview:      res.Overview,
			ReportPath:    res.ReportPath,
			NegativesPath: res.NegativesPath,
			WorkbookPath:  res.WorkbookPath,
		})
		if err != nil {
			log.Printf("pipeline slack delivery failed id=%s err=%v", res.RunID, err)
		} else {
			res.Notified = true
		}
	}

	log.Printf("pipeline run finished id=%s negatives=%d trust=%d", res.RunID, res.Negatives, res.Overview.TrustScore)
	return res, nil
}

func (p *Pipeline) location() *time.Location {
	if p.cfg.Location != nil {
		return p.cfg.Location
	}
	return time.Local
}

// FormatRunSummary returns a one-paragraph, human-readable account of a run.
func FormatRunSummary(res Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Classified %d reviews", res.Records)
	var notes []string
	if res.Dropped > 0 {
		notes = append(notes, fmt.Sprintf("%d skipped", res.Dropped))
	}
	if res.Collapsed > 0 {
		notes = append(notes, fmt.Sprintf("%d duplicates", res.Collapsed))
	}
	if res.Translated > 0 {
		notes = append(notes, fmt.Sprintf("%d translated", res.Translated))
	}
	if len(notes) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(notes, ", "))
	}
	fmt.Fprintf(&b, ": %d negative, trust score %d (%s).", res.Negatives, res.Overview.TrustScore, res.Overview.TrustLevel)
	for _, path := range []string{res.SummaryPath, res.NegativesPath, res.ReportPath, res.WorkbookPath} {
		if path != "" {
			fmt.Fprintf(&b, "\nWrote %s", path)
		}
	}
	return b.String()
}
