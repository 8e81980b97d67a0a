package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/FlipSniper/ebay-review-whisperer/internal/config"
	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/pipeline"
	"github.com/FlipSniper/ebay-review-whisperer/internal/schedule"
	"github.com/FlipSniper/ebay-review-whisperer/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

func Main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "whisperer",
		Short:         "Classify marketplace seller feedback into issues and sentiment",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (default CONFIG_PATH or config.yaml)")

	root.AddCommand(
		newRunCommand(opts),
		newScheduleCommand(opts),
		newExplainCommand(opts),
		newHistoryCommand(opts),
	)
	return root
}

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run [input.csv]",
		Short: "Classify one feedback file and write the reports",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return withPipeline(opts, func(cfg config.Config, db *sql.DB, p *pipeline.Pipeline) error {
				res, err := p.Run(cmd.Context(), input)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), pipeline.FormatRunSummary(res))
				return nil
			})
		},
	}
}

func newScheduleCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Rerun the batch on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(opts, func(cfg config.Config, db *sql.DB, p *pipeline.Pipeline) error {
				if strings.TrimSpace(cfg.Schedule) == "" {
					return fmt.Errorf("schedule is not set; add schedule to the config or SCHEDULE")
				}
				loop, err := schedule.New(cfg.Schedule, cfg.Location, func(ctx context.Context) error {
					res, err := p.Run(ctx, "")
					if err != nil {
						return err
					}
					log.Printf("scheduled run complete: %s", pipeline.FormatRunSummary(res))
					return nil
				})
				if err != nil {
					return err
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return loop.Run(ctx)
			})
		},
	}
}

func newExplainCommand(opts *options) *cobra.Command {
	var rating string
	cmd := &cobra.Command{
		Use:   "explain <comment>",
		Short: "Show which rules fire for a single comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(opts, func(cfg config.Config, db *sql.DB, p *pipeline.Pipeline) error {
				rec := domain.FeedbackRecord{Row: 1, Comment: args[0], RatingType: rating}
				writeExplanation(cmd.Context(), cmd.OutOrStdout(), p, rec)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&rating, "rating", "r", string(domain.RatingNeutral), "platform rating (Positive, Negative, Neutral)")
	return cmd
}

func newHistoryCommand(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent batch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(opts.configPath)
			db, err := sqlite.InitDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("init database: %w", err)
			}
			defer db.Close()

			runs, err := sqlite.ListRuns(db, limit)
			if err != nil {
				return err
			}
			writeHistory(cmd.OutOrStdout(), runs, cfg)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")
	return cmd
}

func withPipeline(opts *options, fn func(config.Config, *sql.DB, *pipeline.Pipeline) error) error {
	cfg := config.LoadConfig(opts.configPath)
	log.Printf("Config loaded. Provider=%s Seller=%s Workers=%d Timezone=%s", cfg.LLMProvider, cfg.SellerName, cfg.Workers, cfg.Timezone)

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()
	log.Printf("Database initialized at %s", cfg.DBPath)

	p, err := pipeline.NewFromConfig(cfg, db)
	if err != nil {
		return err
	}
	return fn(cfg, db, p)
}

func writeExplanation(ctx context.Context, w io.Writer, p *pipeline.Pipeline, rec domain.FeedbackRecord) {
	ex := p.Classifier().Explain(rec.Comment, rec.Rating())
	fmt.Fprintf(w, "Comment: %s\nRating:  %s\n\n", rec.Comment, rec.RatingType)

	fmt.Fprintln(w, "Keyword hits:")
	if len(ex.Hits) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, h := range ex.Hits {
		fmt.Fprintf(w, "  %-24s %q\n", h.Category, h.Keyword)
	}
	if ex.Damage.Category != "" {
		fmt.Fprintf(w, "Damage:  %s (cue %q)\n", ex.Damage.Category, ex.Damage.Keyword)
	}
	if len(ex.PositivePhrases) > 0 {
		fmt.Fprintf(w, "Positive phrases: %s\n", strings.Join(ex.PositivePhrases, ", "))
	}
	if ex.ConflictDropped != "" {
		fmt.Fprintf(w, "Dropped by description conflict: %s\n", ex.ConflictDropped)
	}

	res := p.Reconciler().Reconcile(ctx, rec)
	if len(res.FallbackLabels) > 0 {
		labels := make([]string, len(res.FallbackLabels))
		for i, l := range res.FallbackLabels {
			labels[i] = string(l)
		}
		fmt.Fprintf(w, "Fallback labels: %s\n", strings.Join(labels, ", "))
	}
	fmt.Fprintf(w, "\nIssues:    %s\nSentiment: %s\n", res.Issues.Join(), res.Sentiment)
}

func writeHistory(w io.Writer, runs []domain.RunRecord, cfg config.Config) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FINISHED\tRECORDS\tNEGATIVE\tTRUST\tINPUT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n",
			r.FinishedAt.In(cfg.Location).Format("2006-01-02 15:04"), r.Records, r.Negatives, r.TrustScore, r.InputPath)
	}
	tw.Flush()
}
