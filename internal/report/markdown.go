package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/feedback"
)

const maxSummaryRowsInReport = 15

// RenderMarkdown renders the overview and the top of the issue summary.
func RenderMarkdown(ov Overview, summary []feedback.SummaryRow, stats domain.RunStats, reportDate time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Seller feedback report: %s (%s)\n\n", ov.SellerName, reportDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Trust score:** %d (%s, trend %s)\n\n", ov.TrustScore, ov.TrustLevel, ov.Trend)
	fmt.Fprintf(&b, "- Reviews analysed: %d", ov.Reviews)
	if ov.Dropped > 0 {
		fmt.Fprintf(&b, " (%d one-word acknowledgements skipped)", ov.Dropped)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Platform positive ratings: %.1f%%\n", ov.PlatformPositivePct)
	fmt.Fprintf(&b, "- Issues per review: %.1f\n\n", ov.AvgIssuesPerReview)

	b.WriteString("## Sentiment\n\n")
	b.WriteString("| Sentiment | Share |\n|---|---|\n")
	fmt.Fprintf(&b, "| Positive | %.1f%% |\n", ov.PositivePct)
	fmt.Fprintf(&b, "| Neutral | %.1f%% |\n", ov.NeutralPct)
	fmt.Fprintf(&b, "| Negative | %.1f%% |\n\n", ov.NegativePct)

	b.WriteString("## Common issues\n\n")
	if len(ov.CommonIssues) == 0 {
		b.WriteString("_None_\n")
	}
	for _, ic := range ov.CommonIssues {
		fmt.Fprintf(&b, "- %s (%d)\n", ic.Issue, ic.Count)
	}
	b.WriteString("\n")

	if len(summary) > 0 {
		b.WriteString("## Issue summary\n\n")
		b.WriteString("| Issue | Sentiment | Count |\n|---|---|---|\n")
		for i, row := range summary {
			if i == maxSummaryRowsInReport {
				fmt.Fprintf(&b, "\n_%d more rows in issue_summary.csv_\n", len(summary)-maxSummaryRowsInReport)
				break
			}
			fmt.Fprintf(&b, "| %s | %s | %d |\n", row.Issue, row.Sentiment, row.Count)
		}
		b.WriteString("\n")
	}

	writeHighlights(&b, "Recent positive reviews", ov.PositiveHighlights)
	writeHighlights(&b, "Recent negative reviews", ov.NegativeHighlights)

	if stats.TotalRuns > 0 {
		fmt.Fprintf(&b, "_Run history: %d runs, %d reviews, %d negative._\n", stats.TotalRuns, stats.TotalRecords, stats.TotalNegatives)
	}
	return b.String()
}

func writeHighlights(b *strings.Builder, title string, quotes []string) {
	if len(quotes) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, q := range quotes {
		fmt.Fprintf(b, "> %s\n\n", strings.ReplaceAll(q, "\n", " "))
	}
}

func ReportFileName(reportDate time.Time) string {
	return fmt.Sprintf("seller_report_%s.md", reportDate.Format("20060102"))
}

func WriteReportFile(content, outputDir string, reportDate time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, ReportFileName(reportDate))
	return path, os.WriteFile(path, []byte(content), 0644)
}
