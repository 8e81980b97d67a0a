// Package report aggregates classification results into tables, a seller
// overview and the files delivered after every run.
package report

import (
	"sort"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/feedback"
)

// Summarize counts results per (issue, sentiment), largest groups first. Ties are
// ordered by issue then sentiment. Records without issues contribute nothing.
func Summarize(results []domain.ClassificationResult) []feedback.SummaryRow {
	type key struct {
		issue     domain.IssueCategory
		sentiment domain.Sentiment
	}
	counts := make(map[key]int)
	for _, r := range results {
		for c := range r.Issues {
			counts[key{c, r.Sentiment}]++
		}
	}
	rows := make([]feedback.SummaryRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, feedback.SummaryRow{Issue: k.issue, Sentiment: k.sentiment, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		if rows[i].Issue != rows[j].Issue {
			return rows[i].Issue < rows[j].Issue
		}
		return rows[i].Sentiment < rows[j].Sentiment
	})
	return rows
}

// NegativeRow is one NEGATIVE result rendered for export.
type NegativeRow struct {
	Comment string
	Issues  string
	Record  domain.FeedbackRecord
}

func NegativeRows(results []domain.ClassificationResult) []NegativeRow {
	var out []NegativeRow
	for _, r := range results {
		if r.Sentiment != domain.SentimentNegative {
			continue
		}
		out = append(out, NegativeRow{Comment: r.Record.Comment, Issues: r.Issues.Join(), Record: r.Record})
	}
	return out
}
