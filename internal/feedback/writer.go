package feedback

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
)

const (
	ColumnIssues         = "issues"
	ColumnFinalSentiment = "final_sentiment"
)

// SummaryRow is one (issue, sentiment) group.
type SummaryRow struct {
	Issue     domain.IssueCategory
	Sentiment domain.Sentiment
	Count     int
}

// WriteSummary writes the issue,final_sentiment,count table.
func WriteSummary(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"issue", ColumnFinalSentiment, "count"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{string(r.Issue), string(r.Sentiment), strconv.Itoa(r.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResults writes every input column in input order followed by issues and
// final_sentiment. Input columns named issues or final_sentiment are replaced.
func WriteResults(w io.Writer, headers []string, results []domain.ClassificationResult) error {
	var cols []string
	for _, h := range headers {
		if h != ColumnIssues && h != ColumnFinalSentiment {
			cols = append(cols, h)
		}
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, cols...), ColumnIssues, ColumnFinalSentiment)); err != nil {
		return err
	}
	for _, res := range results {
		row := make([]string, 0, len(cols)+2)
		for _, h := range cols {
			switch h {
			case ColumnComment:
				row = append(row, res.Record.Comment)
			case ColumnRatingType:
				row = append(row, res.Record.RatingType)
			default:
				row = append(row, res.Record.Extra[h])
			}
		}
		row = append(row, res.Issues.Join(), string(res.Sentiment))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNegatives writes only the NEGATIVE results, in the WriteResults layout.
func WriteNegatives(w io.Writer, headers []string, results []domain.ClassificationResult) error {
	var neg []domain.ClassificationResult
	for _, r := range results {
		if r.Sentiment == domain.SentimentNegative {
			neg = append(neg, r)
		}
	}
	return WriteResults(w, headers, neg)
}

// WriteFile creates path (and its directory) and hands the file to write.
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
