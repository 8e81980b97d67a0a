package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"github.com/FlipSniper/ebay-review-whisperer/internal/feedback"
	"github.com/xuri/excelize/v2"
)

const (
	sheetOverview  = "Overview"
	sheetSummary   = "Issue summary"
	sheetNegatives = "Negative reviews"
)

func WorkbookFileName(reportDate time.Time) string {
	return fmt.Sprintf("feedback_report_%s.xlsx", reportDate.Format("20060102"))
}

// WriteWorkbook saves the overview, the issue summary and the negative reviews
// as three sheets of one workbook.
func WriteWorkbook(outputDir string, reportDate time.Time, ov Overview, summary []feedback.SummaryRow, headers []string, results []domain.ClassificationResult) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetOverview); err != nil {
		return "", err
	}
	overviewRows := [][]any{
		{"Seller", ov.SellerName},
		{"Report date", reportDate.Format("2006-01-02")},
		{"Reviews analysed", ov.Reviews},
		{"Skipped acknowledgements", ov.Dropped},
		{"Trust score", ov.TrustScore},
		{"Trust level", string(ov.TrustLevel)},
		{"Trend", string(ov.Trend)},
		{"Positive %", ov.PositivePct},
		{"Neutral %", ov.NeutralPct},
		{"Negative %", ov.NegativePct},
		{"Platform positive %", ov.PlatformPositivePct},
		{"Issues per review", ov.AvgIssuesPerReview},
	}
	if err := writeRows(f, sheetOverview, overviewRows); err != nil {
		return "", err
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return "", err
	}
	summaryRows := [][]any{{"issue", "final_sentiment", "count"}}
	for _, r := range summary {
		summaryRows = append(summaryRows, []any{string(r.Issue), string(r.Sentiment), r.Count})
	}
	if err := writeRows(f, sheetSummary, summaryRows); err != nil {
		return "", err
	}

	if _, err := f.NewSheet(sheetNegatives); err != nil {
		return "", err
	}
	var extra []string
	for _, h := range headers {
		switch h {
		case feedback.ColumnComment, feedback.ColumnRatingType, feedback.ColumnIssues, feedback.ColumnFinalSentiment:
		default:
			extra = append(extra, h)
		}
	}
	header := []any{"comment", "rating_type", "issues"}
	for _, h := range extra {
		header = append(header, h)
	}
	negRows := [][]any{header}
	for _, n := range NegativeRows(results) {
		row := []any{n.Comment, n.Record.RatingType, n.Issues}
		for _, h := range extra {
			row = append(row, n.Record.Extra[h])
		}
		negRows = append(negRows, row)
	}
	if err := writeRows(f, sheetNegatives, negRows); err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, WorkbookFileName(reportDate))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
