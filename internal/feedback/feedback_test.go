package feedback

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
)

func TestReadKeepsPassthroughColumnsAndCollapsesDuplicates(t *testing.T) {
	in := "\ufeffdate,comment,rating_type\n" +
		"2026-01-02,\"Great, fast\",Positive\n" +
		"2026-01-02,\"Great, fast\",Positive\n" +
		"2026-01-03,broken,negative\n" +
		"2026-01-02,\"Great, fast\",Positive\n" +
		"2026-01-04\n"
	tbl, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if strings.Join(tbl.Headers, "|") != "date|comment|rating_type" {
		t.Fatalf("unexpected headers: %v", tbl.Headers)
	}
	if len(tbl.Records) != 4 || tbl.Collapsed != 1 {
		t.Fatalf("expected 4 records and 1 collapsed, got %d and %d", len(tbl.Records), tbl.Collapsed)
	}
	first := tbl.Records[0]
	if first.Comment != "Great, fast" || first.Rating() != domain.RatingPositive || first.Extra["date"] != "2026-01-02" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if tbl.Records[1].Rating() != domain.RatingNegative || tbl.Records[1].Row != 2 {
		t.Fatalf("unexpected second record: %+v", tbl.Records[1])
	}
	short := tbl.Records[3]
	if short.Comment != "" || short.RatingType != "" || short.Extra["date"] != "2026-01-04" {
		t.Fatalf("short row should read missing cells as empty: %+v", short)
	}
}

func TestReadMissingColumns(t *testing.T) {
	_, err := Read(strings.NewReader("comment,stars\nhello,5\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if !strings.Contains(err.Error(), "rating_type") {
		t.Fatalf("error should name the missing column: %v", err)
	}
	if _, err := Read(strings.NewReader("")); !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("empty input should report missing columns, got %v", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func sampleResults() []domain.ClassificationResult {
	return []domain.ClassificationResult{
		{
			Record:    domain.FeedbackRecord{Comment: "fake, and \"broken\"", RatingType: "Positive", Extra: map[string]string{"date": "d1"}},
			Issues:    domain.NewIssueSet(domain.FakeOrCounterfeit, domain.DamagedProduct),
			Sentiment: domain.SentimentNegative,
		},
		{
			Record:    domain.FeedbackRecord{Comment: "great", RatingType: "Positive", Extra: map[string]string{"date": "d2"}},
			Issues:    domain.NewIssueSet(domain.GoodProduct),
			Sentiment: domain.SentimentPositive,
		},
	}
}

func TestWriteNegatives(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNegatives(&buf, []string{"comment", "rating_type", "date"}, sampleResults()); err != nil {
		t.Fatalf("WriteNegatives: %v", err)
	}
	want := "comment,rating_type,date,issues,final_sentiment\n" +
		"\"fake, and \"\"broken\"\"\",Positive,d1,\"Damaged product, Fake or counterfeit\",NEGATIVE\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteResultsReplacesExistingOutputColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, []string{"comment", "issues", "rating_type"}, sampleResults()[1:]); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	want := "comment,rating_type,issues,final_sentiment\ngreat,Positive,Good product,POSITIVE\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestWriteSummaryToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "issue_summary.csv")
	rows := []SummaryRow{{Issue: domain.LateDelivery, Sentiment: domain.SentimentNeutral, Count: 3}}
	err := WriteFile(path, func(w io.Writer) error { return WriteSummary(w, rows) })
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "issue,final_sentiment,count\nLate delivery,NEUTRAL,3\n" {
		t.Fatalf("unexpected summary file: %q", data)
	}
}
