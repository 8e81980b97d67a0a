// Package feedback reads and writes the flat feedback tables.
package feedback

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
)

const (
	ColumnComment    = "comment"
	ColumnRatingType = "rating_type"
)

// ErrMissingColumns is returned before any row is read when a required header is absent.
var ErrMissingColumns = errors.New("missing required columns")

// Table is a parsed feedback file. Headers keep the input order so passthrough
// columns can be written back unchanged.
type Table struct {
	Headers []string
	Records []domain.FeedbackRecord
	// Collapsed counts consecutive duplicate rows that were folded into one.
	Collapsed int
}

func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feedback file: %w", err)
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses a CSV feedback table. Rows may be shorter than the header; missing
// cells read as empty. A row identical to the one before it is dropped.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s, %s (empty file)", ErrMissingColumns, ColumnComment, ColumnRatingType)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	var missing []string
	for _, req := range []string{ColumnComment, ColumnRatingType} {
		if !slices.Contains(header, req) {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	t := &Table{Headers: header}
	var last []string
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if last != nil && slices.Equal(row, last) {
			t.Collapsed++
			continue
		}
		last = row
		t.Records = append(t.Records, toRecord(header, row, len(t.Records)+1))
	}
	return t, nil
}

func toRecord(header, row []string, n int) domain.FeedbackRecord {
	rec := domain.FeedbackRecord{Row: n, Extra: make(map[string]string)}
	for i, h := range header {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		switch h {
		case ColumnComment:
			rec.Comment = cell
		case ColumnRatingType:
			rec.RatingType = strings.TrimSpace(cell)
		default:
			rec.Extra[h] = cell
		}
	}
	return rec
}
