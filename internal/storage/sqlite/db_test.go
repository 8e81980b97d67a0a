package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitDBIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 2; i++ {
		db, err := InitDB(path)
		if err != nil {
			t.Fatalf("InitDB #%d: %v", i, err)
		}
		db.Close()
	}
}

func TestFallbackLabelCache(t *testing.T) {
	s := NewStore(testDB(t))
	ctx := context.Background()

	if _, ok, err := s.GetFallbackLabels(ctx, "zeroshot:", "fast shipping"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := s.PutFallbackLabels(ctx, "zeroshot:", "fast shipping", `[{"label":"Fast delivery","confidence":0.9}]`); err != nil {
		t.Fatalf("PutFallbackLabels: %v", err)
	}
	if err := s.PutFallbackLabels(ctx, "zeroshot:", "fast shipping", `[]`); err != nil {
		t.Fatalf("PutFallbackLabels overwrite: %v", err)
	}
	got, ok, err := s.GetFallbackLabels(ctx, "zeroshot:", "fast shipping")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got != `[]` {
		t.Fatalf("expected overwritten value, got %q", got)
	}
	if _, ok, _ := s.GetFallbackLabels(ctx, "openai:gpt-4o-mini", "fast shipping"); ok {
		t.Fatal("cache entries must be scoped by provider")
	}
}

func TestTranslationCache(t *testing.T) {
	s := NewStore(testDB(t))
	ctx := context.Background()

	if err := s.PutTranslation(ctx, "muy bien", "very good"); err != nil {
		t.Fatalf("PutTranslation: %v", err)
	}
	got, ok, err := s.GetTranslation(ctx, "muy bien")
	if err != nil || !ok || got != "very good" {
		t.Fatalf("GetTranslation = %q, %v, %v", got, ok, err)
	}
	if _, ok, _ := s.GetTranslation(ctx, "Muy bien"); ok {
		t.Fatal("lookups are keyed by exact text")
	}
}

func TestRunHistory(t *testing.T) {
	db := testDB(t)

	stats, err := GetRunStats(db)
	if err != nil {
		t.Fatalf("GetRunStats empty: %v", err)
	}
	if stats.TotalRuns != 0 || !stats.LastRunAt.IsZero() {
		t.Fatalf("unexpected empty stats: %+v", stats)
	}
	if _, ok, err := PreviousTrustScore(db); err != nil || ok {
		t.Fatalf("expected no previous trust score, got ok=%v err=%v", ok, err)
	}

	base := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	runs := []domain.RunRecord{
		{ID: "a", InputPath: "one.csv", Records: 10, Negatives: 2, TrustScore: 71, StartedAt: base, FinishedAt: base.Add(time.Minute)},
		{ID: "b", InputPath: "two.csv", Records: 5, Dropped: 1, Negatives: 1, Translated: 3, TrustScore: 64, StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour + time.Minute)},
	}
	for _, r := range runs {
		if err := InsertRun(db, r); err != nil {
			t.Fatalf("InsertRun %s: %v", r.ID, err)
		}
	}

	stats, err = GetRunStats(db)
	if err != nil {
		t.Fatalf("GetRunStats: %v", err)
	}
	if stats.TotalRuns != 2 || stats.TotalRecords != 15 || stats.TotalNegatives != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !stats.LastRunAt.Equal(base.Add(time.Hour + time.Minute)) {
		t.Fatalf("unexpected last run time: %s", stats.LastRunAt)
	}

	listed, err := ListRuns(db, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != "b" || listed[0].Translated != 3 || listed[0].TrustScore != 64 {
		t.Fatalf("unexpected runs: %+v", listed)
	}

	if err := InsertRun(db, domain.RunRecord{ID: "c", InputPath: "empty.csv", StartedAt: base.Add(2 * time.Hour), FinishedAt: base.Add(2 * time.Hour)}); err != nil {
		t.Fatalf("InsertRun c: %v", err)
	}
	score, ok, err := PreviousTrustScore(db)
	if err != nil || !ok || score != 64 {
		t.Fatalf("PreviousTrustScore = %d, %v, %v; empty runs should be skipped", score, ok, err)
	}
}
