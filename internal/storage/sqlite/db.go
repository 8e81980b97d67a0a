// Package sqlite holds the memo caches and batch run history.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// Workers share one connection; sqlite serializes writers anyway.
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS fallback_labels (
		provider    TEXT NOT NULL,
		text        TEXT NOT NULL,
		labels_json TEXT NOT NULL,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (provider, text)
	);

	CREATE TABLE IF NOT EXISTS translations (
		text       TEXT PRIMARY KEY,
		translated TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		input_path  TEXT NOT NULL,
		records     INTEGER NOT NULL DEFAULT 0,
		dropped     INTEGER NOT NULL DEFAULT 0,
		negatives   INTEGER NOT NULL DEFAULT 0,
		translated  INTEGER NOT NULL DEFAULT 0,
		trust_score INTEGER NOT NULL DEFAULT 0,
		started_at  DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs(finished_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Store adapts the database to the cache interfaces the pipeline consumes.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetFallbackLabels(ctx context.Context, provider, text string) (string, bool, error) {
	var labels string
	err := s.db.QueryRowContext(ctx,
		`SELECT labels_json FROM fallback_labels WHERE provider = ? AND text = ?`, provider, text,
	).Scan(&labels)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return labels, true, nil
}

func (s *Store) PutFallbackLabels(ctx context.Context, provider, text, labelsJSON string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fallback_labels (provider, text, labels_json) VALUES (?, ?, ?)
		 ON CONFLICT(provider, text) DO UPDATE SET labels_json = excluded.labels_json, created_at = CURRENT_TIMESTAMP`,
		provider, text, labelsJSON,
	)
	return err
}

func (s *Store) GetTranslation(ctx context.Context, text string) (string, bool, error) {
	var translated string
	err := s.db.QueryRowContext(ctx, `SELECT translated FROM translations WHERE text = ?`, text).Scan(&translated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return translated, true, nil
}

func (s *Store) PutTranslation(ctx context.Context, text, translated string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translations (text, translated) VALUES (?, ?)
		 ON CONFLICT(text) DO UPDATE SET translated = excluded.translated, created_at = CURRENT_TIMESTAMP`,
		text, translated,
	)
	return err
}

func InsertRun(db *sql.DB, run domain.RunRecord) error {
	_, err := db.Exec(
		`INSERT INTO runs (id, input_path, records, dropped, negatives, translated, trust_score, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.InputPath, run.Records, run.Dropped, run.Negatives, run.Translated, run.TrustScore,
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	return err
}

// ListRuns returns the most recent runs first.
func ListRuns(db *sql.DB, limit int) ([]domain.RunRecord, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := db.Query(
		`SELECT id, input_path, records, dropped, negatives, translated, trust_score, started_at, finished_at
		 FROM runs ORDER BY finished_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.RunRecord
	for rows.Next() {
		var r domain.RunRecord
		if err := rows.Scan(&r.ID, &r.InputPath, &r.Records, &r.Dropped, &r.Negatives, &r.Translated, &r.TrustScore, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func GetRunStats(db *sql.DB) (domain.RunStats, error) {
	var stats domain.RunStats
	err := db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(records), 0), COALESCE(SUM(negatives), 0) FROM runs`,
	).Scan(&stats.TotalRuns, &stats.TotalRecords, &stats.TotalNegatives)
	if err != nil {
		return stats, err
	}
	if stats.TotalRuns == 0 {
		return stats, nil
	}
	var last time.Time
	if err := db.QueryRow(`SELECT finished_at FROM runs ORDER BY finished_at DESC LIMIT 1`).Scan(&last); err != nil {
		return stats, err
	}
	stats.LastRunAt = last
	return stats, nil
}

// PreviousTrustScore returns the trust score of the most recent run, if any run
// with reviews has been recorded.
func PreviousTrustScore(db *sql.DB) (int, bool, error) {
	var score int
	err := db.QueryRow(`SELECT trust_score FROM runs WHERE records > 0 ORDER BY finished_at DESC LIMIT 1`).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}
