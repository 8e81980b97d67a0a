package domain

import "time"

// ClassificationResult is produced once per record and not modified afterwards.
type ClassificationResult struct {
	Record    FeedbackRecord
	Issues    IssueSet
	Sentiment Sentiment
	// FallbackLabels records what the fallback classifier contributed, for logs and history.
	FallbackLabels []IssueCategory
}

// RunRecord is one row of batch run history.
type RunRecord struct {
	ID         string
	InputPath  string
	Records    int
	Dropped    int
	Negatives  int
	Translated int
	TrustScore int
	StartedAt  time.Time
	FinishedAt time.Time
}

// RunStats summarizes the stored history, used for the report footer.
type RunStats struct {
	TotalRuns      int
	TotalRecords   int
	TotalNegatives int
	LastRunAt      time.Time
}
