package report

import (
	"math"
	"sort"
	"strings"

	"github.com/FlipSniper/ebay-review-whisperer/internal/domain"
	"gonum.org/v1/gonum/stat"
)

const (
	maxHighlights   = 3
	maxCommonIssues = 3
	trendDeadband   = 2
)

type TrustLevel string

const (
	TrustExcellent TrustLevel = "excellent"
	TrustGood      TrustLevel = "good"
	TrustFair      TrustLevel = "fair"
	TrustPoor      TrustLevel = "poor"
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type IssueCount struct {
	Issue domain.IssueCategory
	Count int
}

// Overview is the seller-level digest of one run.
type Overview struct {
	SellerName string
	Reviews    int
	Dropped    int

	// Shares are percentages (0-100) of Reviews.
	PositivePct         float64
	NeutralPct          float64
	NegativePct         float64
	PlatformPositivePct float64
	AvgIssuesPerReview  float64

	TrustScore int
	TrustLevel TrustLevel
	Trend      Trend

	CommonIssues       []IssueCount
	PositiveHighlights []string
	NegativeHighlights []string
}

// BuildOverview digests results. previousScore is the last run's trust score, if any.
func BuildOverview(sellerName string, results []domain.ClassificationResult, dropped int, previousScore *int) Overview {
	ov := Overview{SellerName: sellerName, Reviews: len(results), Dropped: dropped}
	if len(results) > 0 {
		pos := make([]float64, len(results))
		neu := make([]float64, len(results))
		neg := make([]float64, len(results))
		platform := make([]float64, len(results))
		issues := make([]float64, len(results))
		for i, r := range results {
			switch r.Sentiment {
			case domain.SentimentPositive:
				pos[i] = 1
			case domain.SentimentNegative:
				neg[i] = 1
			default:
				neu[i] = 1
			}
			if r.Record.Rating().Is(domain.RatingPositive) {
				platform[i] = 1
			}
			issues[i] = float64(r.Issues.Len())
		}
		ov.PositivePct = round1(100 * stat.Mean(pos, nil))
		ov.NeutralPct = round1(100 * stat.Mean(neu, nil))
		ov.NegativePct = round1(100 * stat.Mean(neg, nil))
		ov.PlatformPositivePct = round1(100 * stat.Mean(platform, nil))
		ov.AvgIssuesPerReview = round1(stat.Mean(issues, nil))
	}

	ov.TrustScore = TrustScore(ov.PositivePct, ov.NeutralPct)
	ov.TrustLevel = LevelFor(ov.TrustScore)
	ov.Trend = TrendStable
	if previousScore != nil {
		switch diff := ov.TrustScore - *previousScore; {
		case diff > trendDeadband:
			ov.Trend = TrendUp
		case diff < -trendDeadband:
			ov.Trend = TrendDown
		}
	}

	ov.CommonIssues = commonIssues(results)
	for _, r := range results {
		comment := strings.TrimSpace(r.Record.Comment)
		if comment == "" {
			continue
		}
		switch {
		case r.Sentiment == domain.SentimentPositive && len(ov.PositiveHighlights) < maxHighlights:
			ov.PositiveHighlights = append(ov.PositiveHighlights, comment)
		case r.Sentiment == domain.SentimentNegative && len(ov.NegativeHighlights) < maxHighlights:
			ov.NegativeHighlights = append(ov.NegativeHighlights, comment)
		}
	}
	return ov
}

// TrustScore counts a neutral review as half a positive one.
func TrustScore(positivePct, neutralPct float64) int {
	return int(math.Round(positivePct + neutralPct/2))
}

func LevelFor(score int) TrustLevel {
	switch {
	case score >= 85:
		return TrustExcellent
	case score >= 70:
		return TrustGood
	case score >= 50:
		return TrustFair
	default:
		return TrustPoor
	}
}

// commonIssues ranks the non-positive categories across all results.
func commonIssues(results []domain.ClassificationResult) []IssueCount {
	counts := make(map[domain.IssueCategory]int)
	for _, r := range results {
		for c := range r.Issues {
			if !c.IsPositive() {
				counts[c]++
			}
		}
	}
	out := make([]IssueCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, IssueCount{Issue: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Issue < out[j].Issue
	})
	if len(out) > maxCommonIssues {
		out = out[:maxCommonIssues]
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
