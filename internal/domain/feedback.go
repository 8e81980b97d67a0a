package domain

import "strings"

// Rating is the platform-reported feedback rating as written by the scraper.
type Rating string

const (
	RatingPositive Rating = "Positive"
	RatingNegative Rating = "Negative"
	RatingNeutral  Rating = "Neutral"
	RatingUnknown  Rating = "Unknown"
)

// ParseRating maps a raw rating_type cell onto a known rating. Unexpected values
// are kept verbatim (trimmed) so they can pass through to the final sentiment.
func ParseRating(raw string) Rating {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "positive":
		return RatingPositive
	case "negative":
		return RatingNegative
	case "neutral":
		return RatingNeutral
	case "unknown":
		return RatingUnknown
	default:
		return Rating(s)
	}
}

func (r Rating) Is(other Rating) bool {
	return strings.EqualFold(string(r), string(other))
}

// Sentiment is the final, possibly overridden, verdict for a record.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
)

// PassThrough returns the rating upper-cased, which is how an unmodified rating
// is reported as a sentiment.
func (r Rating) PassThrough() Sentiment {
	return Sentiment(strings.ToUpper(string(r)))
}

// FeedbackRecord is one row of the ingestion table.
type FeedbackRecord struct {
	Row        int // 1-based data row in the source table
	Comment    string
	RatingType string
	// Extra holds passthrough columns keyed by header name (e.g. "date").
	Extra map[string]string
}

func (r FeedbackRecord) Rating() Rating {
	return ParseRating(r.RatingType)
}
