package analysis

import (
	"fmt"
	"strings"
)

// Kind selects which rule set and advisor an analysis runs with.
type Kind string

// supported analysis kinds
const (
	KindReview   Kind = "review"
	KindQuestion Kind = "question"
)

// NoSuspicionSignals is the single reasons entry reported for texts
// classified as not suspicious, regardless of sub-threshold triggers.
const NoSuspicionSignals = "no suspicion signals"

// SentimentLabel is a coarse sentiment classification.
type SentimentLabel string

// sentiment labels
const (
	LabelPositive SentimentLabel = "positive"
	LabelNegative SentimentLabel = "negative"
	LabelNeutral  SentimentLabel = "neutral"
)

// LabelFor maps polarity to a sentiment label. Shared by both pipelines.
func LabelFor(polarity float64) SentimentLabel {
	switch {
	case polarity > 0.2:
		return LabelPositive
	case polarity < -0.2:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Sentiment is the sentiment part of an analysis result.
type Sentiment struct {
	Polarity     float64        `json:"polarity"`     // -1.0 (negative) to 1.0 (positive)
	Subjectivity float64        `json:"subjectivity"` // 0.0 (objective) to 1.0 (subjective)
	Label        SentimentLabel `json:"label"`
}

// Length is the length part of an analysis result.
type Length struct {
	CharCount     int `json:"char_count"`
	WordCount     int `json:"word_count"`
	SentenceCount int `json:"sentence_count"`
}

// Result is the outcome of a single text analysis, common to both kinds.
type Result struct {
	Language       string         `json:"language"` // ISO-639-1 code or "unknown"
	Suspicious     bool           `json:"suspicious"`
	SuspicionScore int            `json:"suspicion_score"`
	Reasons        []string       `json:"reasons"`
	Sentiment      Sentiment      `json:"sentiment"`
	Length         Length         `json:"length_analysis"`
	RepeatedWords  map[string]int `json:"repeated_words"`
}

// ReviewResult is the result of a review analysis.
type ReviewResult struct {
	Result
	SuggestedReply *string `json:"suggested_reply"` // set for positive non-suspicious reviews
}

// QuestionResult is the result of a question analysis.
type QuestionResult struct {
	Result
	SuggestedAction *string `json:"suggested_action"` // set for suspicious questions
}

func (r *Result) String() string {
	verdict := "clean"
	if r.Suspicious {
		verdict = "suspicious"
	}
	return fmt.Sprintf("%s, score:%d, lang:%s, reasons:[%s]",
		verdict, r.SuspicionScore, r.Language, strings.Join(r.Reasons, "; "))
}
