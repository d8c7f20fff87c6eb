package modcheck

import (
	"log"

	prose "github.com/tsawler/prose/v3"
)

// Sentiment holds the analyzer output consumed by the feature extractor.
type Sentiment struct {
	Polarity     float64 // -1.0 to 1.0
	Subjectivity float64 // 0.0 to 1.0
	Sentences    int     // sentence count from segmentation
}

// SentimentAnalyzer scores the sentiment of a text and segments it into
// sentences. Implementations must be deterministic for the same input.
type SentimentAnalyzer interface {
	Analyze(text string) Sentiment
}

// proseAnalyzer wraps the prose sentiment analyzer and punkt segmentation.
// The document is built per call, so concurrent use is safe.
type proseAnalyzer struct {
	analyzer *prose.SentimentAnalyzer
}

// NewSentimentAnalyzer makes a prose-backed sentiment analyzer with the
// default lexicon configuration.
func NewSentimentAnalyzer() SentimentAnalyzer {
	return &proseAnalyzer{
		analyzer: prose.NewSentimentAnalyzer(prose.English, prose.DefaultSentimentConfig()),
	}
}

// Analyze scores text sentiment and counts sentences. Tagging and entity
// extraction are disabled, only segmentation and tokenization run.
func (p *proseAnalyzer) Analyze(text string) Sentiment {
	doc, err := prose.NewDocument(text, prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		// can only happen on context timeout, treat as neutral
		log.Printf("[WARN] sentiment analysis failed: %v", err)
		return Sentiment{}
	}
	score := p.analyzer.AnalyzeDocument(doc)
	return Sentiment{
		Polarity:     score.Polarity,
		Subjectivity: score.Subjectivity,
		Sentences:    len(doc.Sentences()),
	}
}
