// Package modcheck implements heuristic suspicion scoring for user-submitted
// product reviews and buyer questions. One Analyzer serves both kinds of text
// through a shared rule engine: the raw input is normalized into a FeatureSet
// (language, sentiment, counts, pattern matches), a declarative weighted rule
// table is evaluated against it, and the summed score is compared to a fixed
// threshold. Only the rule table and the advisory step differ between kinds.
//
// The analyzer is thread-safe. The language and sentiment analyzers are
// injected and replaceable, phrase lists backing the phrase rules can be
// reloaded on the fly with LoadGenericPhrases and LoadSpamPhrases.
package modcheck

import (
	"bufio"
	"io"
	"iter"
	"log"
	"strings"
	"sync"

	"github.com/pttech/modcheck/lib/analysis"
)

// default length caps, characters
const (
	defaultMaxReviewLen   = 1000
	defaultMaxQuestionLen = 500
)

// Config is a set of parameters for Analyzer.
type Config struct {
	MaxReviewLen   int // review length cap in characters, default 1000
	MaxQuestionLen int // question length cap in characters, default 500
}

// Analyzer runs the shared analysis pipeline for reviews and questions.
type Analyzer struct {
	Config
	lang      LanguageDetector
	sentiment SentimentAnalyzer
	review    *RuleSet
	question  *RuleSet

	lock sync.RWMutex // guards rule sets against phrase reloads
}

// NewAnalyzer makes an Analyzer with the given config, default rule tables
// and default language/sentiment analyzers.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.MaxReviewLen <= 0 {
		cfg.MaxReviewLen = defaultMaxReviewLen
	}
	if cfg.MaxQuestionLen <= 0 {
		cfg.MaxQuestionLen = defaultMaxQuestionLen
	}
	return &Analyzer{
		Config:    cfg,
		lang:      NewLanguageDetector(),
		sentiment: NewSentimentAnalyzer(),
		review:    reviewRules(defaultGenericPhrases),
		question:  questionRules(defaultSpamPhrases),
	}
}

// WithLanguageDetector replaces the language detector.
func (a *Analyzer) WithLanguageDetector(ld LanguageDetector) *Analyzer {
	a.lang = ld
	return a
}

// WithSentimentAnalyzer replaces the sentiment analyzer.
func (a *Analyzer) WithSentimentAnalyzer(sa SentimentAnalyzer) *Analyzer {
	a.sentiment = sa
	return a
}

// AnalyzeReview runs the review pipeline on rawText.
func (a *Analyzer) AnalyzeReview(rawText string) analysis.ReviewResult {
	a.lock.RLock()
	rules := a.review
	a.lock.RUnlock()

	res := a.analyze(rawText, a.MaxReviewLen, rules, false)
	return analysis.ReviewResult{
		Result:         res,
		SuggestedReply: adviseReply(res.Sentiment.Label, res.Suspicious),
	}
}

// AnalyzeQuestion runs the question pipeline on rawText.
func (a *Analyzer) AnalyzeQuestion(rawText string) analysis.QuestionResult {
	a.lock.RLock()
	rules := a.question
	a.lock.RUnlock()

	res := a.analyze(rawText, a.MaxQuestionLen, rules, true)
	return analysis.QuestionResult{
		Result:          res,
		SuggestedAction: adviseAction(res.Suspicious),
	}
}

// analyze is the shared pipeline: preprocess, extract features, evaluate the
// rule set, classify and assemble the result. Reasons of sub-threshold
// triggers are replaced with the sentinel entry when not suspicious.
func (a *Analyzer) analyze(rawText string, maxLen int, rules *RuleSet, withPatterns bool) analysis.Result {
	fs := a.extractFeatures(rawText, maxLen, withPatterns)
	score, reasons := rules.Evaluate(&fs)
	suspicious := rules.Suspicious(score)

	if !suspicious {
		reasons = []string{analysis.NoSuspicionSignals}
	}

	res := analysis.Result{
		Language:       fs.Language,
		Suspicious:     suspicious,
		SuspicionScore: score,
		Reasons:        reasons,
		Sentiment: analysis.Sentiment{
			Polarity:     fs.Polarity,
			Subjectivity: fs.Subjectivity,
			Label:        analysis.LabelFor(fs.Polarity),
		},
		Length: analysis.Length{
			CharCount:     fs.CharCount,
			WordCount:     fs.WordCount,
			SentenceCount: fs.SentenceCount,
		},
		RepeatedWords: fs.RepeatedWords,
	}
	log.Printf("[DEBUG] analyzed %s with %q: %s", rules.Name, fs.Normalized, res.String())
	return res
}

// LoadGenericPhrases replaces the generic-praise phrase list of the review
// rule table with phrases read from the readers, one phrase per line.
// Returns the number of phrases loaded.
func (a *Analyzer) LoadGenericPhrases(readers ...io.Reader) (int, error) {
	phrases := readPhrases(readers...)
	a.lock.Lock()
	defer a.lock.Unlock()
	a.review = reviewRules(phrases)
	return len(phrases), nil
}

// LoadSpamPhrases replaces the spam-keyword phrase list of the question
// rule table with phrases read from the readers, one phrase per line.
// Returns the number of phrases loaded.
func (a *Analyzer) LoadSpamPhrases(readers ...io.Reader) (int, error) {
	phrases := readPhrases(readers...)
	a.lock.Lock()
	defer a.lock.Unlock()
	a.question = questionRules(phrases)
	return len(phrases), nil
}

func readPhrases(readers ...io.Reader) []string {
	res := []string{}
	for phrase := range readerIterator(readers...) {
		res = append(res, strings.ToLower(phrase))
	}
	return res
}

// readerIterator parses readers and returns an iterator of data elements,
// each non-empty line is an element.
func readerIterator(readers ...io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, reader := range readers {
			scanner := bufio.NewScanner(reader)
			for scanner.Scan() {
				line := strings.Trim(scanner.Text(), " \n\r\t")
				if line == "" {
					continue
				}
				if !yield(line) {
					return
				}
			}
			if err := scanner.Err(); err != nil {
				log.Printf("[WARN] failed to read phrases, error=%v", err)
			}
		}
	}
}
