package modcheck

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
)

// FeatureSet is an immutable bundle of signals extracted from one text,
// built once per analysis call and handed to the rule engine.
type FeatureSet struct {
	Original   string // length-capped input, original casing
	Normalized string // trimmed and lowercased version of Original

	Language     string // ISO-639-1 code or "unknown"
	Polarity     float64
	Subjectivity float64

	CharCount     int
	WordCount     int
	SentenceCount int
	RepeatedWords map[string]int // tokens occurring 3 times or more

	// pattern features, extracted for the question rule set only
	HasURL         bool
	HasEmail       bool
	HasEmoji       bool
	UppercaseRatio float64
}

var (
	wordRe  = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	urlRe   = regexp.MustCompile(`(?i)(https?://|www\.)`)
	emailRe = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
)

// truncate caps text at maxLen characters. The cut is not word-boundary
// aware and can split a token, which affects downstream counts.
func truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}

// tokenize splits text into word tokens, unicode letters included.
func tokenize(text string) []string {
	return wordRe.FindAllString(text, -1)
}

// repeatedWords builds a frequency map of tokens and keeps entries with
// three or more occurrences.
func repeatedWords(tokens []string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range tokens {
		freq[tok]++
	}
	res := make(map[string]int)
	for tok, count := range freq {
		if count >= 3 {
			res[tok] = count
		}
	}
	return res
}

// uppercaseRatio returns the fraction of uppercase letters over all
// characters of text. Empty text gives 0.
func uppercaseRatio(text string) float64 {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return 0
	}
	upper := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(total)
}

// extractFeatures assembles a FeatureSet from raw text. Language detection
// runs on the capped original-cased text, sentiment and counts on the
// normalized text. Pattern features (url, email, emoji, uppercase) are
// extracted only when withPatterns is set, as only the question rules use them.
func (a *Analyzer) extractFeatures(rawText string, maxLen int, withPatterns bool) FeatureSet {
	original := truncate(rawText, maxLen)
	normalized := strings.ToLower(strings.TrimSpace(original))

	sent := a.sentiment.Analyze(normalized)
	tokens := tokenize(normalized)

	fs := FeatureSet{
		Original:      original,
		Normalized:    normalized,
		Language:      a.detectLanguage(original),
		Polarity:      sent.Polarity,
		Subjectivity:  sent.Subjectivity,
		CharCount:     utf8.RuneCountInString(normalized),
		WordCount:     len(tokens),
		SentenceCount: sent.Sentences,
		RepeatedWords: repeatedWords(tokens),
	}

	if withPatterns {
		fs.HasURL = urlRe.MatchString(normalized)
		fs.HasEmail = emailRe.MatchString(normalized)
		fs.HasEmoji = gomoji.ContainsEmoji(original)
		fs.UppercaseRatio = uppercaseRatio(original)
	}
	return fs
}

// detectLanguage maps the detector outcome to a language code, with
// "unknown" for undetermined input.
func (a *Analyzer) detectLanguage(text string) string {
	det := a.lang.Detect(text)
	if !det.Known {
		return LangUnknown
	}
	return det.Code
}
