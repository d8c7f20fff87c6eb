package modcheck

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LangUnknown is reported when the detector can't identify the language.
const LangUnknown = "unknown"

// Detection is the outcome of language identification, either a detected
// ISO-639-1 code or an explicit undetermined result. Detection failures are
// never surfaced as errors.
type Detection struct {
	Code  string
	Known bool
}

// LanguageDetector identifies the language of a text.
type LanguageDetector interface {
	Detect(text string) Detection
}

// linguaDetector wraps the lingua detector. The underlying detector is
// thread-safe and may be nondeterministic on short or ambiguous input.
type linguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector makes a detector over all languages lingua knows,
// so unsupported-language checks can see the real code.
func NewLanguageDetector() LanguageDetector {
	return &linguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build(),
	}
}

// Detect identifies the language of text, returning an undetermined
// Detection for input the detector can't classify.
func (l *linguaDetector) Detect(text string) Detection {
	lang, ok := l.detector.DetectLanguageOf(text)
	if !ok {
		return Detection{}
	}
	return Detection{Code: strings.ToLower(lang.IsoCode639_1().String()), Known: true}
}
