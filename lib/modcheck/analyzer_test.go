package modcheck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pttech/modcheck/lib/analysis"
)

type fakeLang struct{ det Detection }

func (f fakeLang) Detect(string) Detection { return f.det }

type fakeSentiment struct{ res Sentiment }

func (f fakeSentiment) Analyze(string) Sentiment { return f.res }

func newTestAnalyzer(lang Detection, sent Sentiment) *Analyzer {
	return NewAnalyzer(Config{}).
		WithLanguageDetector(fakeLang{lang}).
		WithSentimentAnalyzer(fakeSentiment{sent})
}

func TestAnalyzer_AnalyzeReview(t *testing.T) {
	english := Detection{Code: "en", Known: true}

	t.Run("short generic review is suspicious", func(t *testing.T) {
		a := newTestAnalyzer(english, Sentiment{Sentences: 1})
		res := a.AnalyzeReview("ok")
		assert.True(t, res.Suspicious)
		assert.Equal(t, 3, res.SuspicionScore)
		assert.Equal(t, []string{"review too short", "generic wording: 'ok'"}, res.Reasons)
		assert.Equal(t, analysis.Length{CharCount: 2, WordCount: 1, SentenceCount: 1}, res.Length)
		assert.Nil(t, res.SuggestedReply)
	})

	t.Run("long moderate review is clean with reply for positive label", func(t *testing.T) {
		a := newTestAnalyzer(english, Sentiment{Polarity: 0.3, Subjectivity: 0.5, Sentences: 1})
		res := a.AnalyzeReview("The packaging was slightly damaged but the product itself works as described and shipping was on time.")
		assert.False(t, res.Suspicious)
		assert.Equal(t, 0, res.SuspicionScore)
		assert.Equal(t, []string{analysis.NoSuspicionSignals}, res.Reasons)
		assert.Equal(t, analysis.LabelPositive, res.Sentiment.Label)
		require.NotNil(t, res.SuggestedReply)
		assert.Equal(t, "Thank you for your positive review. We hope you continue to support us!", *res.SuggestedReply)
	})

	t.Run("no reply for neutral clean review", func(t *testing.T) {
		a := newTestAnalyzer(english, Sentiment{Polarity: 0.1, Sentences: 1})
		res := a.AnalyzeReview("The packaging arrived with a few scratches but everything inside was fine.")
		assert.False(t, res.Suspicious)
		assert.Nil(t, res.SuggestedReply)
	})

	t.Run("sub-threshold trigger replaced with sentinel", func(t *testing.T) {
		a := newTestAnalyzer(english, Sentiment{Sentences: 1})
		res := a.AnalyzeReview("nice fast delivery overall") // 4 words, only too-short fires
		assert.False(t, res.Suspicious)
		assert.Equal(t, 2, res.SuspicionScore)
		assert.Equal(t, []string{analysis.NoSuspicionSignals}, res.Reasons)
	})

	t.Run("extreme sentiment plus repetition", func(t *testing.T) {
		a := newTestAnalyzer(english, Sentiment{Polarity: 0.95, Sentences: 1})
		res := a.AnalyzeReview("amazing amazing amazing wonderful stuff here")
		assert.True(t, res.Suspicious)
		assert.Equal(t, 4, res.SuspicionScore)
		assert.Equal(t, []string{"sentiment too extreme", "abnormal word repetition"}, res.Reasons)
		assert.Equal(t, map[string]int{"amazing": 3}, res.RepeatedWords)
	})

	t.Run("unsupported language", func(t *testing.T) {
		a := newTestAnalyzer(Detection{Code: "de", Known: true}, Sentiment{Sentences: 1})
		res := a.AnalyzeReview("das produkt kam leider etwas zu spät an")
		assert.True(t, res.Suspicious)
		assert.Equal(t, 3, res.SuspicionScore)
		assert.Equal(t, []string{"unsupported language: 'de'"}, res.Reasons)
	})

	t.Run("undetermined language reported as unknown", func(t *testing.T) {
		a := newTestAnalyzer(Detection{}, Sentiment{Sentences: 1})
		res := a.AnalyzeReview("zzzz qqqq xxxx wwww yyyy vvvv")
		assert.Equal(t, "unknown", res.Language)
		assert.Contains(t, res.Reasons, "unsupported language: 'unknown'")
	})
}

func TestAnalyzer_AnalyzeQuestion(t *testing.T) {
	english := Detection{Code: "en", Known: true}

	t.Run("spam question with url and email", func(t *testing.T) {
		a := newTestAnalyzer(english, Sentiment{Sentences: 1})
		res := a.AnalyzeQuestion("Contact me at buyer@example.com for a 100% discount, click here www.example.com!!")
		assert.True(t, res.Suspicious)
		assert.Equal(t, 14, res.SuspicionScore)
		assert.Equal(t, []string{
			"spam keyword: 'click here'",
			"spam keyword: 'discount'",
			"spam keyword: 'contact'",
			"spam keyword: '100%'",
			"suspicious link (URL)",
			"email address — spam signal",
		}, res.Reasons)
		require.NotNil(t, res.SuggestedAction)
		assert.Equal(t, "needs manual review / consider hiding the question", *res.SuggestedAction)
	})

	t.Run("clean question has no action", func(t *testing.T) {
		a := newTestAnalyzer(english, Sentiment{Sentences: 1})
		res := a.AnalyzeQuestion("does this model work with android phones")
		assert.False(t, res.Suspicious)
		assert.Equal(t, []string{analysis.NoSuspicionSignals}, res.Reasons)
		assert.Nil(t, res.SuggestedAction)
	})

	t.Run("short question with emoji crosses threshold", func(t *testing.T) {
		a := newTestAnalyzer(Detection{Code: "vi", Known: true}, Sentiment{Sentences: 1})
		res := a.AnalyzeQuestion("giá tốt quá 😀")
		assert.True(t, res.Suspicious)
		assert.Equal(t, 3, res.SuspicionScore)
		assert.Equal(t, []string{"question too short", "contains emoji — possible spam"}, res.Reasons)
	})

	t.Run("uppercase shouting alone stays sub-threshold", func(t *testing.T) {
		a := newTestAnalyzer(english, Sentiment{Sentences: 1})
		res := a.AnalyzeQuestion("DOES ANYONE KNOW WHEN THIS SHIPS OUT")
		assert.False(t, res.Suspicious)
		assert.Equal(t, 1, res.SuspicionScore)
		assert.Equal(t, []string{analysis.NoSuspicionSignals}, res.Reasons)
	})
}

func TestAnalyzer_TruncationEquivalence(t *testing.T) {
	english := Detection{Code: "en", Known: true}
	a := newTestAnalyzer(english, Sentiment{Sentences: 1})

	long := strings.Repeat("all work and no play makes a dull day ", 30) // well over the question cap
	capped := string([]rune(long)[:500])

	resLong := a.AnalyzeQuestion(long)
	resCapped := a.AnalyzeQuestion(capped)
	assert.Equal(t, resCapped, resLong)
}

func TestAnalyzer_LoadPhrases(t *testing.T) {
	english := Detection{Code: "en", Known: true}
	a := newTestAnalyzer(english, Sentiment{Sentences: 1})

	t.Run("default spam keyword triggers", func(t *testing.T) {
		res := a.AnalyzeQuestion("is this offer really free for everyone today")
		assert.Equal(t, 2, res.SuspicionScore)
	})

	t.Run("loaded list replaces defaults", func(t *testing.T) {
		count, err := a.LoadSpamPhrases(strings.NewReader("miracle cure\n\n  limited offer  \n"))
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		res := a.AnalyzeQuestion("is this offer really free for everyone today")
		assert.Equal(t, 0, res.SuspicionScore, "old keyword gone")

		res = a.AnalyzeQuestion("get the miracle cure with this limited offer now")
		assert.Equal(t, 4, res.SuspicionScore)
		assert.Equal(t, []string{"spam keyword: 'miracle cure'", "spam keyword: 'limited offer'"}, res.Reasons)
	})

	t.Run("generic phrases reload for reviews", func(t *testing.T) {
		count, err := a.LoadGenericPhrases(strings.NewReader("Top Notch"))
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		res := a.AnalyzeReview("this thing is top notch quality for the price")
		assert.Equal(t, 1, res.SuspicionScore)
		assert.Equal(t, []string{analysis.NoSuspicionSignals}, res.Reasons) // sub-threshold
	})
}
