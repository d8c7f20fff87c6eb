package modcheck

import (
	"fmt"
	"math"
	"strings"
)

// Rule is a named weighted predicate over a FeatureSet. Rules are pure and
// independent, multiple rules may trigger on the same text.
type Rule struct {
	Name   string
	Weight int
	Match  func(fs *FeatureSet) (bool, string) // reason returned when matched
}

// RuleSet is an ordered list of rules plus the suspicion threshold.
// Evaluation order is declaration order and determines reason ordering.
type RuleSet struct {
	Name      string
	Threshold int
	Rules     []Rule
}

// suspicionThreshold is shared by both rule sets.
const suspicionThreshold = 3

// default phrase lists, overridable via Analyzer.LoadGenericPhrases and
// Analyzer.LoadSpamPhrases
var (
	defaultGenericPhrases = []string{
		"rất tốt", "tuyệt vời", "ok", "hài lòng", "sản phẩm tốt",
		"very good", "excellent", "satisfied", "good product",
	}
	defaultSpamPhrases = []string{
		"mua ngay", "click vào", "giảm giá", "liên hệ",
		"buy now", "click here", "discount", "contact",
		"100%", "free",
	}
)

// supportedLanguages are the codes accepted without penalty.
var supportedLanguages = map[string]struct{}{"vi": {}, "en": {}}

// Evaluate runs the rule set against a feature set in declared order,
// summing weights of triggered rules and collecting their reasons.
// No rule short-circuits another.
func (rs *RuleSet) Evaluate(fs *FeatureSet) (score int, reasons []string) {
	for _, r := range rs.Rules {
		matched, reason := r.Match(fs)
		if !matched {
			continue
		}
		score += r.Weight
		reasons = append(reasons, reason)
	}
	return score, reasons
}

// Suspicious applies the threshold to a score.
func (rs *RuleSet) Suspicious(score int) bool { return score >= rs.Threshold }

// phraseRules expands a phrase list into one rule per phrase, so each match
// contributes its weight and reason independently, in list order.
func phraseRules(name string, phrases []string, weight int, reasonFmt string) []Rule {
	rules := make([]Rule, 0, len(phrases))
	for _, phrase := range phrases {
		rules = append(rules, Rule{
			Name:   name,
			Weight: weight,
			Match: func(fs *FeatureSet) (bool, string) {
				return strings.Contains(fs.Normalized, phrase), fmt.Sprintf(reasonFmt, phrase)
			},
		})
	}
	return rules
}

func unsupportedLanguageRule() Rule {
	return Rule{
		Name:   "unsupported-language",
		Weight: 3,
		Match: func(fs *FeatureSet) (bool, string) {
			_, ok := supportedLanguages[fs.Language]
			return !ok, fmt.Sprintf("unsupported language: '%s'", fs.Language)
		},
	}
}

func repeatedWordsRule() Rule {
	return Rule{
		Name:   "repeated-words",
		Weight: 2,
		Match: func(fs *FeatureSet) (bool, string) {
			return len(fs.RepeatedWords) > 0, "abnormal word repetition"
		},
	}
}

// reviewRules builds the review-moderation rule table. The phrase list
// defaults to defaultGenericPhrases and can be replaced at load time.
func reviewRules(genericPhrases []string) *RuleSet {
	rules := []Rule{
		{Name: "too-short", Weight: 2, Match: func(fs *FeatureSet) (bool, string) {
			return fs.WordCount < 5, "review too short"
		}},
	}
	rules = append(rules, phraseRules("generic-phrase", genericPhrases, 1, "generic wording: '%s'")...)
	rules = append(rules,
		Rule{Name: "extreme-sentiment", Weight: 2, Match: func(fs *FeatureSet) (bool, string) {
			return math.Abs(fs.Polarity) > 0.9, "sentiment too extreme"
		}},
		repeatedWordsRule(),
		unsupportedLanguageRule(),
	)
	return &RuleSet{Name: "review", Threshold: suspicionThreshold, Rules: rules}
}

// questionRules builds the question-moderation rule table. The phrase list
// defaults to defaultSpamPhrases and can be replaced at load time.
func questionRules(spamPhrases []string) *RuleSet {
	rules := []Rule{
		{Name: "too-short", Weight: 2, Match: func(fs *FeatureSet) (bool, string) {
			return fs.WordCount < 4, "question too short"
		}},
	}
	rules = append(rules, phraseRules("spam-phrase", spamPhrases, 2, "spam keyword: '%s'")...)
	rules = append(rules,
		Rule{Name: "extreme-sentiment", Weight: 2, Match: func(fs *FeatureSet) (bool, string) {
			return math.Abs(fs.Polarity) > 0.8, "sentiment too extreme"
		}},
		repeatedWordsRule(),
		Rule{Name: "has-url", Weight: 3, Match: func(fs *FeatureSet) (bool, string) {
			return fs.HasURL, "suspicious link (URL)"
		}},
		Rule{Name: "has-email", Weight: 3, Match: func(fs *FeatureSet) (bool, string) {
			return fs.HasEmail, "email address — spam signal"
		}},
		Rule{Name: "has-emoji", Weight: 1, Match: func(fs *FeatureSet) (bool, string) {
			return fs.HasEmoji, "contains emoji — possible spam"
		}},
		Rule{Name: "excess-uppercase", Weight: 1, Match: func(fs *FeatureSet) (bool, string) {
			return fs.UppercaseRatio > 0.5, "excessive uppercase"
		}},
		unsupportedLanguageRule(),
	)
	return &RuleSet{Name: "question", Threshold: suspicionThreshold, Rules: rules}
}
