package modcheck

import (
	"github.com/pttech/modcheck/lib/analysis"
)

// fixed advisory messages, no external calls involved
const (
	thankYouReply  = "Thank you for your positive review. We hope you continue to support us!"
	manualHideNote = "needs manual review / consider hiding the question"
)

// adviseReply suggests a reply for positive non-suspicious reviews.
func adviseReply(label analysis.SentimentLabel, suspicious bool) *string {
	if label != analysis.LabelPositive || suspicious {
		return nil
	}
	reply := thankYouReply
	return &reply
}

// adviseAction suggests a moderation action for suspicious questions.
func adviseAction(suspicious bool) *string {
	if !suspicious {
		return nil
	}
	action := manualHideNote
	return &action
}
