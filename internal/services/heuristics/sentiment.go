package heuristics

import (
	"strings"

	"github.com/ternarybob/fundalyst/internal/models"
)

// SentimentMarker introduces the sentiment section of a concall write-up.
const SentimentMarker = "Sentiment Analysis:"

// ExtractSentiment reads sentiment and confidence from the text following the
// first SentimentMarker. Without the marker both values are Unknown.
// Positive beats Negative beats Neutral; High beats Moderate beats Low.
func ExtractSentiment(reply string) (models.Sentiment, models.Confidence) {
	sentiment := models.SentimentUnknown
	confidence := models.ConfidenceUnknown

	idx := strings.Index(reply, SentimentMarker)
	if idx < 0 {
		return sentiment, confidence
	}
	section := reply[idx+len(SentimentMarker):]

	switch {
	case strings.Contains(section, "Positive"):
		sentiment = models.SentimentPositive
	case strings.Contains(section, "Negative"):
		sentiment = models.SentimentNegative
	case strings.Contains(section, "Neutral"):
		sentiment = models.SentimentNeutral
	}

	switch {
	case strings.Contains(section, "High"):
		confidence = models.ConfidenceHigh
	case strings.Contains(section, "Moderate"):
		confidence = models.ConfidenceModerate
	case strings.Contains(section, "Low"):
		confidence = models.ConfidenceLow
	}

	return sentiment, confidence
}
