// Package sentiment scores article text into one of three labels:
// Positive, Neutral, or Negative. It is a deterministic, offline lexicon
// scorer; no model or network call is involved, so scoring never fails.
package sentiment

import (
	"math"
	"strings"

	"github.com/newslens-ai/newslens/pkg/models"
)

// Label cutoffs on the normalized score. Scores inside (-0.05, 0.05]
// read as Neutral.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// positive / negative keyword dictionaries (lowercase, weighted).
var positiveWords = map[string]float64{
	"surge": 0.7, "soar": 0.7, "rally": 0.6, "record high": 0.7,
	"beat": 0.5, "beats estimate": 0.6, "exceeds": 0.5, "upgrade": 0.6,
	"outperform": 0.6, "growth": 0.4, "strong": 0.4, "profit": 0.3,
	"gain": 0.4, "rise": 0.4, "recovery": 0.5, "breakthrough": 0.6,
	"launch": 0.3, "expansion": 0.4, "partnership": 0.3, "award": 0.4,
	"success": 0.5, "milestone": 0.4, "upbeat": 0.5, "optimistic": 0.5,
	"boost": 0.4, "positive": 0.4,
}

var negativeWords = map[string]float64{
	"crash": 0.8, "plunge": 0.7, "slump": 0.6, "selloff": 0.7,
	"fraud": 0.8, "scandal": 0.7, "lawsuit": 0.5, "investigation": 0.5,
	"recall": 0.6, "layoff": 0.6, "downgrade": 0.6, "underperform": 0.6,
	"miss": 0.5, "loss": 0.4, "decline": 0.5, "fall": 0.4, "drop": 0.4,
	"weak": 0.4, "warning": 0.5, "concern": 0.3, "fine": 0.4,
	"penalty": 0.5, "delay": 0.3, "shortage": 0.4, "bankrupt": 0.8,
	"negative": 0.4,
}

// Score returns a sentiment score in [-1, 1] and a confidence in [0, 1]
// for the given text. Text with no lexicon hits scores 0 with minimal
// confidence.
func Score(text string) (score float64, confidence float64) {
	lower := strings.ToLower(text)

	posScore := 0.0
	negScore := 0.0
	matches := 0

	for word, weight := range positiveWords {
		if strings.Contains(lower, word) {
			posScore += weight
			matches++
		}
	}
	for word, weight := range negativeWords {
		if strings.Contains(lower, word) {
			negScore += weight
			matches++
		}
	}

	if matches == 0 {
		return 0, 0.1 // no signal
	}

	total := posScore + negScore
	if total == 0 {
		return 0, 0.1
	}

	score = (posScore - negScore) / total
	confidence = math.Min(float64(matches)*0.15+0.2, 0.85)
	return score, confidence
}

// Label maps text to a sentiment label. Empty or whitespace-only text is
// Neutral.
func Label(text string) string {
	if strings.TrimSpace(text) == "" {
		return models.SentimentNeutral
	}

	score, _ := Score(text)
	switch {
	case score > positiveThreshold:
		return models.SentimentPositive
	case score < negativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// LabelArticle scores an article's summary, falling back to the title
// when the summary is empty.
func LabelArticle(a models.Article) string {
	text := a.Summary
	if text == "" {
		text = a.Title
	}
	return Label(text)
}
