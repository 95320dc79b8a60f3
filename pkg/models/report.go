package models

import "time"

// Report is the full result of one pipeline run, serialized as-is by the
// API layer and rendered by the dashboard.
type Report struct {
	Company              string         `json:"company"`
	Articles             []Article      `json:"articles"`
	ComparativeAnalysis  AnalysisResult `json:"comparative_analysis"`
	ComprehensiveSummary string         `json:"comprehensive_summary"`
	SummaryLanguage      string         `json:"summary_language,omitempty"`
	AudioPath            string         `json:"audio_path,omitempty"`
	ArticleCount         int            `json:"article_count"`
	GeneratedAt          time.Time      `json:"generated_at"`
}

// SentimentPercentages converts the sentiment distribution into
// percentages rounded to one decimal, keyed by label. Used by the
// dashboard's metric cards.
func (r Report) SentimentPercentages() map[string]float64 {
	total := len(r.Articles)
	if total == 0 {
		return map[string]float64{}
	}
	out := make(map[string]float64, len(r.ComparativeAnalysis.SentimentDistribution))
	for label, count := range r.ComparativeAnalysis.SentimentDistribution {
		out[label] = float64(int(float64(count)/float64(total)*1000+0.5)) / 10
	}
	return out
}
