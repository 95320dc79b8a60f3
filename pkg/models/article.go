// Package models defines the shared data types exchanged between the
// NewsLens pipeline stages: articles, analysis results, and reports.
// It has no dependencies so every internal package can import it.
package models

// Sentiment labels attached to articles by the sentiment classifier.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"

	// SentimentUnknown is assigned when an article reaches the analysis
	// engine without a recognized sentiment label. Such articles are
	// counted, never dropped.
	SentimentUnknown = "Unknown"
)

// Article is a single news item about the requested company.
// Date is the free-form publication date string as provided by the feed.
type Article struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Source    string   `json:"source"`
	Link      string   `json:"link"`
	Date      string   `json:"date"`
	Sentiment string   `json:"sentiment,omitempty"`
	Topics    []string `json:"topics,omitempty"`
}

// Text returns the combined title and summary used for classification.
func (a Article) Text() string {
	if a.Summary == "" {
		return a.Title
	}
	return a.Title + " " + a.Summary
}

// NormalizeSentiment maps a sentiment label to one of the four known
// labels. Anything unrecognized, including the empty string, becomes
// SentimentUnknown.
func NormalizeSentiment(label string) string {
	switch label {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return label
	default:
		return SentimentUnknown
	}
}

// CoverageComparison is a narrative pair contrasting two article subsets.
type CoverageComparison struct {
	Comparison string `json:"comparison"`
	Impact     string `json:"impact"`
}

// TopicOverlap describes how topics are shared across an article set.
//
// Invariants: CommonTopics is a subset of AllTopics, and every key of
// TopicFrequency appears in AllTopics. Both slices are sorted.
type TopicOverlap struct {
	CommonTopics   []string       `json:"common_topics"`
	AllTopics      []string       `json:"all_topics"`
	TopicFrequency map[string]int `json:"topic_frequency"`
}

// AnalysisResult is the output of the comparative analysis engine for a
// fixed article set. SentimentDistribution is sparse: labels with no
// articles do not appear as zero entries.
type AnalysisResult struct {
	SentimentDistribution map[string]int       `json:"sentiment_distribution"`
	TopicOverlap          TopicOverlap         `json:"topic_overlap"`
	CoverageDifferences   []CoverageComparison `json:"coverage_differences"`
}

// TotalArticles returns the number of articles the distribution was
// tallied over.
func (r AnalysisResult) TotalArticles() int {
	total := 0
	for _, n := range r.SentimentDistribution {
		total += n
	}
	return total
}
