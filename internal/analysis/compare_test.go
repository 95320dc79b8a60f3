package analysis

import (
	"reflect"
	"testing"

	"github.com/newslens-ai/newslens/pkg/models"
)

func article(title, summary, sentiment string) models.Article {
	return models.Article{Title: title, Summary: summary, Sentiment: sentiment}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	got := Analyze(nil)

	if len(got.SentimentDistribution) != 0 {
		t.Errorf("SentimentDistribution = %v, want empty", got.SentimentDistribution)
	}
	if len(got.TopicOverlap.CommonTopics) != 0 || len(got.TopicOverlap.AllTopics) != 0 || len(got.TopicOverlap.TopicFrequency) != 0 {
		t.Errorf("TopicOverlap = %+v, want all empty", got.TopicOverlap)
	}
	if len(got.CoverageDifferences) != 0 {
		t.Errorf("CoverageDifferences = %v, want empty", got.CoverageDifferences)
	}

	// Containers must be non-nil so the JSON output has empty
	// collections rather than nulls.
	if got.SentimentDistribution == nil || got.TopicOverlap.TopicFrequency == nil {
		t.Error("degenerate result has nil maps")
	}
	if got.TopicOverlap.CommonTopics == nil || got.TopicOverlap.AllTopics == nil || got.CoverageDifferences == nil {
		t.Error("degenerate result has nil slices")
	}
}

func TestAnalyzeSentimentDistribution(t *testing.T) {
	articles := []models.Article{
		article("a", "", models.SentimentPositive),
		article("b", "", models.SentimentPositive),
		article("c", "", models.SentimentNegative),
		article("d", "", ""), // malformed: missing sentiment
	}

	got := Analyze(articles)

	want := map[string]int{
		models.SentimentPositive: 2,
		models.SentimentNegative: 1,
		models.SentimentUnknown:  1,
	}
	if !reflect.DeepEqual(got.SentimentDistribution, want) {
		t.Errorf("SentimentDistribution = %v, want %v", got.SentimentDistribution, want)
	}

	// Sum of counts equals the article count.
	if got.TotalArticles() != len(articles) {
		t.Errorf("sum of distribution = %d, want %d", got.TotalArticles(), len(articles))
	}

	// Neutral never appeared, so it must not be present as a zero entry.
	if _, ok := got.SentimentDistribution[models.SentimentNeutral]; ok {
		t.Error("distribution contains zero entry for Neutral")
	}
}

func TestAnalyzeTopicRederivationIsAuthoritative(t *testing.T) {
	articles := []models.Article{
		{Title: "Stock market gains", Sentiment: models.SentimentPositive, Topics: []string{"Bogus"}},
	}

	got := Analyze(articles)

	if !reflect.DeepEqual(articles[0].Topics, []string{"Finance"}) {
		t.Errorf("article topics = %v, want re-derived [Finance]", articles[0].Topics)
	}
	if !reflect.DeepEqual(got.TopicOverlap.AllTopics, []string{"Finance"}) {
		t.Errorf("AllTopics = %v, want [Finance]", got.TopicOverlap.AllTopics)
	}
}

func TestAnalyzeTopicOverlapInvariants(t *testing.T) {
	articles := []models.Article{
		article("Stock market rally", "investors cheer earnings", models.SentimentPositive),
		article("New electric vehicle stock listing", "", models.SentimentNeutral),
		article("Court ruling on market regulation", "", models.SentimentNegative),
	}

	got := Analyze(articles)
	overlap := got.TopicOverlap

	all := make(map[string]bool, len(overlap.AllTopics))
	for _, tp := range overlap.AllTopics {
		all[tp] = true
	}
	for tp := range overlap.TopicFrequency {
		if !all[tp] {
			t.Errorf("frequency topic %q not in AllTopics", tp)
		}
	}
	for _, tp := range overlap.CommonTopics {
		if !all[tp] {
			t.Errorf("common topic %q not in AllTopics", tp)
		}
	}

	// Every article mentions a Finance keyword, so Finance is common.
	if !reflect.DeepEqual(overlap.CommonTopics, []string{"Finance"}) {
		t.Errorf("CommonTopics = %v, want [Finance]", overlap.CommonTopics)
	}
	if overlap.TopicFrequency["Finance"] != 3 {
		t.Errorf("Finance frequency = %d, want 3", overlap.TopicFrequency["Finance"])
	}
}

func TestAnalyzePositiveNegativeContrast(t *testing.T) {
	articles := []models.Article{
		article("Stock market earnings beat", "", models.SentimentPositive),
		article("Vehicle recall widens", "", models.SentimentNegative),
	}

	got := Analyze(articles)

	if len(got.CoverageDifferences) != 2 {
		t.Fatalf("CoverageDifferences = %d entries, want 2", len(got.CoverageDifferences))
	}

	contrast := got.CoverageDifferences[0]
	want := "Positive articles focus on Finance, while negative articles focus on Automotive."
	if contrast.Comparison != want {
		t.Errorf("contrast = %q, want %q", contrast.Comparison, want)
	}
	if contrast.Impact != contrastImpact {
		t.Errorf("impact = %q", contrast.Impact)
	}

	// Tie between Positive and Negative: lexicographic break picks
	// Negative as dominant.
	dominant := got.CoverageDifferences[1]
	if dominant.Comparison != "Overall coverage is predominantly negative." {
		t.Errorf("dominant comparison = %q", dominant.Comparison)
	}
	if dominant.Impact != "The negative sentiment suggests a negative public perception." {
		t.Errorf("dominant impact = %q", dominant.Impact)
	}
}

func TestAnalyzeVariousTopicsPlaceholder(t *testing.T) {
	// Both subsets derive the same single topic, so each unique set is
	// empty and the placeholder text is used on both sides.
	articles := []models.Article{
		article("Stock market gains", "", models.SentimentPositive),
		article("Stock market losses", "", models.SentimentNegative),
	}

	got := Analyze(articles)
	want := "Positive articles focus on various topics, while negative articles focus on various topics."
	if got.CoverageDifferences[0].Comparison != want {
		t.Errorf("contrast = %q, want %q", got.CoverageDifferences[0].Comparison, want)
	}
}

func TestAnalyzeSingleSentimentGate(t *testing.T) {
	articles := []models.Article{
		article("Stock market news", "", models.SentimentNeutral),
		article("Vehicle launch", "", models.SentimentNeutral),
		article("Court ruling", "", models.SentimentNeutral),
	}

	got := Analyze(articles)
	if len(got.CoverageDifferences) != 0 {
		t.Errorf("CoverageDifferences = %v, want empty for single-sentiment set", got.CoverageDifferences)
	}
}

func TestAnalyzeSingleArticleGate(t *testing.T) {
	got := Analyze([]models.Article{article("Stock market news", "", models.SentimentPositive)})
	if len(got.CoverageDifferences) != 0 {
		t.Errorf("CoverageDifferences = %v, want empty for single article", got.CoverageDifferences)
	}
}

func TestAnalyzeNoContrastWithoutBothSubsets(t *testing.T) {
	// Two sentiments present but no Negative subset: only the dominant
	// note is emitted.
	articles := []models.Article{
		article("Stock market gains", "", models.SentimentPositive),
		article("Quarterly report published", "", models.SentimentNeutral),
	}

	got := Analyze(articles)
	if len(got.CoverageDifferences) != 1 {
		t.Fatalf("CoverageDifferences = %d entries, want 1", len(got.CoverageDifferences))
	}
	if got.CoverageDifferences[0].Impact != "The neutral sentiment suggests a balanced public perception." {
		// Tie Neutral vs Positive broken lexicographically → Neutral.
		t.Errorf("impact = %q", got.CoverageDifferences[0].Impact)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	make4 := func() []models.Article {
		return []models.Article{
			article("Stock market earnings", "profit up", models.SentimentPositive),
			article("Vehicle battery fire", "recall", models.SentimentNegative),
			article("New software platform", "", models.SentimentNeutral),
			article("Climate policy shift", "", models.SentimentNegative),
		}
	}

	first := Analyze(make4())
	second := Analyze(make4())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestDominantSentiment(t *testing.T) {
	tests := []struct {
		name string
		dist map[string]int
		want string
	}{
		{"clear winner", map[string]int{"Positive": 3, "Negative": 1}, "Positive"},
		{"tie broken lexicographically", map[string]int{"Positive": 2, "Negative": 2}, "Negative"},
		{"empty", map[string]int{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DominantSentiment(tt.dist); got != tt.want {
				t.Errorf("DominantSentiment(%v) = %q, want %q", tt.dist, got, tt.want)
			}
		})
	}
}
