// Package analysis implements the comparative analysis engine: it takes
// a set of scored articles and derives the sentiment distribution, topic
// overlap statistics, and narrative coverage-difference comparisons.
//
// Analyze is pure and total. It performs no I/O, holds no state between
// calls, and may be invoked concurrently across requests without
// coordination.
package analysis

import (
	"sort"
	"strings"

	"github.com/newslens-ai/newslens/internal/topics"
	"github.com/newslens-ai/newslens/pkg/models"
)

// Fixed narrative fragments used in coverage comparisons.
const (
	variousTopics  = "various topics"
	contrastImpact = "This contrast shows different aspects of the company's public perception."
)

// Analyze derives an AnalysisResult from the given article set.
//
// Topic sets are re-derived from each article's title and summary; any
// pre-attached topics are overwritten. Articles with an unrecognized or
// missing sentiment are tallied under "Unknown". Empty input yields the
// degenerate result with all containers empty.
func Analyze(articles []models.Article) models.AnalysisResult {
	if len(articles) == 0 {
		return models.AnalysisResult{
			SentimentDistribution: map[string]int{},
			TopicOverlap: models.TopicOverlap{
				CommonTopics:   []string{},
				AllTopics:      []string{},
				TopicFrequency: map[string]int{},
			},
			CoverageDifferences: []models.CoverageComparison{},
		}
	}

	// Sentiment distribution: sparse, only observed labels appear.
	dist := make(map[string]int)
	for i := range articles {
		articles[i].Sentiment = models.NormalizeSentiment(articles[i].Sentiment)
		dist[articles[i].Sentiment]++
	}

	// Topic re-derivation is authoritative: the classifier output
	// replaces whatever the caller attached.
	articleTopics := make([]map[string]bool, len(articles))
	allTopics := make(map[string]bool)
	for i := range articles {
		derived := topics.Classify(articles[i].Text())
		articles[i].Topics = derived
		set := make(map[string]bool, len(derived))
		for _, t := range derived {
			set[t] = true
			allTopics[t] = true
		}
		articleTopics[i] = set
	}

	// Common topics: start from the union, intersect with every article.
	common := make(map[string]bool, len(allTopics))
	for t := range allTopics {
		common[t] = true
	}
	for _, set := range articleTopics {
		for t := range common {
			if !set[t] {
				delete(common, t)
			}
		}
	}

	frequency := make(map[string]int, len(allTopics))
	for t := range allTopics {
		for _, set := range articleTopics {
			if set[t] {
				frequency[t]++
			}
		}
	}

	return models.AnalysisResult{
		SentimentDistribution: dist,
		TopicOverlap: models.TopicOverlap{
			CommonTopics:   sortedKeys(common),
			AllTopics:      sortedKeys(allTopics),
			TopicFrequency: frequency,
		},
		CoverageDifferences: coverageDifferences(articles, articleTopics, dist),
	}
}

// coverageDifferences builds the narrative comparisons. It requires at
// least two articles and at least two distinct sentiment labels;
// otherwise there is nothing to contrast and the result is empty.
func coverageDifferences(articles []models.Article, articleTopics []map[string]bool, dist map[string]int) []models.CoverageComparison {
	if len(articles) < 2 || len(dist) < 2 {
		return []models.CoverageComparison{}
	}

	comparisons := []models.CoverageComparison{}

	posTopics := topicsForSentiment(articles, articleTopics, models.SentimentPositive)
	negTopics := topicsForSentiment(articles, articleTopics, models.SentimentNegative)

	if len(posTopics) > 0 && len(negTopics) > 0 {
		comparisons = append(comparisons, models.CoverageComparison{
			Comparison: "Positive articles focus on " + topicList(difference(posTopics, negTopics)) +
				", while negative articles focus on " + topicList(difference(negTopics, posTopics)) + ".",
			Impact: contrastImpact,
		})
	}

	dominant := DominantSentiment(dist)
	comparisons = append(comparisons, models.CoverageComparison{
		Comparison: "Overall coverage is predominantly " + strings.ToLower(dominant) + ".",
		Impact:     dominantImpact(dominant),
	})

	return comparisons
}

// DominantSentiment returns the label with the highest count. Ties are
// broken by the lexicographically smallest label so results are
// reproducible. Empty input returns "".
func DominantSentiment(dist map[string]int) string {
	best := ""
	bestCount := -1
	for label, count := range dist {
		if count > bestCount || (count == bestCount && label < best) {
			best = label
			bestCount = count
		}
	}
	return best
}

func dominantImpact(dominant string) string {
	lower := strings.ToLower(dominant)
	switch dominant {
	case models.SentimentPositive:
		return "The " + lower + " sentiment suggests a positive public perception."
	case models.SentimentNegative:
		return "The " + lower + " sentiment suggests a negative public perception."
	default:
		return "The " + lower + " sentiment suggests a balanced public perception."
	}
}

// topicsForSentiment returns the union of topic sets over articles with
// the given sentiment. The set is non-nil only when at least one such
// article exists; an article set with the sentiment but only the General
// topic still yields a non-empty union, keeping the existence check and
// the topic union a single lookup.
func topicsForSentiment(articles []models.Article, articleTopics []map[string]bool, sentiment string) map[string]bool {
	union := make(map[string]bool)
	for i := range articles {
		if articles[i].Sentiment != sentiment {
			continue
		}
		for t := range articleTopics[i] {
			union[t] = true
		}
	}
	return union
}

// difference returns a minus b as a sorted slice.
func difference(a, b map[string]bool) []string {
	var out []string
	for t := range a {
		if !b[t] {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// topicList renders a topic slice for prose, falling back to
// "various topics" when the set is empty.
func topicList(ts []string) string {
	if len(ts) == 0 {
		return variousTopics
	}
	return strings.Join(ts, ", ")
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
