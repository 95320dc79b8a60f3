package summarize

import (
	"context"
	"sort"
	"strings"

	"github.com/newslens-ai/newslens/pkg/utils"
)

// Local is the offline extractive summarizer: it keeps the highest
// scoring sentences of the input, scored by normalized word frequency.
// It is deterministic, never fails, and needs no configuration, which
// makes it the universal fallback backend.
type Local struct {
	// MaxSentences caps the summary length. Zero means the default of 5.
	MaxSentences int
}

const defaultMaxSentences = 5

// Summarize implements Summarizer. Short texts (under 100 bytes) and
// texts with no more sentences than the cap are returned unchanged.
func (l Local) Summarize(_ context.Context, text string) (string, error) {
	maxSentences := l.MaxSentences
	if maxSentences <= 0 {
		maxSentences = defaultMaxSentences
	}

	if len(text) < 100 {
		return text, nil
	}

	sentences := utils.SplitSentences(text)
	if len(sentences) <= maxSentences {
		return text, nil
	}

	// Word frequencies normalized by the most frequent word.
	frequencies := make(map[string]float64)
	for _, sentence := range sentences {
		for _, word := range strings.Fields(strings.ToLower(sentence)) {
			frequencies[word]++
		}
	}
	maxFreq := 1.0
	for _, f := range frequencies {
		if f > maxFreq {
			maxFreq = f
		}
	}
	for word := range frequencies {
		frequencies[word] /= maxFreq
	}

	// Score each sentence by the sum of its word frequencies.
	scores := make([]float64, len(sentences))
	for i, sentence := range sentences {
		for _, word := range strings.Fields(strings.ToLower(sentence)) {
			scores[i] += frequencies[word]
		}
	}

	// Pick the top sentences; ties prefer earlier sentences. Then
	// restore original order so the summary reads naturally.
	indices := make([]int, len(sentences))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return scores[indices[a]] > scores[indices[b]]
	})
	top := append([]int(nil), indices[:maxSentences]...)
	sort.Ints(top)

	picked := make([]string, len(top))
	for i, idx := range top {
		picked[i] = sentences[idx]
	}
	return strings.Join(picked, " "), nil
}
