// Package topics classifies article text into a fixed topic taxonomy
// using keyword buckets. It is a lookup table, not a model: a topic
// applies when any of its keywords occurs as a substring of the
// lower-cased text. Changing the table changes classification behavior
// system-wide, so it is versioned with the analysis engine.
package topics

import (
	"sort"
	"strings"
)

// Topic labels. General is the fallback when no bucket matches.
const (
	Finance     = "Finance"
	Technology  = "Technology"
	Automotive  = "Automotive"
	Regulation  = "Regulation"
	Environment = "Environment"
	General     = "General"
)

// taxonomyOrder fixes the iteration order over buckets. The result set
// does not depend on it, but keeping it fixed makes classification
// traces reproducible.
var taxonomyOrder = []string{Finance, Technology, Automotive, Regulation, Environment}

// keywords maps each topic to its lowercase trigger substrings.
// Matching is plain containment, not word-boundary: "invest" also fires
// on "investigation". That is intentional coarseness.
var keywords = map[string][]string{
	Finance: {
		"finance", "market", "stock", "invest", "financial", "economy",
		"economic", "shares", "investors", "trading", "profit", "revenue",
		"earnings",
	},
	Technology: {
		"tech", "technology", "digital", "software", "hardware", "app",
		"device", "innovation", "platform", "product",
		"artificial intelligence",
	},
	Automotive: {
		"vehicle", "car", "automotive", "drive", "driving",
		"electric vehicle", "autonomous", "self-driving", "model",
		"battery", "charging",
	},
	Regulation: {
		"regulation", "regulatory", "compliance", "legal", "law",
		"lawsuit", "litigation", "court", "ruling", "guideline",
		"policy", "policies",
	},
	Environment: {
		"environment", "environmental", "climate", "green", "sustainable",
		"sustainability", "carbon", "emission", "renewable", "clean energy",
	},
}

// Classify maps free text to its set of topic labels. It is total and
// never fails: empty, whitespace-only, or unmatched text yields
// {General}. The returned slice is sorted and duplicate-free; callers
// should treat it as an unordered set.
func Classify(text string) []string {
	lower := strings.ToLower(text)

	var found []string
	for _, topic := range taxonomyOrder {
		for _, kw := range keywords[topic] {
			if strings.Contains(lower, kw) {
				found = append(found, topic)
				break
			}
		}
	}

	if len(found) == 0 {
		return []string{General}
	}
	sort.Strings(found)
	return found
}

// Taxonomy returns a copy of the topic → keyword table, in taxonomy
// order plus General last. Served by the API for the dashboard legend.
func Taxonomy() map[string][]string {
	out := make(map[string][]string, len(keywords)+1)
	for topic, kws := range keywords {
		out[topic] = append([]string(nil), kws...)
	}
	out[General] = []string{}
	return out
}

// All returns every topic label in the taxonomy, General included.
func All() []string {
	return append(append([]string(nil), taxonomyOrder...), General)
}
