// Package utils provides small text helpers shared across NewsLens:
// company-name normalization, sentence splitting, and word truncation.
package utils

import "strings"

// NormalizeCompany trims and collapses whitespace in a user-supplied
// company name. Returns "" for blank input.
func NormalizeCompany(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// SplitSentences splits text into sentences on '.', '!' and '?'
// terminators followed by whitespace. The terminator stays attached to
// its sentence. Abbreviation handling is deliberately naive; the local
// summarizer only needs a rough sentence inventory.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			// Sentence ends when the terminator is followed by
			// whitespace or end of text.
			if i == len(runes)-1 || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				s := strings.TrimSpace(b.String())
				if s != "" {
					sentences = append(sentences, s)
				}
				b.Reset()
			}
		}
	}
	if rest := strings.TrimSpace(b.String()); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// TruncateWords returns at most n words of text, appending an ellipsis
// when anything was cut. n <= 0 returns "".
func TruncateWords(text string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ") + "..."
}

// CountWords returns the number of whitespace-separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
