// Package summarize produces prose summaries of article corpora. The
// primary backend is Groq's OpenAI-compatible chat completions API; a
// deterministic local extractive summarizer is always available as a
// fallback, so summarization as a whole never hard-fails.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by summarizer backends.
var (
	ErrNoAPIKey      = errors.New("summarize: API key not configured")
	ErrRateLimit     = errors.New("summarize: rate limit exceeded")
	ErrProviderDown  = errors.New("summarize: provider unavailable")
	ErrEmptyResponse = errors.New("summarize: provider returned empty response")
)

// Summarizer turns a prompt into a prose summary.
type Summarizer interface {
	// Summarize returns a summary for the given prompt text.
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Fallback chains two summarizers: when the primary fails for any
// reason, the secondary is consulted with the same prompt.
type Fallback struct {
	Primary   Summarizer
	Secondary Summarizer
}

// Summarize tries the primary backend and falls back to the secondary.
func (f Fallback) Summarize(ctx context.Context, prompt string) (string, error) {
	out, err := f.Primary.Summarize(ctx, prompt)
	if err == nil && strings.TrimSpace(out) != "" {
		return out, nil
	}
	return f.Secondary.Summarize(ctx, prompt)
}

// SummaryPrompt builds the corpus summarization prompt.
func SummaryPrompt(company, corpus string, words int) string {
	return fmt.Sprintf(
		"Summarize the following news articles about %s in approximately %d words. Focus on the overall sentiment and key topics:\n%s",
		company, words, corpus)
}

// TranslatePrompt builds the translate-and-summarize prompt used before
// narrating in a non-English language.
func TranslatePrompt(company, text, languageName string) string {
	return fmt.Sprintf(
		"Translate and summarize the following text about %s to %s. Keep the main points and key insights:\n\n%s",
		company, languageName, text)
}
