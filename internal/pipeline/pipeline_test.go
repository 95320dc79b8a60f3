package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/newslens-ai/newslens/internal/speech"
	"github.com/newslens-ai/newslens/pkg/models"
)

type stubFetcher struct {
	articles []models.Article
	err      error
}

func (s stubFetcher) FetchCompanyNews(context.Context, string) ([]models.Article, error) {
	return s.articles, s.err
}

// scriptedSummarizer returns its responses in call order; once exhausted
// it keeps returning the last one.
type scriptedSummarizer struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (s *scriptedSummarizer) Summarize(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	i := s.calls
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	s.calls++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return s.responses[i], err
}

type stubNarrator struct {
	path     string
	err      error
	text     string
	language string
	calls    int
}

func (s *stubNarrator) Narrate(_ context.Context, text, language string) (string, error) {
	s.calls++
	s.text = text
	s.language = language
	return s.path, s.err
}

func sampleArticles() []models.Article {
	return []models.Article{
		{
			Title:   "Shares surge on strong profit",
			Summary: "Shares surge after strong profit growth this quarter.",
			Source:  "Reuters",
		},
		{
			Title:   "Regulators act against the company",
			Summary: "Regulators open a fraud lawsuit against the company.",
			Source:  "Bloomberg",
		},
		{
			Title:   "Annual meeting scheduled",
			Summary: "The company will hold its annual meeting next month.",
			Source:  "PTI",
		},
	}
}

func newTestPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Config{Summarizer: &scriptedSummarizer{responses: []string{""}}}); err == nil {
		t.Error("expected error without fetcher")
	}
	if _, err := New(Config{Fetcher: stubFetcher{}}); err == nil {
		t.Error("expected error without summarizer")
	}
}

func TestRunFullReport(t *testing.T) {
	summ := &scriptedSummarizer{responses: []string{"  A comprehensive summary.  "}}
	p := newTestPipeline(t, Config{
		Fetcher:    stubFetcher{articles: sampleArticles()},
		Summarizer: summ,
	})

	var stages []string
	var lastPercent int
	report, err := p.Run(context.Background(), Request{Company: "  Tesla   Motors "}, func(stage string, percent int) {
		stages = append(stages, stage)
		if percent < lastPercent {
			t.Errorf("progress went backwards: %d after %d", percent, lastPercent)
		}
		lastPercent = percent
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Company != "Tesla Motors" {
		t.Errorf("company = %q", report.Company)
	}
	if report.ArticleCount != 3 || len(report.Articles) != 3 {
		t.Errorf("article count = %d / %d", report.ArticleCount, len(report.Articles))
	}
	if report.ComprehensiveSummary != "A comprehensive summary." {
		t.Errorf("summary = %q", report.ComprehensiveSummary)
	}
	if report.SummaryLanguage != "en" {
		t.Errorf("language = %q", report.SummaryLanguage)
	}
	if report.AudioPath != "" {
		t.Errorf("audio path = %q, want none without narration", report.AudioPath)
	}
	if report.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}

	// Articles get sentiment labels and topics before analysis.
	if got := report.Articles[0].Sentiment; got != models.SentimentPositive {
		t.Errorf("article 0 sentiment = %q", got)
	}
	if got := report.Articles[1].Sentiment; got != models.SentimentNegative {
		t.Errorf("article 1 sentiment = %q", got)
	}
	if got := report.Articles[2].Sentiment; got != models.SentimentNeutral {
		t.Errorf("article 2 sentiment = %q", got)
	}
	for i, a := range report.Articles {
		if len(a.Topics) == 0 {
			t.Errorf("article %d has no topics", i)
		}
	}

	dist := report.ComparativeAnalysis.SentimentDistribution
	if dist[models.SentimentPositive] != 1 || dist[models.SentimentNegative] != 1 || dist[models.SentimentNeutral] != 1 {
		t.Errorf("distribution = %v", dist)
	}

	if len(stages) == 0 || stages[len(stages)-1] != "done" || lastPercent != 100 {
		t.Errorf("stages = %v, last percent = %d", stages, lastPercent)
	}

	// The summarizer prompt carries the article corpus.
	if len(summ.prompts) != 1 || !strings.Contains(summ.prompts[0], "Title: Shares surge on strong profit") {
		t.Errorf("prompt = %q", summ.prompts)
	}
}

func TestRunBlankCompany(t *testing.T) {
	p := newTestPipeline(t, Config{
		Fetcher:    stubFetcher{},
		Summarizer: &scriptedSummarizer{responses: []string{""}},
	})
	if _, err := p.Run(context.Background(), Request{Company: "   "}, nil); err == nil {
		t.Error("expected error for blank company")
	}
}

func TestRunFetchErrorPropagates(t *testing.T) {
	fetchErr := errors.New("feed unavailable")
	p := newTestPipeline(t, Config{
		Fetcher:    stubFetcher{err: fetchErr},
		Summarizer: &scriptedSummarizer{responses: []string{""}},
	})
	if _, err := p.Run(context.Background(), Request{Company: "Tesla"}, nil); !errors.Is(err, fetchErr) {
		t.Errorf("err = %v, want wrapped fetch error", err)
	}
}

func TestRunSummarizerFailureUsesStats(t *testing.T) {
	p := newTestPipeline(t, Config{
		Fetcher:    stubFetcher{articles: sampleArticles()},
		Summarizer: &scriptedSummarizer{responses: []string{""}, errs: []error{fmt.Errorf("boom")}},
	})

	report, err := p.Run(context.Background(), Request{Company: "Tesla"}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(report.ComprehensiveSummary, "News analysis for Tesla based on 3 recent articles.") {
		t.Errorf("fallback summary = %q", report.ComprehensiveSummary)
	}
	if !strings.Contains(report.ComprehensiveSummary, "The overall sentiment is") {
		t.Errorf("fallback summary missing sentiment: %q", report.ComprehensiveSummary)
	}
}

func TestRunNarratesEnglishSummary(t *testing.T) {
	narr := &stubNarrator{path: "/tmp/out.mp3"}
	p := newTestPipeline(t, Config{
		Fetcher:    stubFetcher{articles: sampleArticles()},
		Summarizer: &scriptedSummarizer{responses: []string{"English summary."}},
		Narrator:   narr,
	})

	report, err := p.Run(context.Background(), Request{Company: "Tesla", Narrate: true}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.AudioPath != "/tmp/out.mp3" {
		t.Errorf("audio path = %q", report.AudioPath)
	}
	if narr.text != "English summary." || narr.language != "en" {
		t.Errorf("narrated %q in %q", narr.text, narr.language)
	}
}

func TestRunTranslatesBeforeNarration(t *testing.T) {
	summ := &scriptedSummarizer{responses: []string{"English summary.", "हिंदी सारांश।"}}
	narr := &stubNarrator{path: "/tmp/out.mp3"}
	p := newTestPipeline(t, Config{
		Fetcher:    stubFetcher{articles: sampleArticles()},
		Summarizer: summ,
		Narrator:   narr,
	})

	report, err := p.Run(context.Background(), Request{Company: "Tesla", Language: "hi", Narrate: true}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if narr.text != "हिंदी सारांश।" || narr.language != "hi" {
		t.Errorf("narrated %q in %q", narr.text, narr.language)
	}
	// The report keeps the original summary; only the narration is translated.
	if report.ComprehensiveSummary != "English summary." {
		t.Errorf("summary = %q", report.ComprehensiveSummary)
	}
	if len(summ.prompts) != 2 || !strings.Contains(summ.prompts[1], "to Hindi") {
		t.Errorf("translation prompt = %q", summ.prompts)
	}
}

func TestRunTranslationFailureUsesCannedMessage(t *testing.T) {
	summ := &scriptedSummarizer{
		responses: []string{"English summary.", ""},
		errs:      []error{nil, fmt.Errorf("llm down")},
	}
	narr := &stubNarrator{path: "/tmp/out.mp3"}
	p := newTestPipeline(t, Config{
		Fetcher:    stubFetcher{articles: sampleArticles()},
		Summarizer: summ,
		Narrator:   narr,
	})

	if _, err := p.Run(context.Background(), Request{Company: "Tesla", Language: "es", Narrate: true}, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if narr.text != speech.FallbackMessage("Tesla", "es") {
		t.Errorf("narrated %q, want canned Spanish message", narr.text)
	}
}

func TestRunNarrationFailureIsNotFatal(t *testing.T) {
	narr := &stubNarrator{err: fmt.Errorf("tts down")}
	p := newTestPipeline(t, Config{
		Fetcher:    stubFetcher{articles: sampleArticles()},
		Summarizer: &scriptedSummarizer{responses: []string{"Summary."}},
		Narrator:   narr,
	})

	report, err := p.Run(context.Background(), Request{Company: "Tesla", Narrate: true}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.AudioPath != "" {
		t.Errorf("audio path = %q, want empty after narration failure", report.AudioPath)
	}
	if narr.calls != 1 {
		t.Errorf("narrator calls = %d", narr.calls)
	}
}

func TestStatsSummaryEmptyArticles(t *testing.T) {
	got := statsSummary("Tesla", nil, models.AnalysisResult{
		SentimentDistribution: map[string]int{},
		TopicOverlap:          models.TopicOverlap{TopicFrequency: map[string]int{}},
	})
	if !strings.Contains(got, "0 recent articles") || !strings.Contains(got, "neutral") {
		t.Errorf("stats summary = %q", got)
	}
	if !strings.Contains(got, "general news") {
		t.Errorf("stats summary = %q", got)
	}
}
