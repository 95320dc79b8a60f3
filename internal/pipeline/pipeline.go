// Package pipeline runs the end-to-end analysis for one company: fetch
// news, label sentiment, classify topics, compare coverage, summarize,
// and optionally narrate the summary as audio.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/newslens-ai/newslens/internal/analysis"
	"github.com/newslens-ai/newslens/internal/sentiment"
	"github.com/newslens-ai/newslens/internal/speech"
	"github.com/newslens-ai/newslens/internal/summarize"
	"github.com/newslens-ai/newslens/internal/topics"
	"github.com/newslens-ai/newslens/pkg/models"
	"github.com/newslens-ai/newslens/pkg/utils"
)

// Fetcher retrieves recent news articles for a company.
type Fetcher interface {
	FetchCompanyNews(ctx context.Context, company string) ([]models.Article, error)
}

// ProgressFunc receives stage updates while a run is in flight. percent
// is 0-100; stage is a short machine-readable name.
type ProgressFunc func(stage string, percent int)

// Request describes one analysis run.
type Request struct {
	Company      string
	Language     string // summary/narration language code, default "en"
	SummaryWords int    // target summary length, default from Config
	Narrate      bool   // synthesize the summary as audio
}

// Config wires the pipeline's collaborators.
type Config struct {
	Fetcher    Fetcher
	Summarizer summarize.Summarizer
	Narrator   speech.Narrator // nil disables narration

	DefaultLanguage string // default "en"
	DefaultWords    int    // default 400
	Logger          *log.Logger
}

// Pipeline orchestrates one analysis run per call. Safe for concurrent
// use; all state lives in the request.
type Pipeline struct {
	fetcher    Fetcher
	summarizer summarize.Summarizer
	narrator   speech.Narrator

	defaultLanguage string
	defaultWords    int
	logger          *log.Logger
}

// New creates a Pipeline from cfg. Fetcher and Summarizer are required.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("pipeline: fetcher is required")
	}
	if cfg.Summarizer == nil {
		return nil, fmt.Errorf("pipeline: summarizer is required")
	}

	p := &Pipeline{
		fetcher:         cfg.Fetcher,
		summarizer:      cfg.Summarizer,
		narrator:        cfg.Narrator,
		defaultLanguage: cfg.DefaultLanguage,
		defaultWords:    cfg.DefaultWords,
		logger:          cfg.Logger,
	}
	if p.defaultLanguage == "" {
		p.defaultLanguage = "en"
	}
	if p.defaultWords <= 0 {
		p.defaultWords = 400
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	return p, nil
}

// Run executes the full pipeline and returns the report. progress may
// be nil.
func (p *Pipeline) Run(ctx context.Context, req Request, progress ProgressFunc) (*models.Report, error) {
	company := utils.NormalizeCompany(req.Company)
	if company == "" {
		return nil, fmt.Errorf("pipeline: company name is required")
	}
	language := req.Language
	if language == "" {
		language = p.defaultLanguage
	}
	words := req.SummaryWords
	if words <= 0 {
		words = p.defaultWords
	}
	notify := progress
	if notify == nil {
		notify = func(string, int) {}
	}

	notify("fetch", 10)
	articles, err := p.fetcher.FetchCompanyNews(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("fetch news for %q: %w", company, err)
	}
	p.logger.Printf("pipeline: fetched %d articles for %q", len(articles), company)
	notify("fetch", 25)

	// Label sentiment and classify topics before the comparative pass.
	for i := range articles {
		articles[i].Sentiment = sentiment.LabelArticle(articles[i])
		articles[i].Topics = topics.Classify(articles[i].Text())
	}
	notify("classify", 50)

	result := analysis.Analyze(articles)
	notify("analyze", 60)

	summary := p.summarize(ctx, company, articles, result, words)
	notify("summarize", 80)

	report := &models.Report{
		Company:              company,
		Articles:             articles,
		ComparativeAnalysis:  result,
		ComprehensiveSummary: summary,
		SummaryLanguage:      language,
		ArticleCount:         len(articles),
		GeneratedAt:          time.Now().UTC(),
	}

	if req.Narrate && p.narrator != nil {
		report.AudioPath = p.narrate(ctx, company, summary, language)
	}
	notify("done", 100)

	return report, nil
}

// summarize builds the article corpus, asks the summarizer for a
// comprehensive summary, and falls back to a basic statistics line when
// the backend fails or returns nothing.
func (p *Pipeline) summarize(ctx context.Context, company string, articles []models.Article, result models.AnalysisResult, words int) string {
	prompt := summarize.SummaryPrompt(company, corpusText(articles), words)

	summary, err := p.summarizer.Summarize(ctx, prompt)
	if err != nil {
		p.logger.Printf("pipeline: summarizer failed for %q: %v", company, err)
	}
	if s := strings.TrimSpace(summary); s != "" {
		p.logger.Printf("pipeline: summary for %q is %d words", company, utils.CountWords(s))
		return s
	}
	return statsSummary(company, articles, result)
}

// narrate synthesizes the summary audio, translating first for
// non-English languages. Narration failures are not fatal; the report
// simply ships without audio.
func (p *Pipeline) narrate(ctx context.Context, company, summary, language string) string {
	text := summary
	if language != "en" {
		name, ok := speech.LanguageName(language)
		if !ok {
			p.logger.Printf("pipeline: unsupported narration language %q", language)
			return ""
		}
		translated, err := p.summarizer.Summarize(ctx, summarize.TranslatePrompt(company, summary, name))
		if err != nil || strings.TrimSpace(translated) == "" {
			p.logger.Printf("pipeline: translation to %s failed, using fallback message", name)
			translated = speech.FallbackMessage(company, language)
		}
		text = translated
	}

	path, err := p.narrator.Narrate(ctx, text, language)
	if err != nil {
		p.logger.Printf("pipeline: narration failed for %q: %v", company, err)
		return ""
	}
	return path
}

// corpusText renders the articles as the plain-text corpus fed to the
// summarizer prompt.
func corpusText(articles []models.Article) string {
	var b strings.Builder
	for _, a := range articles {
		fmt.Fprintf(&b, "Title: %s\n", a.Title)
		fmt.Fprintf(&b, "Summary: %s\n", a.Summary)
		fmt.Fprintf(&b, "Source: %s\n", a.Source)
		fmt.Fprintf(&b, "Sentiment: %s\n", a.Sentiment)
		fmt.Fprintf(&b, "Topics: %s\n\n", strings.Join(a.Topics, ", "))
	}
	return strings.TrimSpace(b.String())
}

// statsSummary is the last-resort summary built from the analysis
// itself when no summarizer backend produced text.
func statsSummary(company string, articles []models.Article, result models.AnalysisResult) string {
	dominant := analysis.DominantSentiment(result.SentimentDistribution)
	if dominant == "" {
		dominant = models.SentimentNeutral
	}

	focus := result.TopicOverlap.AllTopics
	if len(focus) > 3 {
		focus = focus[:3]
	}
	focusText := strings.Join(focus, ", ")
	if focusText == "" {
		focusText = "general news"
	}

	return fmt.Sprintf("News analysis for %s based on %d recent articles. The overall sentiment is %s, with coverage focusing on %s.",
		company, len(articles), strings.ToLower(dominant), focusText)
}
