// NewsLens — Company News Sentiment & Comparative Analysis
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/newslens-ai/newslens/api"
	"github.com/newslens-ai/newslens/internal/config"
	"github.com/newslens-ai/newslens/internal/datasource"
	"github.com/newslens-ai/newslens/internal/pipeline"
	"github.com/newslens-ai/newslens/internal/speech"
	"github.com/newslens-ai/newslens/internal/summarize"
	"github.com/newslens-ai/newslens/internal/topics"
	"github.com/newslens-ai/newslens/pkg/models"
	"github.com/newslens-ai/newslens/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "newslens",
	Short: "NewsLens — Company News Sentiment & Comparative Analysis",
	Long: `NewsLens fetches recent news coverage for a company, labels each
article's sentiment, classifies coverage topics, and builds a
comparative analysis of how different outlets frame the story, with an
LLM-generated summary and optional audio narration.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// buildPipeline wires the production collaborators from config.
func buildPipeline() (*pipeline.Pipeline, error) {
	fetcher := datasource.NewGoogleNews(
		datasource.WithMaxArticles(cfg.News.MaxArticles),
		datasource.WithCacheTTL(time.Duration(cfg.News.CacheTTLSec)*time.Second),
		datasource.WithRequestRate(cfg.News.RequestsPerSecond),
	)

	var summarizer summarize.Summarizer = summarize.Local{}
	if cfg.LLM.GroqKey != "" {
		groq, err := summarize.NewGroqClient(cfg.LLM.GroqKey,
			summarize.WithGroqBaseURL(cfg.LLM.BaseURL),
			summarize.WithGroqModel(cfg.LLM.Model),
			summarize.WithGroqTemperature(cfg.LLM.Temperature),
			summarize.WithGroqMaxTokens(cfg.LLM.MaxTokens),
		)
		if err != nil {
			return nil, err
		}
		summarizer = summarize.Fallback{Primary: groq, Secondary: summarize.Local{}}
	}

	var narrator speech.Narrator
	if cfg.TTS.Enabled {
		narrator = speech.NewGoogleTTS(speech.WithOutputDir(cfg.TTS.OutputDir))
	}

	return pipeline.New(pipeline.Config{
		Fetcher:         fetcher,
		Summarizer:      summarizer,
		Narrator:        narrator,
		DefaultLanguage: cfg.TTS.DefaultLanguage,
		DefaultWords:    cfg.Summary.DefaultWords,
	})
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("NewsLens %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [company]",
	Short: "Analyze news coverage for a company",
	Long: `Fetch recent news about a company, classify sentiment and topics,
build the comparative analysis, and print the report.

Examples:
  newslens analyze Tesla
  newslens analyze "Tata Motors" --words 800
  newslens analyze Apple --language hi --audio
  newslens analyze Tesla --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		company := args[0]
		language, _ := cmd.Flags().GetString("language")
		words, _ := cmd.Flags().GetInt("words")
		audio, _ := cmd.Flags().GetBool("audio")
		asJSON, _ := cmd.Flags().GetBool("json")

		pipe, err := buildPipeline()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		progress := func(stage string, percent int) {
			if !asJSON {
				fmt.Printf("  [%3d%%] %s\n", percent, stage)
			}
		}

		report, err := pipe.Run(ctx, pipeline.Request{
			Company:      company,
			Language:     language,
			SummaryWords: words,
			Narrate:      audio,
		}, progress)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		printReport(report)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("language", "", "summary/narration language code (en, hi, es, fr, de, zh-cn)")
	analyzeCmd.Flags().Int("words", 0, "target summary length in words")
	analyzeCmd.Flags().Bool("audio", false, "narrate the summary as an MP3 file")
	analyzeCmd.Flags().Bool("json", false, "print the raw report as JSON")
}

// printReport renders a report for the terminal.
func printReport(report *models.Report) {
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("  NewsLens Report: %s\n", report.Company)
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("  Articles analyzed: %d\n", report.ArticleCount)
	fmt.Println()

	fmt.Println("  Sentiment Distribution:")
	percentages := report.SentimentPercentages()
	labels := make([]string, 0, len(report.ComparativeAnalysis.SentimentDistribution))
	for label := range report.ComparativeAnalysis.SentimentDistribution {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Printf("    %-10s %3d  (%.1f%%)\n", label, report.ComparativeAnalysis.SentimentDistribution[label], percentages[label])
	}
	fmt.Println()

	overlap := report.ComparativeAnalysis.TopicOverlap
	fmt.Println("  Topics:")
	for _, topic := range overlap.AllTopics {
		fmt.Printf("    %-14s %d article(s)\n", topic, overlap.TopicFrequency[topic])
	}
	if len(overlap.CommonTopics) > 0 {
		fmt.Printf("  Common across all articles: %v\n", overlap.CommonTopics)
	}
	fmt.Println()

	if len(report.ComparativeAnalysis.CoverageDifferences) > 0 {
		fmt.Println("  Coverage Differences:")
		for _, c := range report.ComparativeAnalysis.CoverageDifferences {
			fmt.Printf("    • %s\n", c.Comparison)
			fmt.Printf("      %s\n", c.Impact)
		}
		fmt.Println()
	}

	fmt.Println("  Articles:")
	for _, a := range report.Articles {
		fmt.Printf("    [%s] %s\n", a.Sentiment, a.Title)
		fmt.Printf("        %s\n", utils.TruncateWords(a.Summary, 25))
		fmt.Printf("        %s · %s\n", a.Source, a.Link)
	}
	fmt.Println()

	fmt.Println("  Summary:")
	fmt.Printf("    %s\n", report.ComprehensiveSummary)

	if report.AudioPath != "" {
		fmt.Println()
		fmt.Printf("  Audio narration: %s\n", report.AudioPath)
	}
	fmt.Println("═══════════════════════════════════════")
}

// --- Topics Command ---

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Show the topic taxonomy and trigger keywords",
	Run: func(cmd *cobra.Command, args []string) {
		taxonomy := topics.Taxonomy()
		for _, topic := range topics.All() {
			fmt.Printf("%s\n", topic)
			for _, kw := range taxonomy[topic] {
				fmt.Printf("  - %s\n", kw)
			}
		}
	},
}

// --- Languages Command ---

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported narration languages",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range speech.SupportedLanguages() {
			fmt.Printf("  %-7s %s\n", l.Code, l.Name)
		}
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server with the embedded dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := api.NewServer(cfg, version)
		if err != nil {
			return err
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			srv.SetServeUI(false)
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting NewsLens API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().Bool("no-ui", false, "disable the embedded web dashboard")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  NewsLens — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Printf("  Time (UTC):  %s\n", time.Now().UTC().Format("2006-01-02 15:04:05"))
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    LLM Model:     %s\n", cfg.LLM.Model)
		fmt.Printf("    Max Articles:  %d\n", cfg.News.MaxArticles)
		fmt.Printf("    TTS Enabled:   %v (default: %s)\n", cfg.TTS.Enabled, cfg.TTS.DefaultLanguage)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set (local summarizer fallback active)"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-15s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
