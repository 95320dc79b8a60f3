// Package api provides the HTTP REST API server for NewsLens.
//
// It exposes endpoints for company news analysis, the topic taxonomy,
// narration languages, audio retrieval, and WebSocket progress
// streaming, plus the embedded web dashboard.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/newslens-ai/newslens/internal/config"
	"github.com/newslens-ai/newslens/internal/datasource"
	"github.com/newslens-ai/newslens/internal/pipeline"
	"github.com/newslens-ai/newslens/internal/speech"
	"github.com/newslens-ai/newslens/internal/summarize"
	"github.com/newslens-ai/newslens/internal/topics"
	"github.com/newslens-ai/newslens/web"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	pipe     *pipeline.Pipeline
	wsHub    *WSHub
	audioDir string
	version  string
	serveUI  bool // when true, serve the embedded dashboard at /
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, version string) (*Server, error) {
	fetcher := datasource.NewGoogleNews(
		datasource.WithMaxArticles(cfg.News.MaxArticles),
		datasource.WithCacheTTL(time.Duration(cfg.News.CacheTTLSec)*time.Second),
		datasource.WithRequestRate(cfg.News.RequestsPerSecond),
	)

	summarizer, err := buildSummarizer(cfg)
	if err != nil {
		return nil, fmt.Errorf("summarizer setup failed: %w", err)
	}

	var narrator speech.Narrator
	if cfg.TTS.Enabled {
		narrator = speech.NewGoogleTTS(speech.WithOutputDir(cfg.TTS.OutputDir))
	}

	pipe, err := pipeline.New(pipeline.Config{
		Fetcher:         fetcher,
		Summarizer:      summarizer,
		Narrator:        narrator,
		DefaultLanguage: cfg.TTS.DefaultLanguage,
		DefaultWords:    cfg.Summary.DefaultWords,
	})
	if err != nil {
		return nil, err
	}

	srv := &Server{
		cfg:      cfg,
		pipe:     pipe,
		wsHub:    NewWSHub(),
		audioDir: cfg.TTS.OutputDir,
		version:  version,
		serveUI:  true,
	}
	srv.router = srv.buildRouter()
	return srv, nil
}

// buildSummarizer picks Groq with a local extractive fallback when an
// API key is configured, otherwise the local summarizer alone.
func buildSummarizer(cfg *config.Config) (summarize.Summarizer, error) {
	if cfg.LLM.GroqKey == "" {
		return summarize.Local{}, nil
	}
	groq, err := summarize.NewGroqClient(cfg.LLM.GroqKey,
		summarize.WithGroqBaseURL(cfg.LLM.BaseURL),
		summarize.WithGroqModel(cfg.LLM.Model),
		summarize.WithGroqTemperature(cfg.LLM.Temperature),
		summarize.WithGroqMaxTokens(cfg.LLM.MaxTokens),
	)
	if err != nil {
		return nil, err
	}
	return summarize.Fallback{Primary: groq, Secondary: summarize.Local{}}, nil
}

// SetServeUI controls whether the embedded dashboard is served.
// Must be called before ListenAndServe.
func (s *Server) SetServeUI(enabled bool) {
	s.serveUI = enabled
	s.router = s.buildRouter()
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(300 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/analyze", s.handleAnalyze)

		r.Get("/topics", s.handleTopics)
		r.Get("/languages", s.handleLanguages)

		r.Get("/config/keys", s.handleGetConfigKeys)

		r.Get("/audio/{file}", s.handleAudio)

		r.Get("/ws", s.handleWebSocket)
	})

	if s.serveUI {
		s.mountSPA(r, web.DistFS())
	}

	return r
}

// mountSPA serves the embedded dashboard as a single-page app. Unknown
// paths fall back to index.html for client-side routing.
func (s *Server) mountSPA(r chi.Router, distFS fs.FS) {
	fileServer := http.FileServer(http.FS(distFS))

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		rPath := strings.TrimPrefix(r.URL.Path, "/")
		if rPath == "" {
			rPath = "index.html"
		}

		f, err := distFS.Open(rPath)
		if err != nil {
			serveIndexHTML(w, distFS)
			return
		}
		f.Close()

		if rPath == "index.html" || strings.HasSuffix(rPath, ".html") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}

		fileServer.ServeHTTP(w, r)
	})
}

// serveIndexHTML reads and serves the embedded index.html for SPA fallback.
func serveIndexHTML(w http.ResponseWriter, distFS fs.FS) {
	data, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		http.Error(w, "web UI not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalyzeRequest is the body for POST /api/v1/analyze.
type AnalyzeRequest struct {
	Company      string `json:"company"`
	Language     string `json:"language,omitempty"`
	SummaryWords int    `json:"summary_words,omitempty"`
	Narrate      bool   `json:"narrate,omitempty"`
}

// TopicsResponse describes the topic taxonomy.
type TopicsResponse struct {
	Topics   []string            `json:"topics"`
	Keywords map[string][]string `json:"keywords"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":   "ok",
			"version":  s.version,
			"time_utc": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Company) == "" {
		writeError(w, http.StatusBadRequest, "company is required")
		return
	}
	if req.Language != "" {
		if _, ok := speech.LanguageName(req.Language); !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported language: %s", req.Language))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	progress := func(stage string, percent int) {
		s.wsHub.Broadcast(WSMessage{
			Type: "progress",
			Data: map[string]interface{}{
				"company": req.Company,
				"stage":   stage,
				"percent": percent,
			},
		})
	}

	report, err := s.pipe.Run(ctx, pipeline.Request{
		Company:      req.Company,
		Language:     req.Language,
		SummaryWords: req.SummaryWords,
		Narrate:      req.Narrate,
	}, progress)
	if err != nil {
		if errors.Is(err, datasource.ErrNoArticles) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no news articles found for %s", req.Company))
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	// Audio is fetched through the API, not by filesystem path.
	if report.AudioPath != "" {
		report.AudioPath = "/api/v1/audio/" + filepath.Base(report.AudioPath)
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]interface{}{
			"company":       report.Company,
			"article_count": report.ArticleCount,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: TopicsResponse{
			Topics:   topics.All(),
			Keywords: topics.Taxonomy(),
		},
	})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    speech.SupportedLanguages(),
	})
}

func (s *Server) handleGetConfigKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    config.CheckAPIKeys(s.cfg),
	})
}

// handleAudio streams a previously generated narration file. Only plain
// file names inside the audio directory are served.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeError(w, http.StatusBadRequest, "invalid audio file name")
		return
	}

	path := filepath.Join(s.audioDir, name)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "audio file not found")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
