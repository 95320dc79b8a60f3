// Package config handles configuration loading for NewsLens.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	News    NewsConfig    `mapstructure:"news"    yaml:"news"`
	LLM     LLMConfig     `mapstructure:"llm"     yaml:"llm"`
	Summary SummaryConfig `mapstructure:"summary" yaml:"summary"`
	TTS     TTSConfig     `mapstructure:"tts"     yaml:"tts"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// NewsConfig holds news fetching settings.
type NewsConfig struct {
	MaxArticles       int `mapstructure:"max_articles"        yaml:"max_articles"`
	CacheTTLSec       int `mapstructure:"cache_ttl_sec"       yaml:"cache_ttl_sec"`
	RequestsPerSecond int `mapstructure:"requests_per_second" yaml:"requests_per_second"`
}

// LLMConfig holds the Groq summarization backend configuration.
type LLMConfig struct {
	GroqKey     string  `mapstructure:"groq_key"    yaml:"groq_key"`
	BaseURL     string  `mapstructure:"base_url"    yaml:"base_url"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"  yaml:"max_tokens"`
}

// SummaryConfig holds summary generation settings.
type SummaryConfig struct {
	DefaultWords int `mapstructure:"default_words" yaml:"default_words"`
	ShortWords   int `mapstructure:"short_words"   yaml:"short_words"`
	MediumWords  int `mapstructure:"medium_words"  yaml:"medium_words"`
	LongWords    int `mapstructure:"long_words"    yaml:"long_words"`
}

// TTSConfig holds audio narration settings.
type TTSConfig struct {
	Enabled         bool   `mapstructure:"enabled"          yaml:"enabled"`
	DefaultLanguage string `mapstructure:"default_language" yaml:"default_language"`
	OutputDir       string `mapstructure:"output_dir"       yaml:"output_dir"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.newslens/config.yaml (home directory)
//  3. /etc/newslens/config.yaml (system)
//
// Environment variables override config file values.
// Format: NEWSLENS_<SECTION>_<KEY>, e.g., NEWSLENS_LLM_GROQ_KEY.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".newslens"))
	v.AddConfigPath("/etc/newslens")

	v.SetEnvPrefix("NEWSLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("NEWSLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// News defaults
	v.SetDefault("news.max_articles", 10)
	v.SetDefault("news.cache_ttl_sec", 600)
	v.SetDefault("news.requests_per_second", 2)

	// LLM defaults
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "mixtral-8x7b-32768")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 500)

	// Summary defaults
	v.SetDefault("summary.default_words", 400)
	v.SetDefault("summary.short_words", 150)
	v.SetDefault("summary.medium_words", 400)
	v.SetDefault("summary.long_words", 800)

	// TTS defaults
	v.SetDefault("tts.enabled", true)
	v.SetDefault("tts.default_language", "en")
	v.SetDefault("tts.output_dir", os.TempDir())

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv applies well-known bare environment variables that
// take precedence over everything else. GROQ_API_KEY is honored for
// compatibility with the usual Groq setup instructions.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.LLM.GroqKey = key
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
