package config

import "os"

// APIKeySource represents where an API key comes from.
type APIKeySource string

const (
	KeySourceEnv    APIKeySource = "env"
	KeySourceConfig APIKeySource = "config"
	KeySourceNone   APIKeySource = "none"
)

// KeyStatus represents the status of an API key.
type KeyStatus struct {
	Name   string       `json:"name"`
	Source APIKeySource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"` // e.g., "gsk...abc"
}

// CheckAPIKeys returns the status of all API keys the system can use.
// The Groq key is the only one; everything else runs offline with
// local fallbacks.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	return []KeyStatus{
		checkKey("Groq API Key", cfg.LLM.GroqKey, "GROQ_API_KEY", "NEWSLENS_LLM_GROQ_KEY"),
	}
}

// checkKey checks if a key is set and where it came from.
func checkKey(name, value string, envVars ...string) KeyStatus {
	status := KeyStatus{
		Name:  name,
		IsSet: value != "",
	}

	if value == "" {
		status.Source = KeySourceNone
		return status
	}

	status.Source = KeySourceConfig
	for _, env := range envVars {
		if os.Getenv(env) != "" {
			status.Source = KeySourceEnv
			break
		}
	}
	status.Masked = maskKey(value)
	return status
}

// maskKey masks an API key for display, showing only first 3 and last 3 chars.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
