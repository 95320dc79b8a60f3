package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// GroqClient implements Summarizer against Groq's OpenAI-compatible
// Chat Completions API.
type GroqClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// GroqOption configures the Groq client.
type GroqOption func(*GroqClient)

// WithGroqBaseURL sets a custom base URL (e.g., for proxies or tests).
func WithGroqBaseURL(url string) GroqOption {
	return func(c *GroqClient) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithGroqModel sets the model.
func WithGroqModel(model string) GroqOption {
	return func(c *GroqClient) { c.model = model }
}

// WithGroqTemperature sets the sampling temperature.
func WithGroqTemperature(t float64) GroqOption {
	return func(c *GroqClient) { c.temperature = t }
}

// WithGroqMaxTokens sets the completion token budget.
func WithGroqMaxTokens(n int) GroqOption {
	return func(c *GroqClient) { c.maxTokens = n }
}

// WithGroqHTTPClient sets a custom HTTP client.
func WithGroqHTTPClient(client *http.Client) GroqOption {
	return func(c *GroqClient) { c.client = client }
}

// NewGroqClient creates a Groq summarizer client.
func NewGroqClient(apiKey string, opts ...GroqOption) (*GroqClient, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	c := &GroqClient{
		apiKey:      apiKey,
		baseURL:     "https://api.groq.com/openai/v1",
		model:       "mixtral-8x7b-32768",
		temperature: 0.7,
		maxTokens:   500,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the backend identifier.
func (c *GroqClient) Name() string { return "groq" }

// Ping verifies the API key by listing models.
func (c *GroqClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: invalid API key", ErrNoAPIKey)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrProviderDown, resp.StatusCode)
	}
	return nil
}

// Summarize sends the prompt as a single user message and returns the
// completion text.
func (c *GroqClient) Summarize(ctx context.Context, prompt string) (string, error) {
	body := groqChatRequest{
		Model:       c.model,
		Messages:    []groqMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("groq: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return "", err
	}

	var result groqChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("groq: decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// checkError maps HTTP error statuses to typed errors.
func (c *GroqClient) checkError(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: invalid API key", ErrNoAPIKey)
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimit
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrProviderDown, resp.StatusCode)
	case resp.StatusCode >= 400:
		var apiErr groqErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("groq: %s", apiErr.Error.Message)
		}
		return fmt.Errorf("groq: status %d", resp.StatusCode)
	}
	return nil
}

// ── Wire types ──

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type groqChatResponse struct {
	Choices []struct {
		Message groqMessage `json:"message"`
	} `json:"choices"`
}

type groqErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
