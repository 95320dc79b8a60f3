// Package speech converts summaries into audio narration. The concrete
// backend is the public Google Translate TTS endpoint, which returns
// MP3 audio for short text chunks; longer texts are chunked on sentence
// boundaries and the audio concatenated.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/newslens-ai/newslens/pkg/utils"
)

// Errors returned by the narration backend.
var (
	ErrUnsupportedLanguage = errors.New("speech: unsupported language")
	ErrTTSFailed           = errors.New("speech: TTS request failed")
)

// maxChunkRunes is the longest text the TTS endpoint accepts per request.
const maxChunkRunes = 200

// Language is a supported narration language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// languages lists supported narration languages in display order.
var languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "Hindi"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "zh-cn", Name: "Chinese"},
}

// SupportedLanguages returns the narration language table.
func SupportedLanguages() []Language {
	return append([]Language(nil), languages...)
}

// LanguageName resolves a language code to its display name.
func LanguageName(code string) (string, bool) {
	for _, l := range languages {
		if l.Code == code {
			return l.Name, true
		}
	}
	return "", false
}

// FallbackMessage returns a canned one-line summary notice in the
// target language, narrated when translation of the real summary fails.
func FallbackMessage(company, code string) string {
	switch code {
	case "hi":
		return company + " के बारे में समाचार सारांश। यह एक स्थानीय रूप से उत्पन्न संदेश है क्योंकि अनुवाद API उपलब्ध नहीं थी।"
	case "es":
		return "Resumen de noticias sobre " + company + ". Este es un mensaje generado localmente porque la API de traducción no estaba disponible."
	case "fr":
		return "Résumé des nouvelles sur " + company + ". Il s'agit d'un message généré localement car l'API de traduction n'était pas disponible."
	case "de":
		return "Nachrichtenzusammenfassung über " + company + ". Dies ist eine lokal generierte Nachricht, da die Übersetzungs-API nicht verfügbar war."
	case "zh-cn":
		return "关于" + company + "的新闻摘要。这是一条本地生成的消息，因为翻译API不可用。"
	default:
		return "News summary about " + company + ". This is a locally generated message as the translation API was not available."
	}
}

// Narrator converts text in a given language into an audio artifact and
// returns the path of the written file.
type Narrator interface {
	Narrate(ctx context.Context, text, language string) (string, error)
}

// GoogleTTS implements Narrator against the Google Translate TTS
// endpoint.
type GoogleTTS struct {
	baseURL   string
	outputDir string
	client    *http.Client
}

// TTSOption configures the GoogleTTS backend.
type TTSOption func(*GoogleTTS)

// WithTTSBaseURL sets a custom endpoint base URL (tests, proxies).
func WithTTSBaseURL(u string) TTSOption {
	return func(g *GoogleTTS) { g.baseURL = strings.TrimRight(u, "/") }
}

// WithOutputDir sets the directory audio files are written to.
func WithOutputDir(dir string) TTSOption {
	return func(g *GoogleTTS) { g.outputDir = dir }
}

// WithTTSHTTPClient sets a custom HTTP client.
func WithTTSHTTPClient(client *http.Client) TTSOption {
	return func(g *GoogleTTS) { g.client = client }
}

// NewGoogleTTS creates a Google Translate TTS narrator writing MP3
// files into the system temp directory by default.
func NewGoogleTTS(opts ...TTSOption) *GoogleTTS {
	g := &GoogleTTS{
		baseURL:   "https://translate.google.com",
		outputDir: os.TempDir(),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Narrate synthesizes text into an MP3 file and returns its path.
func (g *GoogleTTS) Narrate(ctx context.Context, text, language string) (string, error) {
	if _, ok := LanguageName(language); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty text", ErrTTSFailed)
	}

	out, err := os.CreateTemp(g.outputDir, "newslens-*.mp3")
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	defer out.Close()

	for _, chunk := range chunkText(text, maxChunkRunes) {
		audio, err := g.fetchChunk(ctx, chunk, language)
		if err != nil {
			os.Remove(out.Name())
			return "", err
		}
		if _, err := out.Write(audio); err != nil {
			os.Remove(out.Name())
			return "", fmt.Errorf("write audio file: %w", err)
		}
	}

	return out.Name(), nil
}

// fetchChunk requests audio for a single text chunk.
func (g *GoogleTTS) fetchChunk(ctx context.Context, chunk, language string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", language)
	q.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTTSFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTTSFailed, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// chunkText splits text into chunks of at most limit runes, preferring
// sentence boundaries. A single oversized sentence is split mid-word.
func chunkText(text string, limit int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
		currentLen = 0
	}

	for _, sentence := range utils.SplitSentences(text) {
		runes := []rune(sentence)

		// Hard-split sentences longer than the limit.
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}

		if currentLen > 0 && currentLen+1+len(runes) > limit {
			flush()
		}
		if currentLen > 0 {
			current.WriteRune(' ')
			currentLen++
		}
		current.WriteString(string(runes))
		currentLen += len(runes)
	}
	flush()
	return chunks
}
