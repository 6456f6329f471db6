package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/tidwall/gjson"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// geminiGenerator calls the Gemini generateContent REST endpoint.
type geminiGenerator struct {
	client    *http.Client
	logger    *slog.Logger
	apiKey    string
	model     string
	maxTokens int
}

func newGeminiGenerator(logger *slog.Logger, cfg Config) *geminiGenerator {
	model := cfg.GeminiModel
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &geminiGenerator{
		client:    newHTTPClient(cfg.Timeout),
		logger:    logger,
		apiKey:    cfg.GeminiAPIKey,
		model:     model,
		maxTokens: cfg.MaxTokens,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	Config   geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

// generate issues one generateContent call and returns the first candidate's
// text. The response body is read leniently: anything without the expected
// candidate path counts as a malformed envelope.
func (g *geminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		Config:   geminiGenConfig{MaxOutputTokens: g.maxTokens},
	})
	if err != nil {
		return "", fmt.Errorf("encoding gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiBaseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("gemini returned non-OK status",
			slog.Int("status", resp.StatusCode),
			slog.String("model", g.model))
		return "", fmt.Errorf("gemini API status %d", resp.StatusCode)
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() || text.String() == "" {
		return "", fmt.Errorf("gemini response missing candidate text")
	}

	return text.String(), nil
}
