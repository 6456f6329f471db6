// Package ai implements the extraction client: a provider-switched
// generative-text call, lenient JSON parsing of the model output, and a
// bounded retry around both.
package ai

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// Config holds configuration for the extraction client.
type Config struct {
	// Provider is "gemini", "claude", or "mock".
	Provider string

	// Gemini configuration
	GeminiAPIKey string
	GeminiModel  string // e.g. "gemini-1.5-flash"

	// Claude/Anthropic configuration
	ClaudeAPIKey string
	ClaudeModel  string // e.g. "claude-3-5-haiku-20241022"

	// Common settings
	MaxTokens int
	Timeout   time.Duration
}

// textGenerator produces one candidate text per prompt. An error covers both
// transport failures and a response envelope missing the expected nested
// structure; either way the extractor treats the attempt as retryable.
type textGenerator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// NewExtractor creates an extraction client based on the provider
// configuration.
func NewExtractor(logger *slog.Logger, cfg Config) authinbox.Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}

	var gen textGenerator
	switch cfg.Provider {
	case "claude":
		gen = newClaudeGenerator(logger, cfg)
	case "mock":
		gen = newMockGenerator(logger)
	default:
		gen = newGeminiGenerator(logger, cfg)
	}

	return &extractor{
		gen:     gen,
		logger:  logger,
		backoff: retryBackoff,
	}
}

// newHTTPClient returns the outbound client used by REST providers. The
// explicit timeout keeps a wedged upstream from hanging a pipeline run.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
