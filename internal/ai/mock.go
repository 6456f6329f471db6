package ai

import (
	"context"
	"log/slog"
)

// mockGenerator is a canned provider for development and testing.
type mockGenerator struct {
	logger *slog.Logger
}

func newMockGenerator(logger *slog.Logger) *mockGenerator {
	return &mockGenerator{logger: logger}
}

// generate returns a fixed codeExist=0 answer so a dev deployment exercises
// the full pipeline without an API key.
func (g *mockGenerator) generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Info("MOCK AI: returning empty extraction",
		slog.Int("prompt_len", len(prompt)))
	return `{"codeExist": 0}`, nil
}
