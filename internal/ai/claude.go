package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// claudeGenerator calls Claude (Anthropic) as an alternative provider.
type claudeGenerator struct {
	client    *anthropic.Client
	logger    *slog.Logger
	model     string
	maxTokens int
}

func newClaudeGenerator(logger *slog.Logger, cfg Config) *claudeGenerator {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.ClaudeAPIKey),
	)

	model := cfg.ClaudeModel
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}

	return &claudeGenerator{
		client:    &client,
		logger:    logger,
		model:     model,
		maxTokens: cfg.MaxTokens,
	}
}

// generate sends the prompt as a single user message and concatenates the
// text blocks of the reply.
func (g *claudeGenerator) generate(ctx context.Context, prompt string) (string, error) {
	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling claude: %w", err)
	}

	var responseText string
	for _, content := range message.Content {
		if content.Type == "text" {
			responseText += content.Text
		}
	}
	if responseText == "" {
		return "", fmt.Errorf("claude response missing candidate text")
	}

	g.logger.Debug("claude call complete",
		slog.Int("input_tokens", int(message.Usage.InputTokens)),
		slog.Int("output_tokens", int(message.Usage.OutputTokens)))

	return responseText, nil
}
