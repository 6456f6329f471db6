package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// maxAttempts caps the total number of model calls per email.
const maxAttempts = 3

// retryBackoff is the pause between attempts.
const retryBackoff = 500 * time.Millisecond

const promptTemplate = `Read the following email and extract any verification code or verification link it contains, together with the organization that sent it.

Email content:
%s

Respond with a JSON object of this shape:
{"title": "<sending organization>", "code": "<verification code>", "link": "<verification link>", "topic": "<what the code or link is for>", "codeExist": 1}

Omit "code" or "link" if the email has only one of them. If the email contains no verification code or link, or is promotional, respond with only {"codeExist": 0}.`

// fencedJSON matches a markdown code fence labeled as JSON (label optional)
// and captures its interior.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

type extractor struct {
	gen     textGenerator
	logger  *slog.Logger
	backoff time.Duration
}

var _ authinbox.Extractor = (*extractor)(nil)

// Extract drives the model call to a terminal outcome. An attempt is retried
// when the provider reports a malformed response envelope or when the
// candidate text does not parse as JSON; a parsed codeExist=0 is a valid
// terminal result, never a retry.
func (e *extractor) Extract(ctx context.Context, rawContent string) authinbox.Outcome {
	prompt := fmt.Sprintf(promptTemplate, rawContent)

	var result *authinbox.ExtractionResult
	attempts := 0

	b := retry.WithMaxRetries(maxAttempts-1, retry.NewConstant(e.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempts++

		text, err := e.gen.generate(ctx, prompt)
		if err != nil {
			e.logger.Warn("extraction attempt failed",
				slog.Int("attempt", attempts),
				slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}

		parsed, err := parseExtraction(text)
		if err != nil {
			e.logger.Warn("model response did not parse as JSON",
				slog.Int("attempt", attempts),
				slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}

		result = parsed
		return nil
	})
	if err != nil {
		return authinbox.FailedOutcome(err, attempts)
	}

	if !result.CodeExist {
		return authinbox.EmptyOutcome(attempts)
	}

	applyPlaceholders(result)
	return authinbox.Parsed(result, attempts)
}

// rawExtraction is the lenient wire shape of the model's answer. The model is
// instructed to emit codeExist as 1 or 0 and codes as strings, but both arrive
// in looser spellings often enough to warrant tolerant decoding.
type rawExtraction struct {
	Title     string      `json:"title"`
	Code      looseString `json:"code"`
	Link      looseString `json:"link"`
	Topic     string      `json:"topic"`
	CodeExist looseBool   `json:"codeExist"`
}

// parseExtraction locates the JSON payload in the candidate text and decodes
// it. A fenced block's interior wins; otherwise the trimmed full text must be
// bare JSON.
func parseExtraction(text string) (*authinbox.ExtractionResult, error) {
	body := strings.TrimSpace(text)
	if m := fencedJSON.FindStringSubmatch(body); m != nil {
		body = m[1]
	}

	var raw rawExtraction
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("decoding extraction result: %w", err)
	}

	result := &authinbox.ExtractionResult{
		Title:     strings.TrimSpace(raw.Title),
		Topic:     strings.TrimSpace(raw.Topic),
		CodeExist: bool(raw.CodeExist),
	}

	code := strings.TrimSpace(string(raw.Code))
	link := strings.TrimSpace(string(raw.Link))
	switch {
	case code != "" && link != "":
		// Persisted contract: the report view splits this back apart.
		result.Code = code + "," + link
	case link != "":
		result.Code = link
	default:
		result.Code = code
	}

	return result, nil
}

// applyPlaceholders substitutes the advertised defaults into a usable result
// with missing fields. Runs after a successful parse only.
func applyPlaceholders(r *authinbox.ExtractionResult) {
	if r.Title == "" {
		r.Title = authinbox.UnknownOrganization
	}
	if r.Topic == "" {
		r.Topic = authinbox.NoTopicFound
	}
	if r.Code == "" {
		r.Code = authinbox.NoCodeFound
	}
}

// looseBool decodes 1/0, "1"/"0", and true/false.
type looseBool bool

func (b *looseBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch s {
	case "1", "true":
		*b = true
	case "0", "false", "null", "":
		*b = false
	default:
		return fmt.Errorf("invalid codeExist value %q", s)
	}
	return nil
}

// looseString decodes strings as-is and keeps numeric values (a model
// emitting a digits-only code as a JSON number) in their literal form.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	d := strings.TrimSpace(string(data))
	if d == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(d, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	*s = looseString(d)
	return nil
}
