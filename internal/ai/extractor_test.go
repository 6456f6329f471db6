package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// fakeGenerator replays a scripted sequence of responses.
type fakeGenerator struct {
	responses []fakeResponse
	calls     int
}

type fakeResponse struct {
	text string
	err  error
}

func (g *fakeGenerator) generate(ctx context.Context, prompt string) (string, error) {
	i := g.calls
	g.calls++
	if i >= len(g.responses) {
		return "", errors.New("no scripted response")
	}
	return g.responses[i].text, g.responses[i].err
}

func newTestExtractor(gen textGenerator) *extractor {
	return &extractor{
		gen:     gen,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		backoff: time.Millisecond,
	}
}

func TestExtractFencedAndBareParseIdentically(t *testing.T) {
	payload := `{"title": "Acme", "code": "123456", "topic": "Login verification", "codeExist": 1}`
	fenced := "```json\n" + payload + "\n```"

	fencedGen := &fakeGenerator{responses: []fakeResponse{{text: fenced}}}
	bareGen := &fakeGenerator{responses: []fakeResponse{{text: "  " + payload + "\n"}}}

	a := newTestExtractor(fencedGen).Extract(context.Background(), "raw email")
	b := newTestExtractor(bareGen).Extract(context.Background(), "raw email")

	require.Equal(t, authinbox.OutcomeParsed, a.Kind)
	require.Equal(t, authinbox.OutcomeParsed, b.Kind)
	assert.Equal(t, a.Result, b.Result)
	assert.Equal(t, "Acme", a.Result.Title)
	assert.Equal(t, "123456", a.Result.Code)
}

func TestExtractRetriesMalformedThenSucceeds(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{text: "sorry, I cannot help with that"},
		{text: "{not json"},
		{text: `{"title": "Acme", "code": "42", "topic": "Signup", "codeExist": 1}`},
	}}

	outcome := newTestExtractor(gen).Extract(context.Background(), "raw email")

	require.Equal(t, authinbox.OutcomeParsed, outcome.Kind)
	assert.Equal(t, 3, outcome.Attempts)
	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, "42", outcome.Result.Code)
}

func TestExtractFailsAfterThreeAttempts(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{err: errors.New("response missing candidate text")},
		{text: "not json either"},
		{text: "still not json"},
		{text: `{"codeExist": 1}`}, // must never be reached
	}}

	outcome := newTestExtractor(gen).Extract(context.Background(), "raw email")

	assert.Equal(t, authinbox.OutcomeFailed, outcome.Kind)
	assert.Error(t, outcome.Err)
	assert.Equal(t, 3, outcome.Attempts)
	assert.Equal(t, 3, gen.calls)
}

func TestExtractEmptyResultIsTerminal(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{text: `{"codeExist": 0}`},
	}}

	outcome := newTestExtractor(gen).Extract(context.Background(), "raw email")

	assert.Equal(t, authinbox.OutcomeEmpty, outcome.Kind)
	assert.Nil(t, outcome.Result)
	assert.Equal(t, 1, gen.calls, "codeExist=0 must not trigger a retry")
}

func TestExtractJoinsCodeAndLink(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{text: `{"title": "Acme", "code": "987654", "link": "https://acme.test/verify?t=abc", "topic": "Email verification", "codeExist": 1}`},
	}}

	outcome := newTestExtractor(gen).Extract(context.Background(), "raw email")

	require.Equal(t, authinbox.OutcomeParsed, outcome.Kind)
	assert.Equal(t, "987654,https://acme.test/verify?t=abc", outcome.Result.Code)
}

func TestExtractAppliesPlaceholders(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{text: `{"codeExist": 1}`},
	}}

	outcome := newTestExtractor(gen).Extract(context.Background(), "raw email")

	require.Equal(t, authinbox.OutcomeParsed, outcome.Kind)
	assert.Equal(t, authinbox.UnknownOrganization, outcome.Result.Title)
	assert.Equal(t, authinbox.NoTopicFound, outcome.Result.Topic)
	assert.Equal(t, authinbox.NoCodeFound, outcome.Result.Code)
}

func TestParseExtractionLooseFields(t *testing.T) {
	// Numeric code and numeric codeExist, as models sometimes emit them.
	result, err := parseExtraction(`{"title": "Acme", "code": 123456, "topic": "Login", "codeExist": "1"}`)
	require.NoError(t, err)
	assert.True(t, result.CodeExist)
	assert.Equal(t, "123456", result.Code)
}

func TestParseExtractionRejectsNonJSON(t *testing.T) {
	_, err := parseExtraction("The verification code is 123456.")
	assert.Error(t, err)
}
