package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

const receivePayload = `{
	"headers": {"Message-ID": "<abc123@mail.acme.test>"},
	"from": "noreply@acme.test",
	"to": "inbox@example.test",
	"rawEmail": "Subject: Your code\r\n\r\nYour code is 123456"
}`

func postReceive(s *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/receive", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestReceive_RunsPipelineWithEnvelope(t *testing.T) {
	s, svcs := newTestServer(t)

	var saved *authinbox.Email
	svcs.mail.SaveRawMailFn = func(ctx context.Context, email *authinbox.Email) error {
		saved = email
		return nil
	}

	rec := postReceive(s, receivePayload)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, saved)
	assert.Equal(t, "noreply@acme.test", saved.From)
	assert.Equal(t, "inbox@example.test", saved.To)
	assert.Equal(t, "<abc123@mail.acme.test>", saved.MessageID)
	assert.Contains(t, saved.RawContent, "Your code is 123456")
}

func TestReceive_ExtractionFailureStillReturnsOK(t *testing.T) {
	s, svcs := newTestServer(t)

	svcs.extractor.ExtractFn = func(ctx context.Context, rawContent string) authinbox.Outcome {
		return authinbox.FailedOutcome(errors.New("model unreachable"), 3)
	}

	rec := postReceive(s, receivePayload)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReceive_PersistenceFailureReturns503(t *testing.T) {
	s, svcs := newTestServer(t)

	svcs.mail.SaveRawMailFn = func(ctx context.Context, email *authinbox.Email) error {
		return errors.New("connection refused")
	}

	rec := postReceive(s, receivePayload)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), authinbox.EUNAVAILABLE)
}

func TestReceive_MissingFieldsReturn400(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing from", `{"to": "inbox@example.test", "rawEmail": "raw"}`},
		{"missing to", `{"from": "noreply@acme.test", "rawEmail": "raw"}`},
		{"missing rawEmail", `{"from": "noreply@acme.test", "to": "inbox@example.test"}`},
		{"not json", `not json at all`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postReceive(s, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestReceive_ParsedExtractionPersistsAndNotifies(t *testing.T) {
	s, svcs := newTestServer(t)

	svcs.extractor.ExtractFn = func(ctx context.Context, rawContent string) authinbox.Outcome {
		return parsedResult("Acme", "123456", "Sign-in verification")
	}

	var savedCode *authinbox.ExtractionResult
	svcs.mail.SaveCodeMailFn = func(ctx context.Context, email *authinbox.Email, result *authinbox.ExtractionResult) error {
		savedCode = result
		return nil
	}
	var notifiedTitle, notifiedCode string
	svcs.notifier.NotifyFn = func(ctx context.Context, title, code string) {
		notifiedTitle = title
		notifiedCode = code
	}

	rec := postReceive(s, receivePayload)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, savedCode)
	assert.Equal(t, "Acme", savedCode.Title)
	assert.Equal(t, "Acme", notifiedTitle)
	assert.Equal(t, "123456", notifiedCode)
}

func TestReceive_RequiresNoAuthentication(t *testing.T) {
	s, _ := newTestServer(t)

	// No Authorization header on purpose.
	rec := postReceive(s, receivePayload)

	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusOK, rec.Code)
}
