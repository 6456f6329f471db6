package http

import (
	"io"
	"log/slog"
	"testing"

	authinbox "github.com/yoyo-owo/auth-inbox"
	"github.com/yoyo-owo/auth-inbox/internal/pipeline"
	"github.com/yoyo-owo/auth-inbox/internal/templates"
	"github.com/yoyo-owo/auth-inbox/mock"
)

// testServices bundles the mocks behind a test server.
type testServices struct {
	mail      *mock.MailService
	extractor *mock.Extractor
	notifier  *mock.Notifier
}

// newTestServer builds a server wired to mocks. The returned services can be
// reprogrammed per test before issuing requests.
func newTestServer(t *testing.T) (*Server, *testServices) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svcs := &testServices{
		mail:      &mock.MailService{},
		extractor: &mock.Extractor{},
		notifier:  &mock.Notifier{},
	}

	p := pipeline.New(logger, svcs.mail, svcs.extractor, svcs.notifier, nil, pipeline.Config{
		NotifyEnabled: true,
	})

	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	s := NewServer(Config{
		Addr:           "localhost:0",
		Logger:         logger,
		ReportUser:     "admin",
		ReportPassword: "s3cret",
		Renderer:       renderer,
		MailService:    svcs.mail,
		Pipeline:       p,
	})

	return s, svcs
}

// parsedResult is a convenience for programming the mock extractor.
func parsedResult(title, code, topic string) authinbox.Outcome {
	return authinbox.Parsed(&authinbox.ExtractionResult{
		Title:     title,
		Code:      code,
		Topic:     topic,
		CodeExist: true,
	}, 1)
}
