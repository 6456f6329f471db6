package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authinbox "github.com/yoyo-owo/auth-inbox"
	"github.com/yoyo-owo/auth-inbox/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEmail() *authinbox.Email {
	return &authinbox.Email{
		From:       "noreply@acme.test",
		To:         "user@example.com",
		RawContent: "Your code is 123456.",
		MessageID:  "<abc@acme.test>",
	}
}

func parsedOutcome() authinbox.Outcome {
	return authinbox.Parsed(&authinbox.ExtractionResult{
		Title:     "Acme",
		Code:      "123456",
		Topic:     "Login verification",
		CodeExist: true,
	}, 1)
}

func TestProcessPersistsRawAndCodeOnParsed(t *testing.T) {
	var rawSaves, codeSaves int
	var savedResult *authinbox.ExtractionResult
	var savedEmail *authinbox.Email

	mail := &mock.MailService{
		SaveRawMailFn: func(ctx context.Context, email *authinbox.Email) error {
			rawSaves++
			return nil
		},
		SaveCodeMailFn: func(ctx context.Context, email *authinbox.Email, result *authinbox.ExtractionResult) error {
			codeSaves++
			savedEmail = email
			savedResult = result
			return nil
		},
	}
	extractor := &mock.Extractor{
		ExtractFn: func(ctx context.Context, raw string) authinbox.Outcome { return parsedOutcome() },
	}

	p := New(testLogger(), mail, extractor, nil, nil, Config{})
	err := p.Process(context.Background(), testEmail())

	require.NoError(t, err)
	assert.Equal(t, 1, rawSaves)
	assert.Equal(t, 1, codeSaves)
	assert.Equal(t, "123456", savedResult.Code)
	assert.Equal(t, "<abc@acme.test>", savedEmail.MessageID)
}

func TestProcessFailedExtractionSkipsCodeAndNotify(t *testing.T) {
	var rawSaves, codeSaves, notifies int

	mail := &mock.MailService{
		SaveRawMailFn: func(ctx context.Context, email *authinbox.Email) error {
			rawSaves++
			return nil
		},
		SaveCodeMailFn: func(ctx context.Context, email *authinbox.Email, result *authinbox.ExtractionResult) error {
			codeSaves++
			return nil
		},
	}
	extractor := &mock.Extractor{
		ExtractFn: func(ctx context.Context, raw string) authinbox.Outcome {
			return authinbox.FailedOutcome(errors.New("no parseable result"), 3)
		},
	}
	notifier := &mock.Notifier{
		NotifyFn: func(ctx context.Context, title, code string) { notifies++ },
	}

	p := New(testLogger(), mail, extractor, notifier, nil, Config{NotifyEnabled: true})
	err := p.Process(context.Background(), testEmail())

	require.NoError(t, err, "extraction failure is not a rejection")
	assert.Equal(t, 1, rawSaves)
	assert.Equal(t, 0, codeSaves)
	assert.Equal(t, 0, notifies)
}

func TestProcessEmptyOutcomeIsNormal(t *testing.T) {
	var codeSaves, notifies int

	mail := &mock.MailService{
		SaveCodeMailFn: func(ctx context.Context, email *authinbox.Email, result *authinbox.ExtractionResult) error {
			codeSaves++
			return nil
		},
	}
	notifier := &mock.Notifier{
		NotifyFn: func(ctx context.Context, title, code string) { notifies++ },
	}

	p := New(testLogger(), mail, &mock.Extractor{}, notifier, nil, Config{NotifyEnabled: true})
	err := p.Process(context.Background(), testEmail())

	require.NoError(t, err)
	assert.Equal(t, 0, codeSaves)
	assert.Equal(t, 0, notifies)
}

func TestProcessRawWriteFailureRejectsButContinues(t *testing.T) {
	var extracted, codeSaves int

	mail := &mock.MailService{
		SaveRawMailFn: func(ctx context.Context, email *authinbox.Email) error {
			return errors.New("connection refused")
		},
		SaveCodeMailFn: func(ctx context.Context, email *authinbox.Email, result *authinbox.ExtractionResult) error {
			codeSaves++
			return nil
		},
	}
	extractor := &mock.Extractor{
		ExtractFn: func(ctx context.Context, raw string) authinbox.Outcome {
			extracted++
			return parsedOutcome()
		},
	}

	p := New(testLogger(), mail, extractor, nil, nil, Config{})
	err := p.Process(context.Background(), testEmail())

	require.Error(t, err)
	assert.True(t, authinbox.IsErrorCode(err, authinbox.EUNAVAILABLE))
	assert.Contains(t, authinbox.ErrorMessage(err), "noreply@acme.test")
	assert.Contains(t, authinbox.ErrorMessage(err), "raw mail")
	// Fail-open: extraction and the code write still happened.
	assert.Equal(t, 1, extracted)
	assert.Equal(t, 1, codeSaves)
}

func TestProcessCodeWriteFailureRejectsButNotifies(t *testing.T) {
	var notifies int

	mail := &mock.MailService{
		SaveCodeMailFn: func(ctx context.Context, email *authinbox.Email, result *authinbox.ExtractionResult) error {
			return errors.New("unique violation")
		},
	}
	extractor := &mock.Extractor{
		ExtractFn: func(ctx context.Context, raw string) authinbox.Outcome { return parsedOutcome() },
	}
	notifier := &mock.Notifier{
		NotifyFn: func(ctx context.Context, title, code string) { notifies++ },
	}

	p := New(testLogger(), mail, extractor, notifier, nil, Config{NotifyEnabled: true})
	err := p.Process(context.Background(), testEmail())

	require.Error(t, err)
	assert.Contains(t, authinbox.ErrorMessage(err), "code mail")
	assert.Equal(t, 1, notifies)
}

func TestProcessNotifyDisabledSkipsFanout(t *testing.T) {
	var notifies int
	notifier := &mock.Notifier{
		NotifyFn: func(ctx context.Context, title, code string) { notifies++ },
	}
	extractor := &mock.Extractor{
		ExtractFn: func(ctx context.Context, raw string) authinbox.Outcome { return parsedOutcome() },
	}

	p := New(testLogger(), &mock.MailService{}, extractor, notifier, nil, Config{NotifyEnabled: false})
	err := p.Process(context.Background(), testEmail())

	require.NoError(t, err)
	assert.Equal(t, 0, notifies)
}

func TestProcessNotifyReceivesTitleAndJoinedCode(t *testing.T) {
	var gotTitle, gotCode string
	notifier := &mock.Notifier{
		NotifyFn: func(ctx context.Context, title, code string) {
			gotTitle, gotCode = title, code
		},
	}
	extractor := &mock.Extractor{
		ExtractFn: func(ctx context.Context, raw string) authinbox.Outcome {
			return authinbox.Parsed(&authinbox.ExtractionResult{
				Title:     "Acme",
				Code:      "987654,https://acme.test/verify",
				Topic:     "Email verification",
				CodeExist: true,
			}, 2)
		},
	}

	p := New(testLogger(), &mock.MailService{}, extractor, notifier, nil, Config{NotifyEnabled: true})
	require.NoError(t, p.Process(context.Background(), testEmail()))

	assert.Equal(t, "Acme", gotTitle)
	assert.Equal(t, "987654,https://acme.test/verify", gotCode)
}

func TestProcessRecoversFromExtractorPanic(t *testing.T) {
	extractor := &mock.Extractor{
		ExtractFn: func(ctx context.Context, raw string) authinbox.Outcome {
			panic("boom")
		},
	}

	p := New(testLogger(), &mock.MailService{}, extractor, nil, nil, Config{})
	err := p.Process(context.Background(), testEmail())

	assert.NoError(t, err, "unexpected faults end the run without propagating")
}

func TestProcessArchivesRawMail(t *testing.T) {
	var archived int
	archive := &mock.MailArchive{
		ArchiveRawMailFn: func(ctx context.Context, email *authinbox.Email) (string, error) {
			archived++
			return "key.eml", nil
		},
	}

	p := New(testLogger(), &mock.MailService{}, &mock.Extractor{}, nil, archive, Config{})
	require.NoError(t, p.Process(context.Background(), testEmail()))
	assert.Equal(t, 1, archived)
}
