// Package pipeline sequences one ingested email through persistence,
// extraction, and notification. Runs are stateless and independent: the
// hosting process may execute any number of them concurrently.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authinbox "github.com/yoyo-owo/auth-inbox"
	"github.com/yoyo-owo/auth-inbox/internal/middleware"
)

// dbTimeout bounds each persistence write so a wedged database cannot hang a
// pipeline run.
const dbTimeout = 5 * time.Second

// Pipeline orchestrates: save raw -> extract -> save code record -> notify.
// Persistence is fail-open: a failed write produces a rejection for the
// ingestion boundary but never aborts the steps that follow, and nothing is
// rolled back.
type Pipeline struct {
	mail      authinbox.MailService
	extractor authinbox.Extractor
	notifier  authinbox.Notifier
	archive   authinbox.MailArchive
	logger    *slog.Logger

	notifyEnabled bool
}

// Config holds the pipeline's feature switches.
type Config struct {
	// NotifyEnabled gates the notification fan-out entirely.
	NotifyEnabled bool
}

// New creates a pipeline. notifier may be nil when notifications are
// disabled; archive may be nil when archival is off.
func New(logger *slog.Logger, mail authinbox.MailService, extractor authinbox.Extractor, notifier authinbox.Notifier, archive authinbox.MailArchive, cfg Config) *Pipeline {
	return &Pipeline{
		mail:          mail,
		extractor:     extractor,
		notifier:      notifier,
		archive:       archive,
		logger:        logger,
		notifyEnabled: cfg.NotifyEnabled,
	}
}

// Process runs one email through the pipeline. The returned error, when
// non-nil, is an ingestion rejection caused by a failed persistence write;
// extraction failures and notification failures never surface here.
func (p *Pipeline) Process(ctx context.Context, email *authinbox.Email) error {
	runID := uuid.New().String()
	ctx = authinbox.NewContextWithRunID(ctx, runID)

	logger := p.logger.With(
		slog.String("run_id", runID),
		slog.String("from", email.From),
		slog.String("to", email.To))
	logger.Info("processing inbound email", slog.String("message_id", email.MessageID))

	// The raw row is written first, before anything can go wrong downstream:
	// not losing captured mail outranks cross-table consistency.
	var rejection error
	if err := p.saveRawMail(ctx, email); err != nil {
		logger.Error("raw mail write failed", slog.String("error", err.Error()))
		middleware.RecordMailWriteFailure("raw_mails")
		rejection = authinbox.Unavailable(
			"failed to store raw mail from %s to %s", email.From, email.To)
	}

	if p.archive != nil {
		if key, err := p.archive.ArchiveRawMail(ctx, email); err != nil {
			logger.Warn("raw mail archive failed", slog.String("error", err.Error()))
		} else {
			logger.Debug("raw mail archived", slog.String("key", key))
		}
	}

	outcome := p.runExtractionStage(ctx, logger, email, &rejection)
	middleware.RecordPipelineRun(outcome)

	return rejection
}

// runExtractionStage covers extract -> save code record -> notify. Any
// unexpected fault inside it is caught here, logged, and ends the run without
// propagating; the ingestion boundary only ever sees persistence rejections.
func (p *Pipeline) runExtractionStage(ctx context.Context, logger *slog.Logger, email *authinbox.Email, rejection *error) (outcomeLabel string) {
	outcomeLabel = "fault"
	defer func() {
		if r := recover(); r != nil {
			logger.Error("unexpected fault in extraction stage", slog.Any("panic", r))
		}
	}()

	outcome := p.extractor.Extract(ctx, email.RawContent)
	middleware.ObserveExtractionAttempts(outcome.Attempts)

	switch outcome.Kind {
	case authinbox.OutcomeFailed:
		logger.Error("extraction failed",
			slog.Int("attempts", outcome.Attempts),
			slog.String("error", outcome.Err.Error()))
		return "failed"
	case authinbox.OutcomeEmpty:
		logger.Info("no verification code present",
			slog.Int("attempts", outcome.Attempts))
		return "empty"
	}

	result := outcome.Result
	logger.Info("verification code extracted",
		slog.String("title", result.Title),
		slog.String("topic", result.Topic),
		slog.Int("attempts", outcome.Attempts))

	if err := p.saveCodeMail(ctx, email, result); err != nil {
		logger.Error("code mail write failed", slog.String("error", err.Error()))
		middleware.RecordMailWriteFailure("code_mails")
		*rejection = authinbox.Unavailable(
			"failed to store code mail from %s to %s", email.From, email.To)
		// Fail-open: the fan-out below still runs.
	}

	if !p.notifyEnabled {
		logger.Debug("notifications disabled, skipping fan-out")
		return "parsed"
	}
	if p.notifier != nil {
		p.notifier.Notify(ctx, result.Title, result.Code)
	}
	return "parsed"
}

func (p *Pipeline) saveRawMail(ctx context.Context, email *authinbox.Email) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return p.mail.SaveRawMail(ctx, email)
}

func (p *Pipeline) saveCodeMail(ctx context.Context, email *authinbox.Email, result *authinbox.ExtractionResult) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return p.mail.SaveCodeMail(ctx, email, result)
}
