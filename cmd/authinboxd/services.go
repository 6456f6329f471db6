package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	authinbox "github.com/yoyo-owo/auth-inbox"
	"github.com/yoyo-owo/auth-inbox/internal/ai"
	"github.com/yoyo-owo/auth-inbox/internal/notify"
	"github.com/yoyo-owo/auth-inbox/internal/pipeline"
	"github.com/yoyo-owo/auth-inbox/internal/storage"
	"github.com/yoyo-owo/auth-inbox/postgres"
)

// Services holds all application services.
type Services struct {
	MailService authinbox.MailService
	Extractor   authinbox.Extractor
	Notifier    authinbox.Notifier
	Archive     authinbox.MailArchive
	Pipeline    *pipeline.Pipeline
}

// initServices initializes all application services.
func initServices(ctx context.Context, pool *pgxpool.Pool, cfg *Config, logger *slog.Logger) (*Services, error) {
	// Initialize database wrapper with all domain services
	db := postgres.NewDB(pool)
	logger.Info("database services initialized")

	// Initialize extraction client
	extractor := initExtractor(cfg, logger)
	logger.Info("extraction client initialized", slog.String("provider", cfg.AIProvider))

	// Initialize notifier
	notifier := initNotifier(cfg, logger)

	// Initialize raw-mail archive
	archive, err := initArchive(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(logger, db.MailService, extractor, notifier, archive, pipeline.Config{
		NotifyEnabled: cfg.NotifyEnabled,
	})

	return &Services{
		MailService: db.MailService,
		Extractor:   extractor,
		Notifier:    notifier,
		Archive:     archive,
		Pipeline:    p,
	}, nil
}

// initExtractor creates the provider-switched extraction client.
func initExtractor(cfg *Config, logger *slog.Logger) authinbox.Extractor {
	logger.Debug("extraction client configuration",
		slog.String("provider", cfg.AIProvider),
		slog.Int("max_tokens", cfg.AIMaxTokens))

	aiCfg := ai.Config{
		Provider:     cfg.AIProvider,
		GeminiAPIKey: cfg.AIGeminiAPIKey,
		GeminiModel:  cfg.AIGeminiModel,
		ClaudeAPIKey: cfg.AIClaudeAPIKey,
		ClaudeModel:  cfg.AIClaudeModel,
		MaxTokens:    cfg.AIMaxTokens,
		Timeout:      cfg.AITimeout,
	}

	return ai.NewExtractor(logger, aiCfg)
}

// initNotifier creates the push-notification fan-out.
func initNotifier(cfg *Config, logger *slog.Logger) authinbox.Notifier {
	notifier := notify.NewBarkNotifier(logger, notify.Config{
		BaseURL: cfg.BarkURL,
		Tokens:  cfg.BarkTokens,
	})

	logger.Info("notifier initialized",
		slog.Bool("enabled", cfg.NotifyEnabled),
		slog.Int("targets", len(notifier.Targets())))

	return notifier
}

// initArchive creates the raw-mail archive; nil when archival is off.
func initArchive(ctx context.Context, cfg *Config, logger *slog.Logger) (authinbox.MailArchive, error) {
	archiveCfg := authinbox.ArchiveConfig{
		Provider:  cfg.ArchiveProvider,
		LocalPath: cfg.ArchiveLocalPath,
		S3Bucket:  cfg.ArchiveS3Bucket,
		S3Region:  cfg.ArchiveS3Region,
	}

	return storage.NewMailArchive(ctx, logger, archiveCfg)
}
