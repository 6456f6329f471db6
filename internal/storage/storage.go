// Package storage provides the raw-mail archive implementations.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// NewMailArchive creates an archive instance based on the provider
// configuration. Provider "none" yields no archive (nil, nil).
func NewMailArchive(ctx context.Context, logger *slog.Logger, cfg authinbox.ArchiveConfig) (authinbox.MailArchive, error) {
	switch cfg.Provider {
	case "s3":
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		logger.Info("initialized S3 mail archive",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region))

		return NewS3Archive(s3.NewFromConfig(awsCfg), cfg.S3Bucket), nil

	case "local":
		archive, err := NewLocalArchive(cfg.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create local archive: %w", err)
		}

		logger.Info("initialized local mail archive",
			slog.String("path", cfg.LocalPath))

		return archive, nil

	default: // "none"
		return nil, nil
	}
}

// archiveKey names one archived message: "<unix>_<uuid>.eml".
func archiveKey() string {
	return fmt.Sprintf("%d_%s.eml", time.Now().Unix(), uuid.New().String())
}

// LocalArchive implements MailArchive on local disk.
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a new local archive instance.
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &LocalArchive{basePath: basePath}, nil
}

// ArchiveRawMail writes the raw message under a unique key.
func (a *LocalArchive) ArchiveRawMail(ctx context.Context, email *authinbox.Email) (string, error) {
	key := archiveKey()
	path := filepath.Join(a.basePath, key)
	if err := os.WriteFile(path, []byte(email.RawContent), 0644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	return key, nil
}
