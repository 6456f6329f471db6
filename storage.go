package authinbox

import "context"

// MailArchive stores a write-once copy of the original raw message alongside
// the database row. Archival is best-effort: a failed archive write is logged
// and never rejects the message.
type MailArchive interface {
	// ArchiveRawMail stores the raw message and returns the archive key.
	ArchiveRawMail(ctx context.Context, email *Email) (string, error)
}

// ArchiveConfig holds configuration for mail archive implementations.
type ArchiveConfig struct {
	// Provider is "none", "local", or "s3".
	Provider string

	// LocalPath is the directory for local archives.
	LocalPath string

	// S3Bucket and S3Region select the S3 archive location.
	S3Bucket string
	S3Region string
}
