package mock

import (
	"context"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// Compile-time interface check
var _ authinbox.MailArchive = (*MailArchive)(nil)

// MailArchive is a mock implementation of authinbox.MailArchive.
type MailArchive struct {
	ArchiveRawMailFn func(ctx context.Context, email *authinbox.Email) (string, error)
}

func (a *MailArchive) ArchiveRawMail(ctx context.Context, email *authinbox.Email) (string, error) {
	if a.ArchiveRawMailFn != nil {
		return a.ArchiveRawMailFn(ctx, email)
	}
	return "mock-key.eml", nil
}
