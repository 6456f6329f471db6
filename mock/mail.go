// Package mock provides function-field mocks of the domain service
// interfaces for tests.
package mock

import (
	"context"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// Compile-time interface check
var _ authinbox.MailService = (*MailService)(nil)

// MailService is a mock implementation of authinbox.MailService.
type MailService struct {
	SaveRawMailFn   func(ctx context.Context, email *authinbox.Email) error
	SaveCodeMailFn  func(ctx context.Context, email *authinbox.Email, result *authinbox.ExtractionResult) error
	ListCodeMailsFn func(ctx context.Context, filter authinbox.CodeMailFilter) ([]*authinbox.CodeMail, error)
}

func (s *MailService) SaveRawMail(ctx context.Context, email *authinbox.Email) error {
	if s.SaveRawMailFn != nil {
		return s.SaveRawMailFn(ctx, email)
	}
	return nil
}

func (s *MailService) SaveCodeMail(ctx context.Context, email *authinbox.Email, result *authinbox.ExtractionResult) error {
	if s.SaveCodeMailFn != nil {
		return s.SaveCodeMailFn(ctx, email, result)
	}
	return nil
}

func (s *MailService) ListCodeMails(ctx context.Context, filter authinbox.CodeMailFilter) ([]*authinbox.CodeMail, error) {
	if s.ListCodeMailsFn != nil {
		return s.ListCodeMailsFn(ctx, filter)
	}
	return []*authinbox.CodeMail{}, nil
}
