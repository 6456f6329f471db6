// Package authinbox holds the domain types for the verification-code inbox:
// the canonical email envelope, the persisted mail records, and the service
// interfaces implemented by the storage, extraction, and notification layers.
package authinbox

import (
	"context"
	"time"
)

// Email is the canonical envelope for one inbound message. It is built once
// per ingestion, regardless of whether the message arrived from a live mail
// source or over the remote-invocation boundary, and is never shared across
// pipeline runs.
type Email struct {
	// From is the sender address.
	From string

	// To is the recipient address.
	To string

	// RawContent is the full raw email text, headers included.
	RawContent string

	// MessageID is the Message-ID header value when present. Absence is not
	// an error; it is carried through but never required to be unique.
	MessageID string
}

// RawMail is one persisted row per ingested email. It is written for every
// email regardless of extraction outcome.
type RawMail struct {
	ID        int64
	From      string
	To        string
	Raw       string
	MessageID string
	CreatedAt time.Time
}

// CodeMail is the extracted-result row, written only when extraction found a
// usable code or link. FromOrg carries the extracted title (the sending
// organization). Code may encode two values as "<code>,<link>" when the email
// contained both; that comma-join is a persisted contract the report renderer
// splits back apart.
type CodeMail struct {
	ID        int64
	From      string
	FromOrg   string
	To        string
	Code      string
	Topic     string
	MessageID string
	CreatedAt time.Time
}

// CodeMailFilter narrows ListCodeMails results.
type CodeMailFilter struct {
	Limit  int
	Offset int
}

// MailService defines the two independent persistence writes and the report
// query. The writes are deliberately not wrapped in a shared transaction:
// a raw row may exist without its derived code row and vice versa on partial
// failure (fail-open, no compensation).
type MailService interface {
	// SaveRawMail stores the raw message row. Always attempted first.
	SaveRawMail(ctx context.Context, email *Email) error

	// SaveCodeMail stores the extracted-result row. Invoked only when
	// extraction yielded a usable code.
	SaveCodeMail(ctx context.Context, email *Email, result *ExtractionResult) error

	// ListCodeMails returns extracted records, most recent first.
	ListCodeMails(ctx context.Context, filter CodeMailFilter) ([]*CodeMail, error)
}
