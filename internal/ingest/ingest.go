// Package ingest normalizes the two ingestion paths - live delivered messages
// and remote-invocation payloads - into the one email envelope the pipeline
// consumes.
package ingest

import (
	"strings"

	"github.com/emersion/go-message/mail"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// Payload is the serialized envelope accepted over the remote-invocation
// boundary.
type Payload struct {
	Headers  map[string]string `json:"headers"`
	From     string            `json:"from"`
	To       string            `json:"to"`
	RawEmail string            `json:"rawEmail"`
}

// FromPayload builds the canonical envelope from a remote-invocation payload.
// The Message-ID header is matched case-insensitively; a payload without one
// simply yields an envelope without a message ID.
func FromPayload(p Payload) *authinbox.Email {
	email := &authinbox.Email{
		From:       p.From,
		To:         p.To,
		RawContent: p.RawEmail,
	}
	for k, v := range p.Headers {
		if strings.EqualFold(k, "Message-ID") {
			email.MessageID = strings.TrimSpace(v)
			break
		}
	}
	return email
}

// FromRawMessage builds the canonical envelope from a live delivered message:
// the sender/recipient addresses the transport reported plus the readable raw
// body. The Message-ID is pulled from the parsed header; a message whose
// header cannot be parsed still produces a usable envelope.
func FromRawMessage(from, to string, raw []byte) *authinbox.Email {
	email := &authinbox.Email{
		From:       from,
		To:         to,
		RawContent: string(raw),
	}

	// mail.CreateReader may return a non-nil reader together with an error
	// (e.g. unknown charset in a body part); the header is still usable.
	if mr, _ := mail.CreateReader(strings.NewReader(email.RawContent)); mr != nil {
		email.MessageID = strings.TrimSpace(mr.Header.Get("Message-Id"))
	}
	return email
}
