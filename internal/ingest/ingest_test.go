package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleRaw = "From: noreply@acme.test\r\n" +
	"To: user@example.com\r\n" +
	"Subject: Your verification code\r\n" +
	"Message-ID: <abc123@acme.test>\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"Your code is 123456.\r\n"

func TestFromRawMessageExtractsMessageID(t *testing.T) {
	email := FromRawMessage("noreply@acme.test", "user@example.com", []byte(sampleRaw))

	assert.Equal(t, "noreply@acme.test", email.From)
	assert.Equal(t, "user@example.com", email.To)
	assert.Equal(t, "<abc123@acme.test>", email.MessageID)
	assert.Equal(t, sampleRaw, email.RawContent)
}

func TestFromRawMessageMissingMessageID(t *testing.T) {
	raw := "From: a@b.test\r\nTo: c@d.test\r\n\r\nhello\r\n"
	email := FromRawMessage("a@b.test", "c@d.test", []byte(raw))

	assert.Empty(t, email.MessageID)
	assert.Equal(t, raw, email.RawContent)
}

func TestFromPayloadMatchesHeaderCaseInsensitively(t *testing.T) {
	email := FromPayload(Payload{
		Headers:  map[string]string{"message-id": "<abc123@acme.test>"},
		From:     "noreply@acme.test",
		To:       "user@example.com",
		RawEmail: sampleRaw,
	})

	assert.Equal(t, "<abc123@acme.test>", email.MessageID)
}

// Both ingestion paths must reduce the same message to byte-identical
// envelopes.
func TestBothPathsProduceIdenticalEnvelopes(t *testing.T) {
	direct := FromRawMessage("noreply@acme.test", "user@example.com", []byte(sampleRaw))
	remote := FromPayload(Payload{
		Headers:  map[string]string{"Message-ID": "<abc123@acme.test>"},
		From:     "noreply@acme.test",
		To:       "user@example.com",
		RawEmail: sampleRaw,
	})

	assert.Equal(t, direct, remote)
}
