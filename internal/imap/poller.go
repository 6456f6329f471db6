// Package imap polls a mailbox for unseen messages and feeds them through the
// processing pipeline. It supplies the live-delivery ingestion path for
// deployments without an upstream mail worker handing messages over RPC.
package imap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	authinbox "github.com/yoyo-owo/auth-inbox"
	"github.com/yoyo-owo/auth-inbox/internal/ingest"
)

// Config holds configuration for the mailbox poller.
type Config struct {
	Server       string // host:port, TLS
	Username     string
	Password     string
	Mailbox      string // e.g. "INBOX"
	PollInterval time.Duration
}

// Processor consumes one normalized email; satisfied by the pipeline.
type Processor interface {
	Process(ctx context.Context, email *authinbox.Email) error
}

// Poller periodically connects to the mailbox, processes every unseen
// message, and marks the successfully handled ones seen. Rejected messages
// stay unseen so the next poll retries them.
type Poller struct {
	cfg       Config
	logger    *slog.Logger
	processor Processor
}

// New creates a mailbox poller.
func New(logger *slog.Logger, cfg Config, processor Processor) *Poller {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Minute
	}
	return &Poller{
		cfg:       cfg,
		logger:    logger,
		processor: processor,
	}
}

// Run polls until the context is canceled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("mailbox poller started",
		slog.String("server", p.cfg.Server),
		slog.String("mailbox", p.cfg.Mailbox),
		slog.Duration("interval", p.cfg.PollInterval))

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := p.pollOnce(ctx); err != nil {
			p.logger.Error("mailbox poll failed", slog.String("error", err.Error()))
		}

		select {
		case <-ctx.Done():
			p.logger.Info("mailbox poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// pollOnce runs one connect/search/process/logout cycle.
func (p *Poller) pollOnce(ctx context.Context) error {
	c, err := client.DialTLS(p.cfg.Server, nil)
	if err != nil {
		return fmt.Errorf("IMAP connection error: %w", err)
	}
	defer c.Logout()

	if err := c.Login(p.cfg.Username, p.cfg.Password); err != nil {
		return fmt.Errorf("IMAP login error: %w", err)
	}

	if _, err := c.Select(p.cfg.Mailbox, false); err != nil {
		return fmt.Errorf("selecting mailbox %s: %w", p.cfg.Mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	seqNums, err := c.Search(criteria)
	if err != nil {
		return fmt.Errorf("searching for unseen messages: %w", err)
	}
	if len(seqNums) == 0 {
		return nil
	}

	p.logger.Info("unseen messages found", slog.Int("count", len(seqNums)))

	for _, seqNum := range seqNums {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := p.processMessage(ctx, c, seqNum); err != nil {
			p.logger.Error("processing message failed",
				slog.Uint64("seq", uint64(seqNum)),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

func (p *Poller) processMessage(ctx context.Context, c *client.Client, seqNum uint32) error {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(seqNum)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqSet, items, messages)
	}()

	var msg *imap.Message
	for m := range messages {
		msg = m
	}
	if err := <-done; err != nil {
		return fmt.Errorf("fetching message: %w", err)
	}
	if msg == nil {
		return fmt.Errorf("no message retrieved for seq %d", seqNum)
	}

	body := msg.GetBody(section)
	if body == nil {
		return fmt.Errorf("message %d has no body section", seqNum)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("reading message body: %w", err)
	}

	from, to := envelopeAddresses(msg.Envelope)
	email := ingest.FromRawMessage(from, to, raw)

	if err := p.processor.Process(ctx, email); err != nil {
		// Rejected: leave unseen so the next poll retries the delivery.
		return fmt.Errorf("pipeline rejected message: %w", err)
	}

	return p.markSeen(c, seqNum)
}

func (p *Poller) markSeen(c *client.Client, seqNum uint32) error {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(seqNum)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}

	return c.Store(seqSet, item, flags, nil)
}

// envelopeAddresses pulls the first sender and recipient addresses; either
// may be empty on a malformed envelope.
func envelopeAddresses(env *imap.Envelope) (from, to string) {
	if env == nil {
		return "", ""
	}
	if len(env.From) > 0 {
		from = env.From[0].Address()
	}
	if len(env.To) > 0 {
		to = env.To[0].Address()
	}
	return from, to
}
