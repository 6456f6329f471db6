package postgres

import (
	"context"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// Compile-time check that MailService implements authinbox.MailService.
var _ authinbox.MailService = (*MailService)(nil)

// MailService implements authinbox.MailService using PostgreSQL. The two
// write operations are independent statements on purpose: no shared
// transaction, per the fail-open persistence policy.
type MailService struct {
	db *DB
}

func (s *MailService) SaveRawMail(ctx context.Context, email *authinbox.Email) error {
	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO raw_mails (from_addr, to_addr, raw, message_id)
		 VALUES ($1, $2, $3, $4)`,
		email.From, email.To, email.RawContent, nullIfEmpty(email.MessageID))
	if err != nil {
		return authinbox.Internal("Failed to store raw mail", err)
	}
	return nil
}

func (s *MailService) SaveCodeMail(ctx context.Context, email *authinbox.Email, result *authinbox.ExtractionResult) error {
	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO code_mails (from_addr, from_org, to_addr, code, topic, message_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		email.From, result.Title, email.To, result.Code, result.Topic, nullIfEmpty(email.MessageID))
	if err != nil {
		return authinbox.Internal("Failed to store code mail", err)
	}
	return nil
}

func (s *MailService) ListCodeMails(ctx context.Context, filter authinbox.CodeMailFilter) ([]*authinbox.CodeMail, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	// id DESC as tiebreaker keeps same-timestamp inserts deterministic.
	rows, err := s.db.pool.Query(ctx,
		`SELECT id, from_addr, from_org, to_addr, code, topic, message_id, created_at
		 FROM code_mails
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, authinbox.Internal("Failed to list code mails", err)
	}
	defer rows.Close()

	var mails []*authinbox.CodeMail
	for rows.Next() {
		var m authinbox.CodeMail
		var messageID *string
		if err := rows.Scan(&m.ID, &m.From, &m.FromOrg, &m.To, &m.Code, &m.Topic, &messageID, &m.CreatedAt); err != nil {
			return nil, authinbox.Internal("Failed to scan code mail", err)
		}
		if messageID != nil {
			m.MessageID = *messageID
		}
		mails = append(mails, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, authinbox.Internal("Failed to list code mails", err)
	}

	return mails, nil
}

// nullIfEmpty stores absent optional text columns as NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
