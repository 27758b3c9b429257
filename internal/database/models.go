package database

import (
	"time"

	"github.com/edgard/autoreply/internal/mail"
)

// Decision is one journaled terminal message.
type Decision struct {
	ID         int64       `db:"id"`
	MessageID  string      `db:"message_id"`
	Sender     string      `db:"sender"`
	Subject    string      `db:"subject"`
	Body       string      `db:"body"`
	Status     mail.Status `db:"status"`
	ReplyText  string      `db:"reply_text"`
	Reason     string      `db:"reason"`
	ReceivedAt time.Time   `db:"received_at"`
	DecidedAt  time.Time   `db:"decided_at"`
}

// NewDecision converts a terminal message into a journal row.
func NewDecision(m mail.Message, decidedAt time.Time) *Decision {
	return &Decision{
		MessageID:  m.ID,
		Sender:     m.Sender,
		Subject:    m.Subject,
		Body:       m.Body,
		Status:     m.Status,
		ReplyText:  m.ReplyText,
		Reason:     m.Reason,
		ReceivedAt: m.Timestamp.UTC(),
		DecidedAt:  decidedAt.UTC(),
	}
}

// Message converts the row back into a message.
func (d Decision) Message() mail.Message {
	return mail.Message{
		ID:        d.MessageID,
		Sender:    d.Sender,
		Subject:   d.Subject,
		Body:      d.Body,
		Timestamp: d.ReceivedAt,
		Status:    d.Status,
		ReplyText: d.ReplyText,
		Reason:    d.Reason,
	}
}
