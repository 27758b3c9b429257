// Package mail defines the messages, settings, statistics and history buffer
// shared by the decision pipeline and everything that displays its results.
package mail

import (
	"errors"
	"fmt"
	"time"
)

// Status is the classification state of a message.
type Status string

// Message statuses. Pending is the only non-terminal value.
const (
	StatusPending Status = "pending"
	StatusReplied Status = "replied"
	StatusIgnored Status = "ignored"
	StatusFailed  Status = "failed"
)

// ErrAlreadyTerminal is returned when a terminal message is asked to change status again.
var ErrAlreadyTerminal = errors.New("message already has a terminal status")

// ErrNotTerminal is returned where a decided message is required.
var ErrNotTerminal = errors.New("message has no terminal status")

// ParseStatus converts a string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusReplied, StatusIgnored, StatusFailed:
		return st, nil
	default:
		return "", fmt.Errorf("unknown message status %q", s)
	}
}

// IsTerminal reports whether the status can no longer change.
func (s Status) IsTerminal() bool {
	return s == StatusReplied || s == StatusIgnored || s == StatusFailed
}

// Message is one unit of work flowing through the pipeline.
// ReplyText is set only for replied messages, Reason only for ignored and failed ones.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
	ReplyText string    `json:"reply_text,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// NewMessage returns a pending message.
func NewMessage(id, sender, subject, body string, ts time.Time) Message {
	return Message{
		ID:        id,
		Sender:    sender,
		Subject:   subject,
		Body:      body,
		Timestamp: ts,
		Status:    StatusPending,
	}
}

// Reply returns a copy of m marked as replied with the given text.
func (m Message) Reply(text string) (Message, error) {
	return m.resolve(StatusReplied, text, "")
}

// Ignore returns a copy of m marked as ignored for the given reason.
func (m Message) Ignore(reason string) (Message, error) {
	return m.resolve(StatusIgnored, "", reason)
}

// Fail returns a copy of m marked as failed for the given reason.
func (m Message) Fail(reason string) (Message, error) {
	return m.resolve(StatusFailed, "", reason)
}

func (m Message) resolve(status Status, reply, reason string) (Message, error) {
	if m.Status != StatusPending {
		return m, fmt.Errorf("%w: message %s is %s", ErrAlreadyTerminal, m.ID, m.Status)
	}
	m.Status = status
	m.ReplyText = reply
	m.Reason = reason
	return m, nil
}
