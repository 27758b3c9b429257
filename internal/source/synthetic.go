// Package source produces the messages fed to the responder: synthetic
// arrivals on a timer, manual test submissions and the startup demo set.
package source

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edgard/autoreply/internal/mail"
)

// Synthetic message content.
const (
	ConnectedSender = "real.client@gmail.com"
	ConnectedBody   = "I saw your email on the website and wanted to ask about your services."
	OfflineBody     = "Hi, I need assistance with the subscription I purchased yesterday."
)

var subjects = [...]string{"Project Inquiry", "Support Needed"}

// Manual test defaults.
const (
	DefaultTestSender  = "test.user@example.com"
	DefaultTestSubject = "Manual Test Inquiry"
)

// ConnectionState reports whether a mail account is connected.
type ConnectionState interface {
	Connected() bool
}

// Synthetic fabricates incoming messages. Its content depends on whether the
// account connector reports a connection.
type Synthetic struct {
	account ConnectionState
	rng     *rand.Rand
	now     func() time.Time
}

// NewSynthetic returns a generator seeded from the runtime source.
func NewSynthetic(account ConnectionState) *Synthetic {
	return &Synthetic{
		account: account,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:     time.Now,
	}
}

// Next returns a new pending message.
func (s *Synthetic) Next() mail.Message {
	connected := s.account != nil && s.account.Connected()

	sender := fmt.Sprintf("user%d@gmail.com", s.rng.IntN(100))
	body := OfflineBody
	if connected {
		sender = ConnectedSender
		body = ConnectedBody
	}

	return mail.NewMessage(
		uuid.NewString(),
		sender,
		subjects[s.rng.IntN(len(subjects))],
		body,
		s.now(),
	)
}

// Manual builds a pending message for a one-shot test submission. Blank
// sender and subject fall back to the test defaults; a blank body is rejected.
// The id carries a random suffix so submissions in the same millisecond differ.
func Manual(sender, subject, body string, now time.Time) (mail.Message, error) {
	if strings.TrimSpace(body) == "" {
		return mail.Message{}, fmt.Errorf("message body is required")
	}
	if strings.TrimSpace(sender) == "" {
		sender = DefaultTestSender
	}
	if strings.TrimSpace(subject) == "" {
		subject = DefaultTestSubject
	}
	id := fmt.Sprintf("test-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
	return mail.NewMessage(id, sender, subject, body, now), nil
}
