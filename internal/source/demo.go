package source

import (
	"time"

	"github.com/edgard/autoreply/internal/mail"
)

// DemoMessages returns the startup history, oldest first: an ignored
// newsletter from two hours ago and a replied pricing inquiry from one hour ago.
func DemoMessages(now time.Time) []mail.Message {
	return []mail.Message{
		{
			ID:        "2",
			Sender:    "newsletter@spam.com",
			Subject:   "Huge Discounts Today!",
			Body:      "Click here to save 90% on everything you never wanted.",
			Timestamp: now.Add(-2 * time.Hour),
			Status:    mail.StatusIgnored,
			Reason:    "Blacklisted sender domain detected.",
		},
		{
			ID:        "1",
			Sender:    "john.doe@example.com",
			Subject:   "Inquiry about project pricing",
			Body:      "Hello, I would like to know the pricing for your basic package. Best regards, John.",
			Timestamp: now.Add(-time.Hour),
			Status:    mail.StatusReplied,
			ReplyText: "Hi John, thank you for your interest. Our basic package starts at $99/mo. Let us know if you have more questions!",
		},
	}
}
