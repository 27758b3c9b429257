package pipeline

import (
	"fmt"

	"github.com/edgard/autoreply/internal/mail"
)

// SummarySystemInstruction frames the one-sentence summary request.
const SummarySystemInstruction = "You are a helpful assistant providing quick summaries."

// SummaryMaxTokens caps the summary length.
const SummaryMaxTokens = 50

// Summary fallbacks. Summaries never fail; these stand in for the text.
const (
	SummaryUnavailable = "No summary available."
	SummaryError       = "Error generating summary."
)

// ReplyPrompt renders the user turn asking for a reply draft.
func ReplyPrompt(req ReplyRequest) string {
	return fmt.Sprintf("Draft a professional reply to this email:\nFrom: %s\nSubject: %s\nContent: %s",
		req.Sender, req.Subject, req.Body)
}

// SummaryPrompt renders the user turn asking for a one-sentence summary.
func SummaryPrompt(m mail.Message) string {
	return fmt.Sprintf("Summarize this email in one short sentence:\nSubject: %s\nContent: %s", m.Subject, m.Body)
}
