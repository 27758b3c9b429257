package pipeline

import (
	"context"
	"fmt"

	"github.com/edgard/autoreply/internal/mail"
)

// ReplyRequest carries everything a provider needs to draft one reply.
type ReplyRequest struct {
	Sender       string
	Subject      string
	Body         string
	SystemPrompt string
	Model        string
	Temperature  float32
}

// Generator drafts replies through an external text-generation provider.
type Generator interface {
	GenerateReply(ctx context.Context, req ReplyRequest) (string, error)
}

// Summarizer produces a one-sentence summary of a message. It never fails;
// providers return a fallback text instead.
type Summarizer interface {
	Summarize(ctx context.Context, m mail.Message, model string) string
}

// GenerationError wraps any provider-side failure. The pipeline does not
// distinguish between its causes.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req ReplyRequest) (string, error)

// GenerateReply calls f.
func (f GeneratorFunc) GenerateReply(ctx context.Context, req ReplyRequest) (string, error) {
	return f(ctx, req)
}
