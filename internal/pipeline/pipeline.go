// Package pipeline implements the per-message decision state machine:
// blacklist check, keyword gate, then a single reply-generation attempt.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/edgard/autoreply/internal/mail"
)

// Fixed reasons and fallbacks surfaced to users.
const (
	ReasonNoKeywords       = "No relevant keywords found (Safety mode active)."
	ReasonGenerationFailed = "AI Generation failed or API rate limit."
	EmptyReplyFallback     = "Failed to generate reply."
)

// DefaultTemperature is the sampling temperature used for reply drafts.
const DefaultTemperature float32 = 0.7

// BlacklistReason formats the reason recorded for a blacklisted sender.
func BlacklistReason(sender string) string {
	return fmt.Sprintf("Sender %s is blacklisted.", sender)
}

// Pipeline classifies messages against a settings snapshot.
type Pipeline struct {
	gen         Generator
	temperature float32
	log         *slog.Logger
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithTemperature overrides DefaultTemperature.
func WithTemperature(t float32) Option {
	return func(p *Pipeline) { p.temperature = t }
}

// WithLogger sets the logger used to record swallowed generation errors.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// New returns a Pipeline that drafts replies with gen.
func New(gen Generator, opts ...Option) *Pipeline {
	p := &Pipeline{
		gen:         gen,
		temperature: DefaultTemperature,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With("component", "pipeline")
	return p
}

// Classify assigns a terminal status to a pending message. The first matching
// rule wins. It never returns an error: generation failures become the failed
// status. Messages that are already terminal are returned unchanged.
func (p *Pipeline) Classify(ctx context.Context, m mail.Message, s mail.Settings) mail.Message {
	if m.Status.IsTerminal() {
		p.log.WarnContext(ctx, "Skipping classification of terminal message", "message_id", m.ID, "status", m.Status)
		return m
	}

	if entry, ok := matchAny(m.Sender, s.Blacklist); ok {
		p.log.DebugContext(ctx, "Sender blacklisted", "message_id", m.ID, "sender", m.Sender, "entry", entry)
		return resolved(m.Ignore(BlacklistReason(m.Sender)))
	}

	if s.FilterMode == mail.FilterKeywords && !containsKeyword(m, s.Keywords) {
		p.log.DebugContext(ctx, "No keyword matched", "message_id", m.ID, "keyword_count", len(s.Keywords))
		return resolved(m.Ignore(ReasonNoKeywords))
	}

	reply, err := p.gen.GenerateReply(ctx, ReplyRequest{
		Sender:       m.Sender,
		Subject:      m.Subject,
		Body:         m.Body,
		SystemPrompt: s.SystemPrompt,
		Model:        s.Model,
		Temperature:  p.temperature,
	})
	if err != nil {
		p.log.WarnContext(ctx, "Reply generation failed", "message_id", m.ID, "model", s.Model, "error", err)
		return resolved(m.Fail(ReasonGenerationFailed))
	}
	if reply == "" {
		reply = EmptyReplyFallback
	}

	p.log.DebugContext(ctx, "Reply generated", "message_id", m.ID, "reply_length", len(reply))
	return resolved(m.Reply(reply))
}

// resolved drops the error from a pending-to-terminal transition; Classify
// has already checked the message is pending.
func resolved(m mail.Message, _ error) mail.Message {
	return m
}

func containsKeyword(m mail.Message, keywords []string) bool {
	if _, ok := matchAny(m.Subject, keywords); ok {
		return true
	}
	_, ok := matchAny(m.Body, keywords)
	return ok
}

// matchAny reports the first needle contained in haystack, ignoring case.
// An empty needle list never matches.
func matchAny(haystack string, needles []string) (string, bool) {
	h := strings.ToLower(haystack)
	for _, n := range needles {
		if strings.Contains(h, strings.ToLower(n)) {
			return n, true
		}
	}
	return "", false
}
