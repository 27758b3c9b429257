// Package gemini drafts and summarises replies through Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/edgard/autoreply/internal/mail"
	"github.com/edgard/autoreply/internal/pipeline"
)

// Config holds the Gemini connection parameters.
type Config struct {
	APIKey string
}

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements pipeline.Generator and pipeline.Summarizer.
type Client struct {
	models contentGenerator
	log    *slog.Logger
}

var (
	_ pipeline.Generator  = (*Client)(nil)
	_ pipeline.Summarizer = (*Client)(nil)
)

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, cfg Config, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	c := newClient(gi.Models, log)
	c.log.Info("Gemini client initialized successfully")
	return c, nil
}

func newClient(models contentGenerator, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		models: models,
		log:    log.With("component", "gemini_client"),
	}
}

// GenerateReply makes exactly one GenerateContent call. Any API failure is
// returned as a *pipeline.GenerationError; an empty response is not an error.
func (c *Client) GenerateReply(ctx context.Context, req pipeline.ReplyRequest) (string, error) {
	model := modelOrDefault(req.Model)
	c.log.DebugContext(ctx, "Generating reply", "model", model, "sender", req.Sender)

	temperature := req.Temperature
	cfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(pipeline.ReplyPrompt(req), genai.RoleUser)}

	resp, err := c.models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini reply generation failed", "model", model, "error", err)
		return "", &pipeline.GenerationError{Provider: providerName, Err: err}
	}

	return c.extractText(ctx, "reply", resp), nil
}

// Summarize returns a one-sentence summary, or a fallback text on failure.
func (c *Client) Summarize(ctx context.Context, m mail.Message, model string) string {
	model = modelOrDefault(model)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(pipeline.SummarySystemInstruction, genai.RoleUser),
		MaxOutputTokens:   pipeline.SummaryMaxTokens,
	}
	contents := []*genai.Content{genai.NewContentFromText(pipeline.SummaryPrompt(m), genai.RoleUser)}

	resp, err := c.models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini summarization failed", "message_id", m.ID, "error", err)
		return pipeline.SummaryError
	}

	if text := c.extractText(ctx, "summary", resp); text != "" {
		return text
	}
	return pipeline.SummaryUnavailable
}

// extractText returns the response text, logging why it is empty when it is.
func (c *Client) extractText(ctx context.Context, op string, resp *genai.GenerateContentResponse) string {
	if resp == nil {
		c.log.WarnContext(ctx, "Gemini returned no response", "operation", op)
		return ""
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		reason := string(fb.BlockReason)
		if fb.BlockReasonMessage != "" {
			reason = fb.BlockReasonMessage
		}
		c.log.WarnContext(ctx, "Gemini request blocked", "operation", op, "reason", reason)
		return ""
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "operation", op)
		return ""
	}

	text := resp.Text()
	if text == "" {
		c.log.WarnContext(ctx, "Gemini response text is empty", "operation", op,
			"finish_reason", resp.Candidates[0].FinishReason)
	}
	return text
}

func modelOrDefault(model string) string {
	if model == "" {
		return DefaultModel
	}
	return model
}
