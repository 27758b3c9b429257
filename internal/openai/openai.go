// Package openai drafts and summarises replies through any OpenAI-compatible
// chat completion endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/edgard/autoreply/internal/mail"
	"github.com/edgard/autoreply/internal/pipeline"
)

const providerName = "openai"

// DefaultModel is used when a request carries no model name.
const DefaultModel = openai.GPT4oMini

// ErrNoChoices is returned when the endpoint answers without any choice.
var ErrNoChoices = errors.New("no choices in completion response")

// Config holds the endpoint parameters.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// chatCompleter is the subset of *openai.Client used here.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client implements pipeline.Generator and pipeline.Summarizer.
type Client struct {
	api chatCompleter
	log *slog.Logger
}

var (
	_ pipeline.Generator  = (*Client)(nil)
	_ pipeline.Summarizer = (*Client)(nil)
)

// New creates a client for the configured endpoint.
func New(cfg Config, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return newClient(openai.NewClientWithConfig(apiCfg), log), nil
}

func newClient(api chatCompleter, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{api: api, log: log.With("component", "openai_client")}
}

// GenerateReply makes exactly one chat completion call.
func (c *Client) GenerateReply(ctx context.Context, req pipeline.ReplyRequest) (string, error) {
	model := modelOrDefault(req.Model)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: pipeline.ReplyPrompt(req),
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: requestTemperature(req.Temperature),
	})
	if err != nil {
		c.log.ErrorContext(ctx, "Chat completion failed", "model", model, "error", err)
		return "", &pipeline.GenerationError{Provider: providerName, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &pipeline.GenerationError{Provider: providerName, Err: ErrNoChoices}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Summarize returns a one-sentence summary, or a fallback text on failure.
func (c *Client) Summarize(ctx context.Context, m mail.Message, model string) string {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelOrDefault(model),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: pipeline.SummarySystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: pipeline.SummaryPrompt(m)},
		},
		MaxTokens: pipeline.SummaryMaxTokens,
	})
	if err != nil {
		c.log.ErrorContext(ctx, "Summary completion failed", "message_id", m.ID, "error", err)
		return pipeline.SummaryError
	}
	if len(resp.Choices) == 0 {
		return pipeline.SummaryUnavailable
	}
	if text := strings.TrimSpace(resp.Choices[0].Message.Content); text != "" {
		return text
	}
	return pipeline.SummaryUnavailable
}

func modelOrDefault(model string) string {
	if model == "" {
		return DefaultModel
	}
	return model
}

// requestTemperature keeps an explicit zero on the wire. The request field is
// omitempty, so 0 would otherwise fall back to the endpoint default.
func requestTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
