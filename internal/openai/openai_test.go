package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/edgard/autoreply/internal/mail"
	"github.com/edgard/autoreply/internal/pipeline"
)

type fakeAPI struct {
	resp openai.ChatCompletionResponse
	err  error
	reqs []openai.ChatCompletionRequest
}

func (f *fakeAPI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.reqs = append(f.reqs, req)
	return f.resp, f.err
}

func reply(text string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: text}}},
	}
}

func testClient(api chatCompleter) *Client {
	return newClient(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGenerateReply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		api      *fakeAPI
		want     string
		wantErr  bool
		messages int
	}{
		{name: "reply", api: &fakeAPI{resp: reply("  Hello!  ")}, want: "Hello!", messages: 2},
		{name: "empty content", api: &fakeAPI{resp: reply("")}, want: "", messages: 2},
		{name: "no choices", api: &fakeAPI{}, wantErr: true, messages: 2},
		{name: "api error", api: &fakeAPI{err: errors.New("429")}, wantErr: true, messages: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := testClient(tc.api).GenerateReply(context.Background(), pipeline.ReplyRequest{
				Sender:       "a@b.c",
				Subject:      "Order",
				Body:         "Where is it?",
				SystemPrompt: "Be kind.",
				Model:        "gpt-test",
				Temperature:  0.7,
			})
			if tc.wantErr {
				var genErr *pipeline.GenerationError
				require.ErrorAs(t, err, &genErr)
				require.Equal(t, "openai", genErr.Provider)
			} else {
				require.NoError(t, err)
				require.Equal(t, tc.want, got)
			}

			require.Len(t, tc.api.reqs, 1)
			req := tc.api.reqs[0]
			require.Equal(t, "gpt-test", req.Model)
			require.InDelta(t, 0.7, req.Temperature, 1e-6)
			require.Len(t, req.Messages, tc.messages)
			require.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
			require.Contains(t, req.Messages[1].Content, "Subject: Order")
		})
	}
}

func TestGenerateReplyKeepsZeroTemperature(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{resp: reply("ok")}
	_, err := testClient(api).GenerateReply(context.Background(), pipeline.ReplyRequest{Temperature: 0})
	require.NoError(t, err)

	body, err := json.Marshal(api.reqs[0])
	require.NoError(t, err)
	require.Contains(t, string(body), `"temperature"`)
	require.InDelta(t, 0, api.reqs[0].Temperature, 1e-6)
}

func TestGenerateReplyWithoutSystemPrompt(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{resp: reply("ok")}
	_, err := testClient(api).GenerateReply(context.Background(), pipeline.ReplyRequest{})
	require.NoError(t, err)
	require.Len(t, api.reqs[0].Messages, 1)
	require.Equal(t, DefaultModel, api.reqs[0].Model)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	m := mail.NewMessage("1", "a@b.c", "Invoice", "Please pay.", time.Now())

	tests := []struct {
		name string
		api  *fakeAPI
		want string
	}{
		{name: "text", api: &fakeAPI{resp: reply("Wants payment.")}, want: "Wants payment."},
		{name: "blank", api: &fakeAPI{resp: reply(" ")}, want: pipeline.SummaryUnavailable},
		{name: "no choices", api: &fakeAPI{}, want: pipeline.SummaryUnavailable},
		{name: "error", api: &fakeAPI{err: errors.New("down")}, want: pipeline.SummaryError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, testClient(tc.api).Summarize(context.Background(), m, "gpt-test"))
			require.Equal(t, pipeline.SummaryMaxTokens, tc.api.reqs[0].MaxTokens)
		})
	}
}

func TestNewRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := New(Config{}, nil)
	require.Error(t, err)

	c, err := New(Config{APIKey: "k", BaseURL: "http://localhost:1234/v1", Timeout: time.Second}, nil)
	require.NoError(t, err)
	require.NotNil(t, c)
}
