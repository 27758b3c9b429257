package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/edgard/autoreply/internal/mail"
	"github.com/edgard/autoreply/internal/source"
)

// History limits for get_history.
const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = mail.HistoryCapacity
)

// EmailArgs describes an email submitted by the client.
type EmailArgs struct {
	Sender  string `json:"sender,omitempty" jsonschema:"Sender address, defaults to test.user@example.com"`
	Subject string `json:"subject,omitempty" jsonschema:"Subject line, defaults to Manual Test Inquiry"`
	Body    string `json:"body" jsonschema:"Email body text"`
}

// MessageResult is one message as reported to clients.
type MessageResult struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Subject   string `json:"subject"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	ReplyText string `json:"reply_text,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func toResult(m mail.Message) MessageResult {
	return MessageResult{
		ID:        m.ID,
		Sender:    m.Sender,
		Subject:   m.Subject,
		Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
		Status:    string(m.Status),
		ReplyText: m.ReplyText,
		Reason:    m.Reason,
	}
}

func (s *Server) handleClassify(ctx context.Context,
	_ *mcp.CallToolRequest, args EmailArgs) (*mcp.CallToolResult, MessageResult, error) {

	msg, err := source.Manual(args.Sender, args.Subject, args.Body, s.now())
	if err != nil {
		return nil, MessageResult{}, err
	}

	result, err := s.responder.Test(ctx, msg)
	if err != nil {
		return nil, MessageResult{}, fmt.Errorf("classify %s: %w", msg.ID, err)
	}

	s.log.InfoContext(ctx, "Classified email via MCP", "message_id", result.ID, "status", result.Status)
	return nil, toResult(result), nil
}

// StatsArgs takes no parameters.
type StatsArgs struct{}

// StatsResult reports the aggregate counters.
type StatsResult struct {
	Processed int    `json:"processed"`
	Replied   int    `json:"replied"`
	Ignored   int    `json:"ignored"`
	Failed    int    `json:"failed"`
	LastRun   string `json:"last_run"`
	Running   bool   `json:"running"`
	Connected bool   `json:"connected"`
}

func (s *Server) handleStats(_ context.Context,
	_ *mcp.CallToolRequest, _ StatsArgs) (*mcp.CallToolResult, StatsResult, error) {

	snap := s.responder.Snapshot()
	lastRun := ""
	if !snap.Stats.LastRun.IsZero() {
		lastRun = snap.Stats.LastRun.UTC().Format(time.RFC3339)
	}

	return nil, StatsResult{
		Processed: snap.Stats.TotalProcessed,
		Replied:   snap.Stats.TotalReplied,
		Ignored:   snap.Stats.TotalIgnored,
		Failed:    snap.Stats.Failed(),
		LastRun:   lastRun,
		Running:   snap.Running,
		Connected: snap.Connected,
	}, nil
}

// HistoryArgs filters get_history.
type HistoryArgs struct {
	Status string `json:"status,omitempty" jsonschema:"Only return messages with this status: pending, replied, ignored or failed"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of messages, 1 to 50, defaults to 10"`
}

// HistoryResult lists messages newest first.
type HistoryResult struct {
	Messages []MessageResult `json:"messages"`
}

func (s *Server) handleHistory(_ context.Context,
	_ *mcp.CallToolRequest, args HistoryArgs) (*mcp.CallToolResult, HistoryResult, error) {

	limit := args.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)

	history := s.responder.Snapshot().History
	items := history.Items()
	if args.Status != "" {
		status, err := mail.ParseStatus(args.Status)
		if err != nil {
			return nil, HistoryResult{}, err
		}
		items = history.Filter(status)
	}

	out := HistoryResult{Messages: make([]MessageResult, 0, min(limit, len(items)))}
	for _, m := range items[:min(limit, len(items))] {
		out.Messages = append(out.Messages, toResult(m))
	}
	return nil, out, nil
}

// SummaryResult carries a one-sentence summary.
type SummaryResult struct {
	Summary string `json:"summary"`
}

func (s *Server) handleSummarize(ctx context.Context,
	_ *mcp.CallToolRequest, args EmailArgs) (*mcp.CallToolResult, SummaryResult, error) {

	msg, err := source.Manual(args.Sender, args.Subject, args.Body, s.now())
	if err != nil {
		return nil, SummaryResult{}, err
	}

	model := s.responder.Snapshot().Settings.Model
	return nil, SummaryResult{Summary: s.summarizer.Summarize(ctx, msg, model)}, nil
}
