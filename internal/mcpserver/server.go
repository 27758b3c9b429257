// Package mcpserver exposes the responder as MCP tools over stdio.
package mcpserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/edgard/autoreply/internal/mail"
	"github.com/edgard/autoreply/internal/pipeline"
	"github.com/edgard/autoreply/internal/responder"
)

// Responder is the controller surface the tools use.
type Responder interface {
	Snapshot() responder.Snapshot
	Test(ctx context.Context, msg mail.Message) (mail.Message, error)
}

// Config holds the server dependencies.
type Config struct {
	Responder  Responder
	Summarizer pipeline.Summarizer
	Logger     *slog.Logger
	Version    string
	Now        func() time.Time
}

// Server wraps the MCP server.
type Server struct {
	server     *mcp.Server
	responder  Responder
	summarizer pipeline.Summarizer
	log        *slog.Logger
	now        func() time.Time
}

// NewServer creates a server with every tool registered.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "autoreply",
			Version: cfg.Version,
		}, nil),
		responder:  cfg.Responder,
		summarizer: cfg.Summarizer,
		log:        cfg.Logger.With("component", "mcp"),
		now:        cfg.Now,
	}
	s.registerTools()
	return s
}

// Run serves on transport until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.log.InfoContext(ctx, "MCP server started")
	defer s.log.InfoContext(ctx, "MCP server stopped")
	return s.server.Run(ctx, transport)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_email",
		Description: "Run an email through the auto-responder rules (blacklist, keyword gate, AI reply) and record the outcome.",
	}, s.handleClassify)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_stats",
		Description: "Return the processed, replied, ignored and failed counters and the last run time.",
	}, s.handleStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_history",
		Description: "List the most recent messages, newest first, optionally filtered by status.",
	}, s.handleHistory)

	if s.summarizer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "summarize_email",
			Description: "Summarize an email in one short sentence without recording it.",
		}, s.handleSummarize)
	}
}
