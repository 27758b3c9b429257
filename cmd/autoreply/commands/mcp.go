package commands

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/autoreply/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the responder as MCP tools over stdio",
	Long: `Start an MCP server on stdin/stdout exposing classify_email, get_stats,
get_history and summarize_email. Logs go to stderr.`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	svc, cleanup, err := loadServices(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer cleanup()

	server := mcpserver.NewServer(mcpserver.Config{
		Responder:  svc.Controller,
		Summarizer: svc.Provider,
		Logger:     svc.Logger,
		Version:    Version,
	})

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.Controller.Run(gCtx)
	})
	g.Go(func() error {
		defer cancel()
		return server.Run(gCtx, &mcp.StdioTransport{})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
