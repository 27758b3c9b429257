// Package commands implements the autoreply command-line interface.
package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var (
	// configPath is the YAML configuration file.
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "autoreply",
	Short: "Simulated email auto-responder",
	Long: `autoreply decides for each incoming email whether to ignore it (blacklisted
sender, no keyword match) or to answer it with an AI-drafted reply.

Mail is synthetic: messages are generated on a timer or submitted by hand.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI with ctx as the command context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "",
		"Path to configuration file (default: ./config.yaml)",
	)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(mcpCmd)
}
