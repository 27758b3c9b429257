package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/autoreply/internal/app"
	"github.com/edgard/autoreply/internal/mail"
	"github.com/edgard/autoreply/internal/source"
	"github.com/edgard/autoreply/internal/tui"
)

var (
	testBody      string
	testSender    string
	testSubject   string
	testSummarize bool
	testFormat    string
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Classify one email with the current settings",
	Long: `Submit a single email through the decision rules and print the outcome.

Sender and subject default to test.user@example.com and "Manual Test Inquiry".`,
	RunE: runTest,
}

func init() {
	testCmd.Flags().StringVar(&testBody, "body", "", "Email body (required)")
	testCmd.Flags().StringVar(&testSender, "sender", source.DefaultTestSender, "Sender address")
	testCmd.Flags().StringVar(&testSubject, "subject", source.DefaultTestSubject, "Subject line")
	testCmd.Flags().BoolVar(&testSummarize, "summarize", false, "Also print a one-sentence summary")
	testCmd.Flags().StringVar(&testFormat, "format", "text", "Output format: text or json")
	_ = testCmd.MarkFlagRequired("body")
}

// testOutput is the JSON form of a test result.
type testOutput struct {
	Message mail.Message `json:"message"`
	Summary string       `json:"summary,omitempty"`
}

func runTest(cmd *cobra.Command, _ []string) error {
	if testFormat != "text" && testFormat != "json" {
		return fmt.Errorf("unknown format %q, use text or json", testFormat)
	}

	msg, err := source.Manual(testSender, testSubject, testBody, time.Now())
	if err != nil {
		return err
	}

	svc, cleanup, err := loadServices(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := classifyOnce(cmd.Context(), svc, msg, testSummarize)
	if err != nil {
		return err
	}
	return printTestOutput(cmd.OutOrStdout(), out, testFormat)
}

// classifyOnce runs the controller just long enough to classify msg.
func classifyOnce(ctx context.Context, svc *app.Services, msg mail.Message, summarize bool) (testOutput, error) {
	runCtx, cancel := context.WithCancel(ctx)
	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return svc.Controller.Run(gCtx)
	})

	var out testOutput
	g.Go(func() error {
		defer cancel()

		result, err := svc.Controller.Test(gCtx, msg)
		if err != nil {
			return err
		}
		out.Message = result
		if summarize {
			out.Summary = svc.Provider.Summarize(gCtx, msg, svc.Controller.Settings().Model)
		}
		return nil
	})

	err := g.Wait()
	return out, err
}

func printTestOutput(w io.Writer, out testOutput, format string) error {
	if format == "json" {
		return outputJSON(w, out)
	}
	_, err := fmt.Fprintln(w, tui.RenderResult(out.Message, out.Summary))
	return err
}
