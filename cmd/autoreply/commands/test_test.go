package commands

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edgard/autoreply/internal/mail"
)

func TestPrintTestOutput(t *testing.T) {
	t.Parallel()

	msg, err := mail.NewMessage("test-1", "a@b.c", "Hi", "price?", time.Unix(0, 0)).Reply("It is $10.")
	require.NoError(t, err)
	out := testOutput{Message: msg, Summary: "Asks about price."}

	var buf bytes.Buffer
	require.NoError(t, printTestOutput(&buf, out, "json"))

	var decoded testOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "It is $10.", decoded.Message.ReplyText)
	require.Equal(t, mail.StatusReplied, decoded.Message.Status)
	require.Equal(t, "Asks about price.", decoded.Summary)

	buf.Reset()
	require.NoError(t, printTestOutput(&buf, out, "text"))
	require.Contains(t, buf.String(), "It is $10.")
	require.Contains(t, buf.String(), "Asks about price.")
}

func TestRootRegistersCommands(t *testing.T) {
	t.Parallel()

	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"run", "test", "mcp"})
	require.NotNil(t, testCmd.Flags().Lookup("summarize"))
	require.NotNil(t, runCmd.Flags().Lookup("dashboard"))
}
