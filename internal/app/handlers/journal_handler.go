package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/autoreply/internal/mail"
)

type journalHandler struct {
	deps HandlerDeps
}

func (h journalHandler) reply(ctx context.Context, update *models.Update) string {
	if h.deps.Store == nil {
		return "The decision journal is disabled."
	}

	var status mail.Status
	if arg := commandArgs(update); arg != "" {
		parsed, err := mail.ParseStatus(strings.ToLower(arg))
		if err != nil || !parsed.IsTerminal() {
			return fmt.Sprintf("Unknown status %q. Use replied, ignored or failed.", arg)
		}
		status = parsed
	}

	decisions, err := h.deps.Store.GetRecentDecisions(ctx, status, historyLimit)
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to read decision journal", "error", err)
		return msgGeneralError
	}
	if len(decisions) == 0 {
		return "No decisions recorded."
	}

	var sb strings.Builder
	sb.WriteString("📒 Decision journal:\n")
	for _, d := range decisions {
		sb.WriteString(formatMessageLine(d.Message()))
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}
