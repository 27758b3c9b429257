package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/autoreply/internal/mail"
)

// historyLimit is how many messages /history shows.
const historyLimit = 10

type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) reply(context.Context, *models.Update) string {
	snap := h.deps.Responder.Snapshot()
	state := "paused"
	if snap.Running {
		state = "running"
	}

	return fmt.Sprintf("📊 Auto-responder (%s, filter: %s)\nProcessed: %d\nReplied: %d\nIgnored: %d\nFailed: %d\nLast run: %s",
		state, snap.Settings.FilterMode,
		snap.Stats.TotalProcessed, snap.Stats.TotalReplied, snap.Stats.TotalIgnored, snap.Stats.Failed(),
		snap.Stats.LastRunLabel())
}

type historyHandler struct {
	deps HandlerDeps
}

func (h historyHandler) reply(context.Context, *models.Update) string {
	items := h.deps.Responder.Snapshot().History.Recent(historyLimit)
	if len(items) == 0 {
		return "No messages yet."
	}

	var sb strings.Builder
	sb.WriteString("🕑 Recent messages:\n")
	for _, m := range items {
		sb.WriteString(formatMessageLine(m))
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatMessageLine(m mail.Message) string {
	line := fmt.Sprintf("%s %s | %s | %s", statusIcon(m.Status), m.Timestamp.Format("15:04"), m.Sender, m.Subject)
	if m.Reason != "" {
		line += " (" + m.Reason + ")"
	}
	return line
}

func statusIcon(s mail.Status) string {
	switch s {
	case mail.StatusReplied:
		return "✅"
	case mail.StatusIgnored:
		return "🚫"
	case mail.StatusFailed:
		return "⚠️"
	default:
		return "⏳"
	}
}
