package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/autoreply/internal/mail"
	"github.com/edgard/autoreply/internal/source"
)

type testHandler struct {
	deps HandlerDeps
}

func (h testHandler) reply(ctx context.Context, update *models.Update) string {
	body := commandArgs(update)
	if body == "" {
		return msgProvideText
	}

	msg, err := source.Manual("", "", body, h.deps.now())
	if err != nil {
		return msgProvideText
	}

	result, err := h.deps.Responder.Test(ctx, msg)
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Manual test failed", "message_id", msg.ID, "error", err)
		return msgGeneralError
	}

	switch result.Status {
	case mail.StatusReplied:
		return fmt.Sprintf("✅ Replied:\n%s", result.ReplyText)
	default:
		return fmt.Sprintf("%s %s: %s", statusIcon(result.Status), result.Status, result.Reason)
	}
}

type runStateHandler struct {
	deps    HandlerDeps
	running bool
}

func (h runStateHandler) reply(context.Context, *models.Update) string {
	h.deps.Responder.SetRunning(h.running)
	if h.running {
		return "▶️ Auto-responder resumed."
	}
	return "⏸️ Auto-responder paused."
}
