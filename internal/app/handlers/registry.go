package handlers

import (
	"context"
	"log/slog"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler describes one command registration.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// Messages shared by several handlers.
const (
	msgGeneralError = "❌ An error occurred. Please try again later."
	msgProvideText  = "ℹ️ Please provide the email body, e.g. /test What is the price of the basic plan?"
)

// replyFunc computes the reply text for an update.
type replyFunc func(ctx context.Context, update *models.Update) string

// RegisterAllCommands returns every command keyed by its slash name. mw is
// attached to each command, outermost first.
func RegisterAllCommands(deps HandlerDeps, mw ...tgbot.Middleware) map[string]RegisteredHandler {
	commands := map[string]replyFunc{
		"start":   startReply,
		"help":    helpReply,
		"stats":   statsHandler{deps}.reply,
		"history": historyHandler{deps}.reply,
		"journal": journalHandler{deps}.reply,
		"test":    testHandler{deps}.reply,
		"pause":   runStateHandler{deps, false}.reply,
		"resume":  runStateHandler{deps, true}.reply,
	}

	handlers := make(map[string]RegisteredHandler, len(commands))
	for name, fn := range commands {
		handlers["/"+name] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     name,
			Handler:     sender(deps.Logger.With("handler", name), fn),
			Middleware:  mw,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
		}
	}
	return handlers
}

// sender adapts a replyFunc into a bot handler that sends its text back.
func sender(log *slog.Logger, fn replyFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			log.WarnContext(ctx, "Handler received update without message", "update_id", update.ID)
			return
		}

		chatID := update.Message.Chat.ID
		text := fn(ctx, update)
		if text == "" {
			return
		}

		if _, err := b.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
			log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
			return
		}
		log.DebugContext(ctx, "Reply sent", "chat_id", chatID, "length", len(text))
	}
}

// commandArgs returns the text following the command word.
func commandArgs(update *models.Update) string {
	if update.Message == nil {
		return ""
	}
	text := strings.TrimSpace(update.Message.Text)
	if i := strings.IndexAny(text, " \n"); i >= 0 {
		return strings.TrimSpace(text[i+1:])
	}
	return ""
}
