package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"
)

const welcomeText = "👋 Welcome! I report on the email auto-responder. Send /help to see what I can do."

const helpText = `Available commands:
/stats - processed, replied, ignored and failed counts
/history - the most recent messages
/journal [replied|ignored|failed] - recorded decisions
/test <email body> - classify a message right now
/pause - stop taking synthetic mail
/resume - start taking synthetic mail`

func startReply(context.Context, *models.Update) string {
	return welcomeText
}

func helpReply(context.Context, *models.Update) string {
	return helpText
}
