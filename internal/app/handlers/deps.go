// Package handlers contains the Telegram command handlers and their
// registration table.
package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/autoreply/internal/database"
	"github.com/edgard/autoreply/internal/mail"
	"github.com/edgard/autoreply/internal/responder"
)

// Responder is the controller surface the handlers use.
type Responder interface {
	Snapshot() responder.Snapshot
	Test(ctx context.Context, msg mail.Message) (mail.Message, error)
	SetRunning(running bool)
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Responder Responder
	// Store is nil when the journal is unavailable.
	Store database.Store
	Now   func() time.Time
}

func (d HandlerDeps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
