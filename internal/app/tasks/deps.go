// Package tasks implements the scheduled jobs: synthetic mail arrival and
// decision journal maintenance.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/autoreply/internal/database"
	"github.com/edgard/autoreply/internal/mail"
)

// Submitter accepts synthetic messages for background classification.
type Submitter interface {
	Running() bool
	Submit(ctx context.Context, msg mail.Message) error
}

// MessageSource fabricates incoming messages.
type MessageSource interface {
	Next() mail.Message
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger    *slog.Logger
	Responder Submitter
	Source    MessageSource
	// Store is nil when the journal is disabled.
	Store     database.Store
	Retention time.Duration
	Now       func() time.Time
}
