package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/edgard/autoreply/internal/responder"
)

// newSyntheticMailTask submits one synthetic message per tick while the
// responder is running.
func newSyntheticMailTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", SyntheticMail)

	return func(ctx context.Context) error {
		if !deps.Responder.Running() {
			log.DebugContext(ctx, "Responder paused, skipping synthetic message")
			return nil
		}

		msg := deps.Source.Next()
		if err := deps.Responder.Submit(ctx, msg); err != nil {
			if errors.Is(err, responder.ErrStopped) {
				log.DebugContext(ctx, "Responder stopped, dropping synthetic message", "message_id", msg.ID)
				return nil
			}
			return fmt.Errorf("failed to submit synthetic message: %w", err)
		}

		log.DebugContext(ctx, "Synthetic message submitted", "message_id", msg.ID, "sender", msg.Sender)
		return nil
	}
}
