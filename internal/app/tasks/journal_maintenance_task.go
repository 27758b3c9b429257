package tasks

import (
	"context"
	"fmt"
	"time"
)

// newJournalMaintenanceTask prunes decisions older than the retention window
// and vacuums the database.
func newJournalMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", JournalMaintenance)

	return func(ctx context.Context) error {
		startTime := time.Now()

		if deps.Retention > 0 {
			cutoff := deps.Now().Add(-deps.Retention)
			deleted, err := deps.Store.DeleteDecisionsBefore(ctx, cutoff)
			if err != nil {
				log.ErrorContext(ctx, "Failed to prune decision journal", "error", err)
				return fmt.Errorf("journal pruning failed: %w", err)
			}
			log.InfoContext(ctx, "Pruned decision journal", "deleted", deleted, "cutoff", cutoff)
		}

		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "SQL maintenance failed", "error", err, "duration", time.Since(startTime))
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Journal maintenance completed successfully", "duration", time.Since(startTime))
		return nil
	}
}
