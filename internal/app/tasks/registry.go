package tasks

import (
	"context"
	"time"

	"github.com/edgard/autoreply/internal/config"
)

// ScheduledTaskFunc is the signature of every scheduled task. The context
// provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// Task names, matching the scheduler.tasks configuration keys.
const (
	SyntheticMail      = config.TaskSyntheticMail
	JournalMaintenance = config.TaskJournalMaintenance
)

// RegisterAllTasks returns every task keyed by its configuration name.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	tasks := make(map[string]ScheduledTaskFunc)
	tasks[SyntheticMail] = newSyntheticMailTask(deps)
	if deps.Store != nil {
		tasks[JournalMaintenance] = newJournalMaintenanceTask(deps)
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
