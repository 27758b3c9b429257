package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/edgard/autoreply/internal/app/tasks"
	"github.com/edgard/autoreply/internal/config"
)

// Scheduler runs the registered tasks on their configured cadence.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc
	jobs      map[string]uuid.UUID
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a scheduler for the given tasks.
func NewScheduler(logger *slog.Logger, cfg config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "scheduler")

	s, err := gocron.NewScheduler(gocron.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    log,
		cfg:       cfg,
		taskMap:   taskMap,
		jobs:      make(map[string]uuid.UUID),
	}, nil
}

// Start schedules every enabled task and starts ticking.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	scheduled := 0
	for name, taskCfg := range s.cfg.Tasks {
		if !taskCfg.Enabled {
			s.logger.Info("Skipping disabled task", "task_name", name)
			continue
		}
		if _, ok := s.taskMap[name]; !ok {
			s.logger.Warn("Scheduled task configured but not found in registry, skipping", "task_name", name)
			continue
		}

		def, err := jobDefinition(taskCfg)
		if err != nil {
			s.logger.Warn("Scheduled task has no usable schedule, skipping", "task_name", name, "error", err)
			continue
		}

		job, err := s.scheduler.NewJob(def, s.task(name), gocron.WithName(name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule))
		if err != nil {
			s.logger.Error("Failed to schedule task", "task_name", name, "error", err)
			continue
		}
		s.jobs[name] = job.ID()

		s.logger.Info("Scheduled task", "task_name", name, "schedule", taskCfg.Schedule, "interval", taskCfg.Interval)
		scheduled++
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler initialized and started", "tasks_scheduled", scheduled)
	return nil
}

// Reschedule switches a running task to a fixed interval.
func (s *Scheduler) Reschedule(name string, interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("task %s is not scheduled", name)
	}

	job, err := s.scheduler.Update(id, gocron.DurationJob(interval), s.task(name), gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return fmt.Errorf("failed to reschedule task %s: %w", name, err)
	}
	s.jobs[name] = job.ID()

	s.logger.Info("Rescheduled task", "task_name", name, "interval", interval)
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Info("Scheduler is not running, nothing to stop.")
		return nil
	}

	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}

// task wraps a registered task with start and finish logging.
func (s *Scheduler) task(name string) gocron.Task {
	taskFunc := s.taskMap[name]
	return gocron.NewTask(
		func(ctx context.Context, name string) {
			s.logger.Debug("Running scheduled task", "task_name", name)
			startTime := time.Now()
			if err := taskFunc(ctx); err != nil {
				s.logger.Error("Scheduled task failed", "task_name", name, "error", err)
			}
			s.logger.Debug("Finished scheduled task", "task_name", name, "duration", time.Since(startTime))
		},
		context.Background(),
		name,
	)
}

func jobDefinition(cfg config.TaskConfig) (gocron.JobDefinition, error) {
	switch {
	case cfg.Interval > 0:
		return gocron.DurationJob(cfg.Interval), nil
	case cfg.Schedule != "":
		return gocron.CronJob(cfg.Schedule, true), nil
	default:
		return nil, fmt.Errorf("neither interval nor schedule set")
	}
}
