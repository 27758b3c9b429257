// Package app wires the responder, scheduler and optional Telegram surface
// together and manages their lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/autoreply/internal/app/tasks"
	"github.com/edgard/autoreply/internal/mail"
	"github.com/edgard/autoreply/internal/responder"
	"github.com/edgard/autoreply/internal/source"
)

// App is the long-running service.
type App struct {
	*Services

	scheduler *Scheduler
	tgBot     *tgbot.Bot
}

// New builds the scheduler around svc. tgBot may be nil.
func New(svc *Services, tgBot *tgbot.Bot) (*App, error) {
	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger:    svc.Logger,
		Responder: svc.Controller,
		Source:    svc.Source,
		Store:     svc.Store,
		Retention: svc.Config.Journal.Retention,
	})

	sched, err := NewScheduler(svc.Logger, svc.Config.Scheduler, taskMap)
	if err != nil {
		return nil, err
	}

	return &App{
		Services:  svc,
		scheduler: sched,
		tgBot:     tgBot,
	}, nil
}

// Seed records the demo history when configured to.
func (a *App) Seed() error {
	if !a.Config.Source.SeedHistory {
		return nil
	}
	return a.Controller.Seed(source.DemoMessages(time.Now())...)
}

// Connect runs the simulated account handshake, then starts processing.
func (a *App) Connect(ctx context.Context) error {
	if err := a.Account.Connect(ctx); err != nil {
		return err
	}
	a.Controller.SetConnected(true)
	a.Controller.SetRunning(true)
	return nil
}

// UpdateSettings swaps the controller settings and moves the synthetic
// source to the new interval when it changed.
func (a *App) UpdateSettings(s mail.Settings) error {
	prev := a.Controller.Settings()
	if err := a.Controller.UpdateSettings(s); err != nil {
		return err
	}

	next := a.Controller.Settings()
	if next.CheckIntervalSeconds == prev.CheckIntervalSeconds {
		return nil
	}
	if err := a.scheduler.Reschedule(tasks.SyntheticMail, next.CheckInterval()); err != nil {
		a.Logger.Warn("Failed to apply new check interval", "error", err)
	}
	return nil
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails. In-flight classifications finish before it returns.
func (a *App) Run(ctx context.Context) error {
	log := a.Logger.With("component", "orchestrator")
	log.Info("Starting orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Controller.Run(gCtx)
	})

	g.Go(func() error {
		if err := a.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		log.Info("Shutdown signal received, stopping scheduler...")
		if err := a.scheduler.Stop(); err != nil {
			log.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	if a.tgBot != nil {
		g.Go(func() error {
			log.Info("Starting Telegram bot listener...")
			a.tgBot.Start(gCtx)
			log.Info("Telegram bot listener stopped.")

			if gCtx.Err() == nil {
				return fmt.Errorf("telegram listener stopped unexpectedly")
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Orchestrator stopped due to error", "error", err)
		return err
	}

	log.Info("Orchestrator stopped gracefully.")
	return nil
}

// Snapshot returns the controller state.
func (a *App) Snapshot() responder.Snapshot {
	return a.Controller.Snapshot()
}

// Changed signals controller state changes.
func (a *App) Changed() <-chan struct{} {
	return a.Controller.Changed()
}

// SetRunning pauses or resumes the synthetic source.
func (a *App) SetRunning(running bool) {
	a.Controller.SetRunning(running)
}
