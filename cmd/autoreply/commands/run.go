package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/autoreply/internal/app"
	"github.com/edgard/autoreply/internal/app/handlers"
	"github.com/edgard/autoreply/internal/config"
	"github.com/edgard/autoreply/internal/logger"
	"github.com/edgard/autoreply/internal/telegram"
	"github.com/edgard/autoreply/internal/tui"
)

var (
	runDashboard bool
	runConnect   bool
	runPaused    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the auto-responder service",
	Long: `Run the responder, the synthetic mail source, the journal maintenance job
and, when a token is configured, the Telegram bot.

With --dashboard a live terminal dashboard is shown and logs are written to
autoreply.log instead of stdout.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runDashboard, "dashboard", false, "Show the live terminal dashboard")
	runCmd.Flags().BoolVar(&runConnect, "connect", false, "Connect the simulated mail account at startup")
	runCmd.Flags().BoolVar(&runPaused, "paused", false, "Start with the synthetic source paused")
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var log *slog.Logger
	if runDashboard {
		var closer io.Closer
		log, closer, err = logger.NewFileLogger(logger.DashboardLogFile, cfg.Log.Level, cfg.Log.JSON)
		if err != nil {
			return err
		}
		defer closer.Close()
	} else {
		log = logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	}
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	svc, cleanup, err := buildServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	tg, err := newTelegram(cfg, svc, log)
	if err != nil {
		return err
	}

	a, err := app.New(svc, tg)
	if err != nil {
		return err
	}
	if err := a.Seed(); err != nil {
		return fmt.Errorf("failed to seed history: %w", err)
	}
	a.SetRunning(!runPaused)

	if err := serve(ctx, a); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSummary(a.Snapshot().Stats))
	return nil
}

// serve runs the app, the optional account handshake and the dashboard
// until ctx is cancelled or the dashboard quits.
func serve(ctx context.Context, a *app.App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Run(gCtx)
	})

	if runConnect {
		g.Go(func() error {
			if err := a.Connect(gCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.Logger.Warn("Account connection failed", "error", err)
			}
			return nil
		})
	}

	if runDashboard {
		g.Go(func() error {
			defer cancel()
			_, err := tui.Run(gCtx, a)
			return err
		})
	}

	return g.Wait()
}

func newTelegram(cfg *config.Config, svc *app.Services, log *slog.Logger) (*tgbot.Bot, error) {
	if cfg.Telegram.Token == "" {
		return nil, nil
	}

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log)
	if err != nil {
		return nil, err
	}

	cmds := handlers.RegisterAllCommands(handlers.HandlerDeps{
		Logger:    log,
		Responder: svc.Controller,
		Store:     svc.Store,
	}, logger.Middleware(log))
	if err := telegram.RegisterHandlers(tg, log, cmds); err != nil {
		return nil, fmt.Errorf("failed to register Telegram handlers: %w", err)
	}
	return tg, nil
}
