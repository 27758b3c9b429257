package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/edgard/autoreply/internal/app"
	"github.com/edgard/autoreply/internal/config"
	"github.com/edgard/autoreply/internal/logger"
)

// loadServices loads the configuration and builds the shared services
// logging to w. The returned cleanup closes them.
func loadServices(ctx context.Context, w io.Writer) (*app.Services, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(w, cfg.Log.Level, cfg.Log.JSON)
	return buildServices(ctx, cfg, log)
}

func buildServices(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app.Services, func(), error) {
	svc, err := app.NewServices(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return svc, svc.Close, nil
}

func outputJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
