package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/autoreply/internal/account"
	"github.com/edgard/autoreply/internal/config"
	"github.com/edgard/autoreply/internal/database"
	"github.com/edgard/autoreply/internal/gemini"
	"github.com/edgard/autoreply/internal/openai"
	"github.com/edgard/autoreply/internal/pipeline"
	"github.com/edgard/autoreply/internal/responder"
	"github.com/edgard/autoreply/internal/source"
)

// Provider drafts and summarises replies.
type Provider interface {
	pipeline.Generator
	pipeline.Summarizer
}

// Services holds the components shared by every command.
type Services struct {
	Config     *config.Config
	Logger     *slog.Logger
	Provider   Provider
	Controller *responder.Controller
	Store      database.Store
	Account    *account.Connector
	Source     *source.Synthetic

	db *sqlx.DB
}

// NewProvider builds the configured generation provider.
func NewProvider(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return openai.New(openai.Config{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}, log)
	case "gemini", "":
		return gemini.NewClient(ctx, gemini.Config{APIKey: cfg.APIKey}, log)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// NewServices opens the journal, builds the provider and wires the controller.
// The caller must Close the result.
func NewServices(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Services, error) {
	provider, err := NewProvider(ctx, cfg.AI, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s provider: %w", cfg.AI.Provider, err)
	}
	return newServices(cfg, log, provider)
}

func newServices(cfg *config.Config, log *slog.Logger, provider Provider) (*Services, error) {
	db, err := database.NewDB(cfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open decision journal: %w", err)
	}
	store := database.NewStore(db, log)

	classifier := pipeline.New(provider,
		pipeline.WithTemperature(cfg.AI.Temperature),
		pipeline.WithLogger(log))

	controller, err := responder.NewController(classifier, cfg.Settings,
		responder.WithLogger(log),
		responder.WithTimeout(cfg.AI.Timeout),
		responder.WithRecorder(database.NewJournal(store)))
	if err != nil {
		database.CloseDB(db)
		return nil, fmt.Errorf("failed to create responder: %w", err)
	}

	acct := account.NewConnector(account.DefaultHandshake, log)
	if cfg.Source.Connected {
		acct.MarkConnected()
		controller.SetConnected(true)
	}

	return &Services{
		Config:     cfg,
		Logger:     log,
		Provider:   provider,
		Controller: controller,
		Store:      store,
		Account:    acct,
		Source:     source.NewSynthetic(acct),
		db:         db,
	}, nil
}

// Close releases the journal database.
func (s *Services) Close() {
	database.CloseDB(s.db)
}
