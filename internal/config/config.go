// Package config loads application configuration from defaults, an optional
// YAML file, an optional .env file and AUTOREPLY_* environment variables.
package config

import (
	"errors"
	"time"

	"github.com/edgard/autoreply/internal/mail"
)

// ErrConfiguration wraps every load or validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config is the complete application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	AI        AIConfig        `mapstructure:"ai"`
	Settings  mail.Settings   `mapstructure:"settings"`
	Source    SourceConfig    `mapstructure:"source"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// AIConfig configures the reply generation provider.
type AIConfig struct {
	Provider    string        `mapstructure:"provider"    validate:"oneof=gemini openai"`
	APIKey      string        `mapstructure:"api_key"     validate:"required"`
	BaseURL     string        `mapstructure:"base_url"    validate:"omitempty,url"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `mapstructure:"timeout"     validate:"min=1s,max=10m"`
}

// SourceConfig controls the synthetic message source.
type SourceConfig struct {
	Connected   bool `mapstructure:"connected"`
	SeedHistory bool `mapstructure:"seed_history"`
}

// JournalConfig locates the decision journal database.
type JournalConfig struct {
	Path      string        `mapstructure:"path"      validate:"required"`
	Retention time.Duration `mapstructure:"retention" validate:"min=0"`
}

// SchedulerConfig holds the per-task scheduling.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig schedules one task. A positive Interval takes precedence over
// the cron Schedule.
type TaskConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	Interval time.Duration `mapstructure:"interval" validate:"min=0"`
}

// TelegramConfig enables the optional Telegram surface when Token is set.
type TelegramConfig struct {
	Token string `mapstructure:"token"`
}
