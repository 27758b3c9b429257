package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. AUTOREPLY_AI_API_KEY.
const EnvPrefix = "AUTOREPLY"

// Load reads configuration in increasing precedence: defaults, the YAML file
// at path (missing is fine), then environment variables, after loading any
// .env file in the working directory. An empty path looks for ./config.yaml.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: failed to load .env: %v", ErrConfiguration, err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
		slog.Debug("Config file not found, using defaults and environment", "path", path)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	cfg.Settings = cfg.Settings.Normalized()
	cfg.applyDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	for name, task := range c.Scheduler.Tasks {
		if task.Enabled && task.Interval <= 0 && task.Schedule == "" {
			return fmt.Errorf("%w: task %s is enabled without a schedule or interval", ErrConfiguration, name)
		}
	}
	return nil
}

// applyDerived fills values that default from other settings.
func (c *Config) applyDerived() {
	if c.Scheduler.Tasks == nil {
		c.Scheduler.Tasks = make(map[string]TaskConfig)
	}
	if task, ok := c.Scheduler.Tasks[TaskSyntheticMail]; ok && task.Interval <= 0 && task.Schedule == "" {
		task.Interval = c.Settings.CheckInterval()
		c.Scheduler.Tasks[TaskSyntheticMail] = task
	}
}
