package mail

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FilterMode selects whether the keyword gate is active.
type FilterMode string

// Filter modes.
const (
	FilterKeywords FilterMode = "keywords"
	FilterAll      FilterMode = "all"
)

// Settings is the rule configuration handed to every pipeline call.
// Callers pass a snapshot; the pipeline never mutates it.
type Settings struct {
	Blacklist            []string   `mapstructure:"blacklist"              json:"blacklist"`
	Keywords             []string   `mapstructure:"keywords"               json:"keywords"`
	FilterMode           FilterMode `mapstructure:"filter_mode"            json:"filter_mode"            validate:"required,oneof=keywords all"`
	SystemPrompt         string     `mapstructure:"system_prompt"          json:"system_prompt"`
	Model                string     `mapstructure:"model"                  json:"model"                  validate:"required"`
	CheckIntervalSeconds int        `mapstructure:"check_interval_seconds" json:"check_interval_seconds" validate:"min=10,max=300"`
	// AutoPilot is carried for the dashboard toggle; no decision rule reads it.
	AutoPilot bool `mapstructure:"auto_pilot" json:"auto_pilot"`
}

var settingsValidator = validator.New()

// Validate checks the settings against their field constraints.
func (s Settings) Validate() error {
	if err := settingsValidator.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// Clone returns a deep copy so the caller can hand it to concurrent readers.
func (s Settings) Clone() Settings {
	s.Blacklist = slices.Clone(s.Blacklist)
	s.Keywords = slices.Clone(s.Keywords)
	return s
}

// Normalized trims list entries and drops empty ones, the way the settings
// form splits its comma-separated inputs.
func (s Settings) Normalized() Settings {
	s.Blacklist = NormalizeList(s.Blacklist)
	s.Keywords = NormalizeList(s.Keywords)
	return s
}

// NormalizeList trims every entry and removes blanks.
func NormalizeList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// CheckInterval returns the synthetic source cadence.
func (s Settings) CheckInterval() time.Duration {
	return time.Duration(s.CheckIntervalSeconds) * time.Second
}
