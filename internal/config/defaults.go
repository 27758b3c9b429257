package config

import "time"

// Task names known to the scheduler.
const (
	TaskSyntheticMail      = "synthetic_mail"
	TaskJournalMaintenance = "journal_maintenance"
)

// DefaultSystemPrompt is the system instruction for reply drafts.
const DefaultSystemPrompt = "You are a professional customer support assistant. " +
	"Reply politely and concisely, answer the sender's question where possible, " +
	"and never invent prices, dates or commitments that are not in the email."

var defaults = map[string]any{
	"log.level": "info",
	"log.json":  false,

	"ai.provider":    "gemini",
	"ai.api_key":     "",
	"ai.base_url":    "",
	"ai.temperature": 0.7,
	"ai.timeout":     time.Minute,

	"settings.blacklist":              []string{"spam.com", "noreply", "marketing"},
	"settings.keywords":               []string{"help", "price", "order", "support", "inquiry"},
	"settings.filter_mode":            "keywords",
	"settings.system_prompt":          DefaultSystemPrompt,
	"settings.model":                  "gemini-2.5-flash",
	"settings.check_interval_seconds": 30,
	"settings.auto_pilot":             false,

	"source.connected":    false,
	"source.seed_history": true,

	"journal.path":      ":memory:",
	"journal.retention": 24 * time.Hour,

	"scheduler.tasks.synthetic_mail.enabled":       true,
	"scheduler.tasks.synthetic_mail.schedule":      "",
	"scheduler.tasks.synthetic_mail.interval":      time.Duration(0),
	"scheduler.tasks.journal_maintenance.enabled":  true,
	"scheduler.tasks.journal_maintenance.schedule": "0 */15 * * * *",
	"scheduler.tasks.journal_maintenance.interval": time.Duration(0),

	"telegram.token": "",
}
