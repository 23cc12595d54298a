package config

import (
	"agentsched/internal/frequency"
)

// Config is the daemon configuration.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	Logging   LoggingConfig          `json:"logging"`
	Scheduler SchedulerConfig        `json:"scheduler"`
	Storage   *StorageConfig         `json:"storage,omitempty"`
	Notifier  *NotifierConfig        `json:"notifier,omitempty"`
	Agents    map[string]AgentConfig `json:"agents"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// SchedulerConfig controls the runner service.
//
// Timezone is an IANA zone name; window and weekday computations for
// agent frequencies happen in this zone. Empty selects the default
// (Europe/Paris).
type SchedulerConfig struct {
	Enabled  bool   `json:"enabled"`
	Timezone string `json:"timezone,omitempty"`

	// Workers sizes the probe worker pool. Default 2.
	Workers int `json:"workers,omitempty"`
	// HistorySize bounds the in-memory run history ring. Default 200.
	HistorySize int `json:"history_size,omitempty"`
	// LaunchRatePerSec caps probe launches across all agents. 0 disables
	// the limit.
	LaunchRatePerSec int `json:"launch_rate_per_sec,omitempty"`
}

// StorageConfig controls the optional persistence layer. Nil or an
// empty driver disables it.
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

// NotifierConfig controls the optional Telegram failure notifier.
type NotifierConfig struct {
	Enabled    bool   `json:"enabled"`
	Token      string `json:"token"`
	ChatID     int64  `json:"chat_id"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
	QueueSize  int    `json:"queue_size,omitempty"`
}

// AgentConfig declares one recurring data agent.
//
// Exactly one of Frequency or Cron must be set. Frequency uses the
// declarative recurrence model (interval/daily/weekly); Cron accepts a
// raw 5-field cron expression or descriptor ("@hourly").
type AgentConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	// Timeout bounds one probe run. Default "30s".
	Timeout   string            `json:"timeout,omitempty"`
	Frequency *frequency.Config `json:"frequency,omitempty"`
	Cron      string            `json:"cron,omitempty"`
}
