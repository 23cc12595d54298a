package runner

import (
	"time"
)

// Config controls the runner service.
type Config struct {
	Enabled bool
	// Timezone is the IANA zone for frequency computations,
	// e.g. "Europe/Paris".
	Timezone string
	Workers  int
	// HistorySize bounds the in-memory run history ring.
	HistorySize int
	// LaunchRatePerSec caps probe launches across all agents.
	// 0 disables the limit.
	LaunchRatePerSec int
}

// AgentSpec is one scheduled agent, ready to run. Timeout must be
// positive; use DefaultProbeTimeout when the config leaves it unset.
type AgentSpec struct {
	Name    string
	URL     string
	Timeout time.Duration
	Trigger Trigger
}

// HistoryItem records one completed probe run.
type HistoryItem struct {
	Agent    string
	Started  time.Time
	Duration time.Duration
	OK       bool
	Status   int
	Error    string
}

type task struct {
	agent AgentSpec
}
