package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "sqlite": SQLite database file
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// RunEntry records one completed agent run.
// Keep it compact and schema-stable.
type RunEntry struct {
	Agent    string
	Started  time.Time
	Duration time.Duration
	OK       bool
	Status   int // HTTP status, 0 when the probe never got a response
	Error    string
}
