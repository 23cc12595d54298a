package frequency

import (
	"strings"
	"time"
)

// Kind discriminates the recurrence shape of a Config.
type Kind string

const (
	KindInterval Kind = "interval"
	KindDaily    Kind = "daily"
	KindWeekly   Kind = "weekly"
)

// Config describes how often something should run.
//
// This is a tagged variant: Kind selects which fields are meaningful.
// Fields irrelevant to the active kind are ignored by computation but
// may be present (the wire shape is loose; Validate is the boundary).
//
//   - interval: IntervalMinutes required (> 0). JitterMinutes optional,
//     at most half the interval. WindowStart/WindowEnd optional; when both
//     are set they constrain jittered runs to a recurring daily band.
//   - daily: WindowStart/WindowEnd required.
//   - weekly: WindowStart/WindowEnd and DaysOfWeek required.
//
// Window bounds are "HH:mm" 24-hour strings. DaysOfWeek uses 0=Sunday
// through 6=Saturday, matching time.Weekday.
type Config struct {
	Kind            Kind   `json:"type"`
	IntervalMinutes int    `json:"interval_minutes,omitempty"`
	JitterMinutes   int    `json:"jitter_minutes,omitempty"`
	WindowStart     string `json:"window_start,omitempty"`
	WindowEnd       string `json:"window_end,omitempty"`
	DaysOfWeek      []int  `json:"days_of_week,omitempty"`
}

// NextRun is the result of a next-run computation.
type NextRun struct {
	// At is the absolute next-run instant.
	At time.Time
	// Delay is At minus the reference "now".
	Delay time.Duration
	// Description is a human-readable rendering of the local next-run
	// date/time. It is for display only, not for parsing.
	Description string
}

// Validation is the advisory result of Validate. Errors accumulate so a
// caller can display every problem at once.
type Validation struct {
	Valid  bool
	Errors []string
}

// ConfigError is returned by Scheduler.NextRun for an invalid Config.
// It carries the full list of validation errors.
type ConfigError struct {
	Errors []string
}

func (e *ConfigError) Error() string {
	return "invalid frequency config: " + strings.Join(e.Errors, ", ")
}
