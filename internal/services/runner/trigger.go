package runner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"agentsched/internal/frequency"
)

// Trigger produces the next firing instant for an agent.
//
// Next returns the absolute instant and a human-readable description of
// it. Implementations must be safe to call repeatedly with increasing
// now values.
type Trigger interface {
	Next(now time.Time) (time.Time, string, error)
	Describe() string
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// NewFrequencyTrigger wraps a frequency config. The config is validated
// up front so a broken agent is rejected at apply time, not at its
// first firing.
func NewFrequencyTrigger(sched *frequency.Scheduler, cfg frequency.Config) (Trigger, error) {
	if v := frequency.Validate(cfg); !v.Valid {
		return nil, &frequency.ConfigError{Errors: v.Errors}
	}
	return &frequencyTrigger{sched: sched, cfg: cfg}, nil
}

type frequencyTrigger struct {
	sched *frequency.Scheduler
	cfg   frequency.Config
}

func (t *frequencyTrigger) Next(now time.Time) (time.Time, string, error) {
	nr, err := t.sched.NextRun(t.cfg, now)
	if err != nil {
		return time.Time{}, "", err
	}
	return nr.At, nr.Description, nil
}

func (t *frequencyTrigger) Describe() string { return frequency.Format(t.cfg) }

// NewCronTrigger parses a 5-field cron expression or descriptor
// ("@hourly", "@every 55m") evaluated in loc.
func NewCronTrigger(spec string, loc *time.Location) (Trigger, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.New("cron spec required")
	}
	sched, err := cronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return &cronTrigger{sched: sched, loc: loc, spec: spec}, nil
}

type cronTrigger struct {
	sched cron.Schedule
	loc   *time.Location
	spec  string
}

func (t *cronTrigger) Next(now time.Time) (time.Time, string, error) {
	at := t.sched.Next(now.In(t.loc))
	if at.IsZero() {
		return time.Time{}, "", fmt.Errorf("cron spec %q yields no next run", t.spec)
	}
	return at, at.Format("Monday 2 January at 15:04"), nil
}

func (t *cronTrigger) Describe() string { return "cron " + t.spec }
