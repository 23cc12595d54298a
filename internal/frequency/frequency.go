package frequency

import (
	"math/rand"
	"time"
)

// DefaultTimezone is the zone used when the caller does not supply one.
const DefaultTimezone = "Europe/Paris"

// Scheduler computes next-run instants for frequency configs.
//
// All civil-time arithmetic happens in loc. The random source feeds the
// jitter and in-window offset draws; inject a seeded one for
// deterministic tests. A Scheduler is safe for concurrent use only if
// its *rand.Rand is (the default source is not; give each goroutine its
// own Scheduler, they are cheap).
type Scheduler struct {
	loc *time.Location
	rng *rand.Rand
}

// New returns a Scheduler operating in loc. A nil loc selects
// DefaultTimezone. A nil rng selects a time-seeded source.
func New(loc *time.Location, rng *rand.Rand) *Scheduler {
	if loc == nil {
		l, err := time.LoadLocation(DefaultTimezone)
		if err != nil {
			l = time.UTC
		}
		loc = l
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{loc: loc, rng: rng}
}

// Location returns the scheduler's timezone.
func (s *Scheduler) Location() *time.Location { return s.loc }

// Jitter returns a uniform integer in [-jitterMinutes, +jitterMinutes].
// Both endpoints are reachable.
func (s *Scheduler) Jitter(jitterMinutes int) int {
	if jitterMinutes <= 0 {
		return 0
	}
	return s.rng.Intn(2*jitterMinutes+1) - jitterMinutes
}

// NextRun computes the next execution instant after now.
//
// The config is validated first; an invalid config fails with a
// *ConfigError joining all validation messages, and no partial result
// is produced.
//
// interval configs fire now + interval + jitter. When a window is also
// configured and the jittered candidate misses it, the candidate is
// discarded: the run snaps to the next window opening after the
// candidate, at a fresh random offset inside the window. daily and
// weekly configs ignore interval/jitter entirely and pick a random
// instant inside the next eligible window (weekly restricts the opening
// to the allowed weekdays).
func (s *Scheduler) NextRun(cfg Config, now time.Time) (NextRun, error) {
	if v := Validate(cfg); !v.Valid {
		return NextRun{}, &ConfigError{Errors: v.Errors}
	}

	var at time.Time
	switch cfg.Kind {
	case KindInterval:
		delay := cfg.IntervalMinutes + s.Jitter(cfg.JitterMinutes)
		at = now.Add(time.Duration(delay) * time.Minute)
		if cfg.WindowStart != "" && cfg.WindowEnd != "" && !s.InWindow(at, cfg.WindowStart, cfg.WindowEnd) {
			open := s.NextWindowStart(at, cfg.WindowStart, nil)
			at = s.RandomTimeInWindow(open, cfg.WindowStart, cfg.WindowEnd)
		}
	case KindDaily:
		open := s.NextWindowStart(now, cfg.WindowStart, nil)
		at = s.RandomTimeInWindow(open, cfg.WindowStart, cfg.WindowEnd)
	case KindWeekly:
		open := s.NextWindowStart(now, cfg.WindowStart, cfg.DaysOfWeek)
		at = s.RandomTimeInWindow(open, cfg.WindowStart, cfg.WindowEnd)
	}

	return NextRun{
		At:          at,
		Delay:       at.Sub(now),
		Description: s.describe(at),
	}, nil
}

func (s *Scheduler) describe(at time.Time) string {
	return at.In(s.loc).Format("Monday 2 January at 15:04")
}
