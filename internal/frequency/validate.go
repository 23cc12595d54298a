package frequency

import (
	"fmt"
	"strconv"
	"strings"
)

// minWindowMinutes is the smallest accepted window span. Narrower
// windows leave too little room for the random offset to spread runs.
const minWindowMinutes = 60

// Validate checks cfg for internal consistency. It never panics and
// does not stop at the first problem: every applicable rule runs, so
// the caller can report all errors at once.
//
// The one exception is a missing kind, which returns immediately:
// nothing else can be meaningfully checked without it.
func Validate(cfg Config) Validation {
	if cfg.Kind == "" {
		return Validation{Errors: []string{"frequency type is required"}}
	}

	var errs []string
	switch cfg.Kind {
	case KindInterval, KindDaily, KindWeekly:
	default:
		errs = append(errs, fmt.Sprintf("unknown frequency type %q (want interval, daily or weekly)", cfg.Kind))
	}

	if cfg.Kind == KindInterval {
		if cfg.IntervalMinutes <= 0 {
			errs = append(errs, "interval_minutes must be > 0")
		}
		if cfg.JitterMinutes < 0 {
			errs = append(errs, "jitter_minutes must be >= 0")
		} else if cfg.IntervalMinutes > 0 && cfg.JitterMinutes*2 > cfg.IntervalMinutes {
			errs = append(errs, fmt.Sprintf("jitter_minutes must not exceed half the interval (%d > %g)",
				cfg.JitterMinutes, float64(cfg.IntervalMinutes)/2))
		}
	}

	if cfg.Kind == KindDaily || cfg.Kind == KindWeekly {
		if cfg.WindowStart == "" {
			errs = append(errs, fmt.Sprintf("window_start is required for %s frequency", cfg.Kind))
		}
		if cfg.WindowEnd == "" {
			errs = append(errs, fmt.Sprintf("window_end is required for %s frequency", cfg.Kind))
		}
	}

	// Format is checked for any bound actually supplied, even when the
	// kind does not require a window.
	startMin, endMin := -1, -1
	if cfg.WindowStart != "" {
		m, err := minutesOfDay(cfg.WindowStart)
		if err != nil {
			errs = append(errs, "window_start: "+err.Error())
		} else {
			startMin = m
		}
	}
	if cfg.WindowEnd != "" {
		m, err := minutesOfDay(cfg.WindowEnd)
		if err != nil {
			errs = append(errs, "window_end: "+err.Error())
		} else {
			endMin = m
		}
	}

	if cfg.Kind == KindWeekly {
		if len(cfg.DaysOfWeek) == 0 {
			errs = append(errs, "days_of_week must list at least one day")
		} else {
			var bad []string
			for _, d := range cfg.DaysOfWeek {
				if d < 0 || d > 6 {
					bad = append(bad, strconv.Itoa(d))
				}
			}
			if len(bad) > 0 {
				errs = append(errs, "days_of_week values out of range 0-6: "+strings.Join(bad, ", "))
			}
		}
	}

	if startMin >= 0 && endMin >= 0 {
		if d := windowDuration(startMin, endMin); d < minWindowMinutes {
			errs = append(errs, fmt.Sprintf("window must span at least %d minutes (got %d)", minWindowMinutes, d))
		}
	}

	return Validation{Valid: len(errs) == 0, Errors: errs}
}
