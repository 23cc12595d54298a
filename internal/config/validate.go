package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"agentsched/internal/frequency"
)

// Validate checks the whole config and collects every problem found, so
// a rejected reload reports all of them at once.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	var errs []string

	if tz := strings.TrimSpace(cfg.Scheduler.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			errs = append(errs, fmt.Sprintf("scheduler.timezone: unknown zone %q", tz))
		}
	}
	if cfg.Scheduler.Workers < 0 {
		errs = append(errs, "scheduler.workers must be >= 0")
	}
	if cfg.Scheduler.LaunchRatePerSec < 0 {
		errs = append(errs, "scheduler.launch_rate_per_sec must be >= 0")
	}

	if s := cfg.Storage; s != nil {
		if _, err := ParseDurationField("storage.busy_timeout", s.BusyTimeout); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if n := cfg.Notifier; n != nil && n.Enabled {
		if strings.TrimSpace(n.Token) == "" {
			errs = append(errs, "notifier.token is required when notifier is enabled")
		}
		if n.ChatID == 0 {
			errs = append(errs, "notifier.chat_id is required when notifier is enabled")
		}
	}

	for name, a := range cfg.Agents {
		prefix := "agents." + name
		if !a.Enabled {
			continue
		}
		if strings.TrimSpace(a.URL) == "" {
			errs = append(errs, prefix+".url is required")
		} else if u, err := url.Parse(a.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, prefix+".url must be an http(s) URL")
		}
		if _, err := ParseDurationField(prefix+".timeout", a.Timeout); err != nil {
			errs = append(errs, err.Error())
		}
		hasFreq := a.Frequency != nil
		hasCron := strings.TrimSpace(a.Cron) != ""
		switch {
		case hasFreq && hasCron:
			errs = append(errs, prefix+": frequency and cron are mutually exclusive")
		case !hasFreq && !hasCron:
			errs = append(errs, prefix+": one of frequency or cron is required")
		case hasFreq:
			if v := frequency.Validate(*a.Frequency); !v.Valid {
				for _, e := range v.Errors {
					errs = append(errs, prefix+".frequency: "+e)
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}
