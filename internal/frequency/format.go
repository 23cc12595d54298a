package frequency

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Format renders cfg as a short human-readable description, e.g.
// "1h30min ± 15min (08:00-20:00)", "Daily (08:00-10:00)" or
// "Mon,Wed,Fri (09:00-18:00)". It never fails; unknown kinds render as
// their raw tag.
func Format(cfg Config) string {
	switch cfg.Kind {
	case KindInterval:
		var b strings.Builder
		b.WriteString(formatMinutes(cfg.IntervalMinutes))
		if cfg.JitterMinutes > 0 {
			b.WriteString(" ± ")
			b.WriteString(formatMinutes(cfg.JitterMinutes))
		}
		if cfg.WindowStart != "" && cfg.WindowEnd != "" {
			fmt.Fprintf(&b, " (%s-%s)", cfg.WindowStart, cfg.WindowEnd)
		}
		return b.String()
	case KindDaily:
		return fmt.Sprintf("Daily (%s-%s)", cfg.WindowStart, cfg.WindowEnd)
	case KindWeekly:
		days := append([]int(nil), cfg.DaysOfWeek...)
		sort.Ints(days)
		names := make([]string, 0, len(days))
		for _, d := range days {
			if d >= 0 && d <= 6 {
				names = append(names, time.Weekday(d).String()[:3])
			}
		}
		return fmt.Sprintf("%s (%s-%s)", strings.Join(names, ","), cfg.WindowStart, cfg.WindowEnd)
	}
	return string(cfg.Kind)
}

// formatMinutes renders a minute count compactly: "45min", "2h",
// "1h30min". Zero components are omitted.
func formatMinutes(min int) string {
	h, m := min/60, min%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dmin", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dmin", m)
	}
}

// Equal reports structural equality of two configs. DaysOfWeek is
// compared order-insensitively; a day list on only one side makes the
// configs unequal.
func Equal(a, b Config) bool {
	if a.Kind != b.Kind ||
		a.IntervalMinutes != b.IntervalMinutes ||
		a.JitterMinutes != b.JitterMinutes ||
		a.WindowStart != b.WindowStart ||
		a.WindowEnd != b.WindowEnd {
		return false
	}
	if len(a.DaysOfWeek) != len(b.DaysOfWeek) {
		return false
	}
	if len(a.DaysOfWeek) == 0 {
		return true
	}
	da := append([]int(nil), a.DaysOfWeek...)
	db := append([]int(nil), b.DaysOfWeek...)
	sort.Ints(da)
	sort.Ints(db)
	for i := range da {
		if da[i] != db[i] {
			return false
		}
	}
	return true
}
