package frequency

import (
	"fmt"
	"regexp"
	"time"
)

const minutesPerDay = 24 * 60

var reHHMM = regexp.MustCompile(`^\d{2}:\d{2}$`)

// parseHHMM parses a strict "HH:mm" 24-hour time-of-day string.
func parseHHMM(s string) (hour, minute int, err error) {
	if !reHHMM.MatchString(s) {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:mm", s)
	}
	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	minute = int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// minutesOfDay converts an "HH:mm" string to minutes since midnight.
func minutesOfDay(s string) (int, error) {
	h, m, err := parseHHMM(s)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// windowDuration returns the wall-clock length of the window in minutes,
// normalizing midnight wraparound: an end at or before the start means
// the window spans into the next day.
func windowDuration(startMin, endMin int) int {
	if endMin <= startMin {
		endMin += minutesPerDay
	}
	return endMin - startMin
}

// InWindow reports whether t, in the scheduler's timezone, falls inside
// the [windowStart, windowEnd) window. The upper bound is excluded. A
// wrapping window such as "22:00"-"06:00" matches times at or after the
// start or strictly before the end.
//
// Malformed bounds never match; NextRun validates before calling.
func (s *Scheduler) InWindow(t time.Time, windowStart, windowEnd string) bool {
	start, err := minutesOfDay(windowStart)
	if err != nil {
		return false
	}
	end, err := minutesOfDay(windowEnd)
	if err != nil {
		return false
	}
	lt := t.In(s.loc)
	cur := lt.Hour()*60 + lt.Minute()
	if start <= end {
		return cur >= start && cur < end
	}
	return cur >= start || cur < end
}

// NextWindowStart returns the first window-start instant strictly after
// from, in the scheduler's timezone. When daysOfWeek is non-empty the
// candidate is advanced day by day (at most a week) until its local
// weekday is allowed.
func (s *Scheduler) NextWindowStart(from time.Time, windowStart string, daysOfWeek []int) time.Time {
	h, m, err := parseHHMM(windowStart)
	if err != nil {
		return time.Time{}
	}
	lt := from.In(s.loc)
	cand := time.Date(lt.Year(), lt.Month(), lt.Day(), h, m, 0, 0, s.loc)
	if !cand.After(lt) {
		cand = cand.AddDate(0, 0, 1)
	}
	if len(daysOfWeek) > 0 {
		allowed := make(map[int]bool, len(daysOfWeek))
		for _, d := range daysOfWeek {
			allowed[d] = true
		}
		// Bounded: any non-empty day set repeats within a week.
		for i := 0; i < 7 && !allowed[int(cand.Weekday())]; i++ {
			cand = cand.AddDate(0, 0, 1)
		}
	}
	return cand
}

// RandomTimeInWindow returns a uniformly random instant inside the
// window that opens on at's local civil date. A pick that lands past
// midnight spills onto the following day, so wrapping windows stay
// contiguous.
func (s *Scheduler) RandomTimeInWindow(at time.Time, windowStart, windowEnd string) time.Time {
	start, err := minutesOfDay(windowStart)
	if err != nil {
		return time.Time{}
	}
	end, err := minutesOfDay(windowEnd)
	if err != nil {
		return time.Time{}
	}
	target := start + s.rng.Intn(windowDuration(start, end))
	day := at.In(s.loc)
	if target >= minutesPerDay {
		day = day.AddDate(0, 0, 1)
		target -= minutesPerDay
	}
	return time.Date(day.Year(), day.Month(), day.Day(), target/60, target%60, 0, 0, s.loc)
}
