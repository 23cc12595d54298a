package frequency

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNextRunIntervalBounds(t *testing.T) {
	t.Parallel()
	s := testScheduler(t, 3)
	now := localTime(t, s, "2026-03-10 12:00")
	cfg := Config{Kind: KindInterval, IntervalMinutes: 60, JitterMinutes: 10}

	for i := 0; i < 100; i++ {
		got, err := s.NextRun(cfg, now)
		if err != nil {
			t.Fatalf("NextRun error: %v", err)
		}
		lo := now.Add(50 * time.Minute)
		hi := now.Add(70 * time.Minute)
		if got.At.Before(lo) || got.At.After(hi) {
			t.Fatalf("run %d: At = %s, want within [%s, %s]", i, got.At, lo, hi)
		}
		if got.Delay != got.At.Sub(now) {
			t.Fatalf("Delay = %v, want %v", got.Delay, got.At.Sub(now))
		}
	}
}

func TestNextRunDeterministicWithoutJitter(t *testing.T) {
	t.Parallel()
	s := testScheduler(t, 3)
	now := localTime(t, s, "2026-03-10 12:00")
	cfg := Config{Kind: KindInterval, IntervalMinutes: 90}

	a, err := s.NextRun(cfg, now)
	if err != nil {
		t.Fatalf("NextRun error: %v", err)
	}
	b, err := s.NextRun(cfg, now)
	if err != nil {
		t.Fatalf("NextRun error: %v", err)
	}
	if !a.At.Equal(b.At) {
		t.Fatalf("zero-jitter runs differ: %s vs %s", a.At, b.At)
	}
	if want := now.Add(90 * time.Minute); !a.At.Equal(want) {
		t.Fatalf("At = %s, want %s", a.At, want)
	}
}

func TestNextRunIntervalSnapsIntoWindow(t *testing.T) {
	t.Parallel()
	s := testScheduler(t, 11)
	// Candidate lands at 22:00, exactly the (excluded) window end, so it
	// must snap to the next opening.
	now := localTime(t, s, "2026-03-10 20:00")
	cfg := Config{
		Kind:            KindInterval,
		IntervalMinutes: 120,
		WindowStart:     "08:00",
		WindowEnd:       "22:00",
	}

	got, err := s.NextRun(cfg, now)
	if err != nil {
		t.Fatalf("NextRun error: %v", err)
	}
	if !s.InWindow(got.At, cfg.WindowStart, cfg.WindowEnd) {
		t.Fatalf("snapped run %s not inside window", got.At)
	}
	open := localTime(t, s, "2026-03-11 08:00")
	if got.At.Before(open) {
		t.Fatalf("At = %s, want >= next opening %s", got.At, open)
	}
}

func TestNextRunIntervalKeepsInWindowCandidate(t *testing.T) {
	t.Parallel()
	s := testScheduler(t, 11)
	now := localTime(t, s, "2026-03-10 10:00")
	cfg := Config{
		Kind:            KindInterval,
		IntervalMinutes: 60,
		WindowStart:     "08:00",
		WindowEnd:       "20:00",
	}

	got, err := s.NextRun(cfg, now)
	if err != nil {
		t.Fatalf("NextRun error: %v", err)
	}
	if want := now.Add(time.Hour); !got.At.Equal(want) {
		t.Fatalf("in-window candidate rescheduled: At = %s, want %s", got.At, want)
	}
}

func TestNextRunDailyLandsInWindow(t *testing.T) {
	t.Parallel()
	s := testScheduler(t, 5)
	cfg := Config{Kind: KindDaily, WindowStart: "22:00", WindowEnd: "06:00"}

	now := localTime(t, s, "2026-03-10 12:00")
	for i := 0; i < 100; i++ {
		got, err := s.NextRun(cfg, now)
		if err != nil {
			t.Fatalf("NextRun error: %v", err)
		}
		if !got.At.After(now) {
			t.Fatalf("run %d not after now: %s", i, got.At)
		}
		if !s.InWindow(got.At, cfg.WindowStart, cfg.WindowEnd) {
			t.Fatalf("run %d outside window: %s", i, got.At)
		}
	}
}

func TestNextRunWeeklyHonorsDays(t *testing.T) {
	t.Parallel()
	s := testScheduler(t, 9)
	cfg := Config{
		Kind:        KindWeekly,
		WindowStart: "09:00",
		WindowEnd:   "18:00",
		DaysOfWeek:  []int{1, 3, 5}, // Mon, Wed, Fri
	}
	allowed := map[time.Weekday]bool{time.Monday: true, time.Wednesday: true, time.Friday: true}

	now := localTime(t, s, "2026-03-10 12:00")
	for i := 0; i < 100; i++ {
		got, err := s.NextRun(cfg, now)
		if err != nil {
			t.Fatalf("NextRun error: %v", err)
		}
		local := got.At.In(s.Location())
		if !allowed[local.Weekday()] {
			t.Fatalf("run %d on disallowed weekday %s (%s)", i, local.Weekday(), local)
		}
		if !s.InWindow(got.At, cfg.WindowStart, cfg.WindowEnd) {
			t.Fatalf("run %d outside window: %s", i, got.At)
		}
	}
}

func TestNextRunAcrossDSTChange(t *testing.T) {
	t.Parallel()
	s := testScheduler(t, 13)
	// Paris springs forward on 2026-03-29; the window must still be
	// honored in civil time on the other side of the transition.
	now := localTime(t, s, "2026-03-28 23:00")
	cfg := Config{Kind: KindDaily, WindowStart: "08:00", WindowEnd: "10:00"}

	got, err := s.NextRun(cfg, now)
	if err != nil {
		t.Fatalf("NextRun error: %v", err)
	}
	local := got.At.In(s.Location())
	if local.Year() != 2026 || local.Month() != time.March || local.Day() != 29 {
		t.Fatalf("expected a run on 2026-03-29, got %s", local)
	}
	if !s.InWindow(got.At, cfg.WindowStart, cfg.WindowEnd) {
		t.Fatalf("run outside window across DST: %s", local)
	}
}

func TestNextRunInvalidConfig(t *testing.T) {
	t.Parallel()
	s := testScheduler(t, 1)
	cfg := Config{Kind: KindWeekly, WindowStart: "08:00"}

	_, err := s.NextRun(cfg, time.Now())
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("error type = %T, want *ConfigError", err)
	}
	if len(cerr.Errors) < 2 {
		t.Fatalf("expected aggregated errors, got %v", cerr.Errors)
	}
	if msg := err.Error(); !strings.Contains(msg, ", ") {
		t.Fatalf("expected comma-joined message, got %q", msg)
	}
}

func TestNextRunDescription(t *testing.T) {
	t.Parallel()
	s := testScheduler(t, 1)
	now := localTime(t, s, "2026-03-10 12:00")
	got, err := s.NextRun(Config{Kind: KindInterval, IntervalMinutes: 60}, now)
	if err != nil {
		t.Fatalf("NextRun error: %v", err)
	}
	if want := "Tuesday 10 March at 13:00"; got.Description != want {
		t.Fatalf("Description = %q, want %q", got.Description, want)
	}
}
