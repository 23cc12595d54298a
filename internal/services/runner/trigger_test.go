package runner

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"agentsched/internal/frequency"
)

func parisScheduler(t *testing.T) *frequency.Scheduler {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return frequency.New(loc, rand.New(rand.NewSource(1)))
}

func TestFrequencyTrigger(t *testing.T) {
	t.Parallel()
	sched := parisScheduler(t)
	trig, err := NewFrequencyTrigger(sched, frequency.Config{
		Kind:            frequency.KindInterval,
		IntervalMinutes: 45,
	})
	if err != nil {
		t.Fatalf("NewFrequencyTrigger: %v", err)
	}

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	at, desc, err := trig.Next(now)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if want := now.Add(45 * time.Minute); !at.Equal(want) {
		t.Fatalf("Next = %s, want %s", at, want)
	}
	if desc == "" {
		t.Fatal("empty description")
	}
	if got := trig.Describe(); got != "45min" {
		t.Fatalf("Describe = %q, want %q", got, "45min")
	}
}

func TestFrequencyTriggerRejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	sched := parisScheduler(t)
	_, err := NewFrequencyTrigger(sched, frequency.Config{Kind: frequency.KindDaily})
	if err == nil {
		t.Fatal("expected error for invalid frequency config")
	}
	if !strings.Contains(err.Error(), "window_start") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCronTrigger(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	trig, err := NewCronTrigger("*/30 * * * *", loc)
	if err != nil {
		t.Fatalf("NewCronTrigger: %v", err)
	}

	now := time.Date(2026, 3, 10, 12, 10, 0, 0, loc)
	at, _, err := trig.Next(now)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if want := time.Date(2026, 3, 10, 12, 30, 0, 0, loc); !at.Equal(want) {
		t.Fatalf("Next = %s, want %s", at, want)
	}

	if _, err := NewCronTrigger("not a cron", loc); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
	if _, err := NewCronTrigger("", loc); err == nil {
		t.Fatal("expected error for empty cron spec")
	}
}
