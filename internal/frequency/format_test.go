package frequency

import (
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "interval with jitter",
			cfg:  Config{Kind: KindInterval, IntervalMinutes: 90, JitterMinutes: 15},
			want: "1h30min ± 15min",
		},
		{
			name: "interval whole hours",
			cfg:  Config{Kind: KindInterval, IntervalMinutes: 120},
			want: "2h",
		},
		{
			name: "interval minutes only with window",
			cfg:  Config{Kind: KindInterval, IntervalMinutes: 45, WindowStart: "08:00", WindowEnd: "20:00"},
			want: "45min (08:00-20:00)",
		},
		{
			name: "daily",
			cfg:  Config{Kind: KindDaily, WindowStart: "22:00", WindowEnd: "06:00"},
			want: "Daily (22:00-06:00)",
		},
		{
			name: "weekly sorts days",
			cfg:  Config{Kind: KindWeekly, WindowStart: "09:00", WindowEnd: "18:00", DaysOfWeek: []int{5, 1, 3}},
			want: "Mon,Wed,Fri (09:00-18:00)",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.cfg); got != tt.want {
				t.Fatalf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatSpecExample(t *testing.T) {
	t.Parallel()
	got := Format(Config{Kind: KindInterval, IntervalMinutes: 90, JitterMinutes: 15})
	if !strings.Contains(got, "1h30min") || !strings.Contains(got, "± 15min") {
		t.Fatalf("Format = %q, want it to mention 1h30min and ± 15min", got)
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()
	weekly := Config{Kind: KindWeekly, WindowStart: "09:00", WindowEnd: "18:00", DaysOfWeek: []int{1, 3, 5}}

	tests := []struct {
		name string
		a, b Config
		want bool
	}{
		{
			name: "identical interval",
			a:    Config{Kind: KindInterval, IntervalMinutes: 60, JitterMinutes: 5},
			b:    Config{Kind: KindInterval, IntervalMinutes: 60, JitterMinutes: 5},
			want: true,
		},
		{
			name: "day order ignored",
			a:    weekly,
			b:    Config{Kind: KindWeekly, WindowStart: "09:00", WindowEnd: "18:00", DaysOfWeek: []int{5, 1, 3}},
			want: true,
		},
		{
			name: "different days",
			a:    weekly,
			b:    Config{Kind: KindWeekly, WindowStart: "09:00", WindowEnd: "18:00", DaysOfWeek: []int{1, 3, 6}},
			want: false,
		},
		{
			name: "days on one side only",
			a:    weekly,
			b:    Config{Kind: KindWeekly, WindowStart: "09:00", WindowEnd: "18:00"},
			want: false,
		},
		{
			name: "both without days",
			a:    Config{Kind: KindDaily, WindowStart: "08:00", WindowEnd: "10:00"},
			b:    Config{Kind: KindDaily, WindowStart: "08:00", WindowEnd: "10:00"},
			want: true,
		},
		{
			name: "kind differs",
			a:    Config{Kind: KindInterval, IntervalMinutes: 60},
			b:    Config{Kind: KindDaily, WindowStart: "08:00", WindowEnd: "10:00"},
			want: false,
		},
		{
			name: "window differs",
			a:    Config{Kind: KindDaily, WindowStart: "08:00", WindowEnd: "10:00"},
			b:    Config{Kind: KindDaily, WindowStart: "08:00", WindowEnd: "11:00"},
			want: false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Fatalf("Equal = %v, want %v", got, tt.want)
			}
			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Fatalf("Equal (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}
