package task

import (
	"testing"
	"time"
)

func TestNextRun(t *testing.T) {
	t.Parallel()

	ref := time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)

	tests := []struct {
		name      string
		frequency string
		want      time.Time
	}{
		{"daily", "daily", ref.Add(24 * time.Hour)},
		{"daily capitalized", "Daily", ref.Add(24 * time.Hour)},
		{"day embedded", "every other day", ref.Add(24 * time.Hour)},
		{"hourly", "hourly", ref.Add(time.Hour)},
		{"hours embedded", "every 2 hours", ref.Add(time.Hour)},
		{"monthly is 30 days", "monthly", ref.Add(30 * 24 * time.Hour)},
		{"day beats hour", "day and hour", ref.Add(24 * time.Hour)},
		{"hour beats month", "hourly each month", ref.Add(time.Hour)},
		{"unrecognized", "fortnightly", ref},
		{"empty", "", ref},
		{"whitespace", "   ", ref},
		{"uppercase month", "MONTHLY", ref.Add(30 * 24 * time.Hour)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NextRun(tt.frequency, ref)
			if !got.Equal(tt.want) {
				t.Errorf("NextRun(%q, %v) = %v, want %v", tt.frequency, ref, got, tt.want)
			}
		})
	}
}

func TestNextRun_Pure(t *testing.T) {
	t.Parallel()

	ref := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	first := NextRun("daily", ref)
	second := NextRun("daily", ref)
	if !first.Equal(second) {
		t.Errorf("NextRun is not idempotent: %v vs %v", first, second)
	}
	if !ref.Equal(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)) {
		t.Error("NextRun mutated its reference time")
	}
}

func TestRecurring(t *testing.T) {
	t.Parallel()

	for freq, want := range map[string]bool{
		"daily":       true,
		"every hour":  true,
		"Monthly":     true,
		"fortnightly": false,
		"":            false,
	} {
		if got := Recurring(freq); got != want {
			t.Errorf("Recurring(%q) = %v, want %v", freq, got, want)
		}
	}
}

func TestTask_Due(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)

	due := Task{NextRun: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	if !due.Due(now) {
		t.Error("task with next_run in the past should be due")
	}

	exact := Task{NextRun: now}
	if !exact.Due(now) {
		t.Error("task with next_run == now should be due")
	}

	future := Task{NextRun: now.Add(time.Minute)}
	if future.Due(now) {
		t.Error("task with next_run in the future should not be due")
	}
}
