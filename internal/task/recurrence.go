package task

import (
	"strings"
	"time"
)

// Recurrence intervals for recognized frequency descriptors. The
// monthly interval is a 30-day approximation, not calendar-month
// arithmetic.
const (
	dayInterval   = 24 * time.Hour
	hourInterval  = time.Hour
	monthInterval = 30 * 24 * time.Hour
)

// NextRun computes the next due timestamp for a frequency descriptor
// relative to ref. Descriptors are free text entered by operators, so
// matching is a forgiving case-insensitive substring check evaluated in
// fixed priority order: daily wins over hourly wins over monthly.
// A descriptor matching none of them returns ref unchanged, which makes
// the task due again at the very next scan. Pure and total.
func NextRun(frequency string, ref time.Time) time.Time {
	freq := strings.ToLower(strings.TrimSpace(frequency))

	switch {
	case isDaily(freq):
		return ref.Add(dayInterval)
	case strings.Contains(freq, "hour"):
		return ref.Add(hourInterval)
	case strings.Contains(freq, "month"):
		return ref.Add(monthInterval)
	default:
		return ref
	}
}

// isDaily needs its own check: "daily" does not contain the substring
// "day", so both forms are matched.
func isDaily(freq string) bool {
	return strings.Contains(freq, "day") || strings.Contains(freq, "daily")
}

// Recurring reports whether the frequency descriptor is recognized,
// i.e. whether NextRun would actually advance the timestamp.
func Recurring(frequency string) bool {
	freq := strings.ToLower(frequency)
	return isDaily(freq) ||
		strings.Contains(freq, "hour") ||
		strings.Contains(freq, "month")
}
