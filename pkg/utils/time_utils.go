package utils

import (
	"time"
)

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsDateBefore reports whether the calendar date of a falls before the calendar date of b.
// Both values are compared in b's location.
func IsDateBefore(a, b time.Time) bool {
	return StartOfDay(a.In(b.Location())).Before(StartOfDay(b))
}
