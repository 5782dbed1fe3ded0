package domain

import "time"

// DateLayout is the storage and display format for whole-day dates.
const DateLayout = "2006-01-02"

// DateOnly truncates t to midnight UTC. All scheduling works at whole-day
// granularity, so dates are normalized at every entry point.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b (negative when b
// precedes a). Both arguments are normalized first.
func DaysBetween(a, b time.Time) int {
	a, b = DateOnly(a), DateOnly(b)
	return int(b.Sub(a).Hours() / 24)
}
