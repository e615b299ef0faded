package models

import "time"

// DateLayout is the wire format for calendar days
const DateLayout = "2006-01-02"

// Day truncates a timestamp to its calendar day (midnight UTC).
// All day bucketing in summaries and streaks goes through this so that
// (user, day) keys compare equal regardless of the source timestamp's zone.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day
func Today() time.Time {
	return Day(time.Now())
}

// SameDay reports whether two timestamps fall on the same calendar day
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// DaysBetween returns the whole number of days from a to b (negative when
// b is before a)
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / (24 * time.Hour))
}
