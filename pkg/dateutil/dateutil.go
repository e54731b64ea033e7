package dateutil

import (
	"fmt"
	"time"
)

// DayKey identifies one UTC calendar day. Activity ledgers are keyed by this
// value so that concurrent grants within the same day hit the same row.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// StartOfDay truncates t to the beginning of its UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LastNDays returns the beginning of the UTC day n-1 days before t, so the
// range [LastNDays(t, n), t] covers exactly n calendar days including today.
func LastNDays(t time.Time, n int) time.Time {
	return StartOfDay(t).AddDate(0, 0, -(n - 1))
}

// CurrentWeek returns the beginning of the ISO week containing t.
func CurrentWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return day.AddDate(0, 0, -(weekday - 1))
}

// WeekKey identifies the ISO week of t, used as the leaderboard period key.
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d:%d", week, year)
}
