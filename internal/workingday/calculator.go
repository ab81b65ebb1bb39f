// Package workingday converts calendar date ranges into working-day counts.
// It is pure: callers pass the holiday set and the weekly-holiday policy in,
// nothing is read from storage or globals.
package workingday

import "time"

// DefaultWeeklyHoliday is the designated non-working weekday when the
// weekly-holiday setting is enabled.
const DefaultWeeklyHoliday = time.Sunday

// DateOnly truncates a timestamp to its calendar date in UTC. All comparisons
// in this package go through it so a holiday stored at 09:00 still matches a
// request date stored at midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SpanDays returns the inclusive calendar-day span of [start, end].
// Negative when end precedes start.
func SpanDays(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours()/24) + 1
}

// Count returns the number of working days in [start, end] inclusive.
// A date is non-working when it falls on weeklyHoliday (and the toggle is on)
// or matches a declared holiday date. An inverted range counts zero days;
// callers are expected to reject end < start before computing.
func Count(start, end time.Time, holidays []time.Time, weeklyHolidayEnabled bool, weeklyHoliday time.Weekday) int {
	from := DateOnly(start)
	to := DateOnly(end)
	if to.Before(from) {
		return 0
	}

	holidaySet := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		holidaySet[DateOnly(h)] = struct{}{}
	}

	days := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if weeklyHolidayEnabled && d.Weekday() == weeklyHoliday {
			continue
		}
		if _, ok := holidaySet[d]; ok {
			continue
		}
		days++
	}
	return days
}
