package calendar

import (
	"fmt"
	"time"
)

// Direction selects how a weekday is resolved relative to an anchor date.
type Direction int

const (
	// OnOrAfter resolves to the anchor itself when it already falls on the weekday.
	OnOrAfter Direction = iota
	// After resolves to the first matching weekday strictly after the anchor.
	After
	// OnOrBefore resolves to the anchor itself when it already falls on the weekday.
	OnOrBefore
	// BeforeAnchor resolves to the last matching weekday strictly before the anchor.
	BeforeAnchor
)

var directionNames = map[Direction]string{
	OnOrAfter:    "on_or_after",
	After:        "after",
	OnOrBefore:   "on_or_before",
	BeforeAnchor: "before",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection converts a direction name back to a Direction.
func ParseDirection(s string) (Direction, error) {
	for d, name := range directionNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Date returns the given civil date at midnight UTC. Every date handled by
// the engine is normalized this way so dates compare with Equal and ==.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize strips the clock and location from t.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// AddDays moves a date by n days.
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// DaysBetween returns the number of whole days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// SameDay reports whether two times fall on the same civil date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// InRange reports whether date lies in [from, to], inclusive on both ends.
func InRange(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}

// WeekdayOnOrAfter returns the first date on or after anchor falling on weekday.
func WeekdayOnOrAfter(anchor time.Time, weekday time.Weekday) time.Time {
	diff := (int(weekday) - int(anchor.Weekday()) + 7) % 7
	return anchor.AddDate(0, 0, diff)
}

// WeekdayOnOrBefore returns the last date on or before anchor falling on weekday.
func WeekdayOnOrBefore(anchor time.Time, weekday time.Weekday) time.Time {
	diff := (int(anchor.Weekday()) - int(weekday) + 7) % 7
	return anchor.AddDate(0, 0, -diff)
}

// Next returns the first date strictly after anchor falling on weekday.
func Next(anchor time.Time, weekday time.Weekday) time.Time {
	return WeekdayOnOrAfter(anchor.AddDate(0, 0, 1), weekday)
}

// Before returns the last date strictly before anchor falling on weekday.
func Before(anchor time.Time, weekday time.Weekday) time.Time {
	return WeekdayOnOrBefore(anchor.AddDate(0, 0, -1), weekday)
}

// Relative resolves a weekday relative to an anchor date. It is the explicit
// replacement for phrases such as "next Sunday" or "previous Saturday".
func Relative(anchor time.Time, dir Direction, weekday time.Weekday) time.Time {
	switch dir {
	case After:
		return Next(anchor, weekday)
	case OnOrBefore:
		return WeekdayOnOrBefore(anchor, weekday)
	case BeforeAnchor:
		return Before(anchor, weekday)
	default:
		return WeekdayOnOrAfter(anchor, weekday)
	}
}

// FindSundayBetween finds the Sunday within a date range.
// Returns nil if no Sunday exists in the range.
func FindSundayBetween(year int, startMonth time.Month, startDay int, endMonth time.Month, endDay int) *time.Time {
	start := Date(year, startMonth, startDay)
	end := Date(year, endMonth, endDay)

	sunday := WeekdayOnOrAfter(start, time.Sunday)
	if sunday.After(end) {
		return nil
	}
	return &sunday
}

// WeekOfSeason calculates which week of a liturgical season a date falls in,
// counting the week that contains seasonStart as week 1.
func WeekOfSeason(date time.Time, seasonStart time.Time) int {
	return DaysBetween(seasonStart, date)/7 + 1
}

// Ordinal returns the numeric ordinal form of a number (1st, 2nd, 3rd, 4th, etc.)
func Ordinal(n int) string {
	switch {
	case n%100 >= 11 && n%100 <= 13:
		return fmt.Sprintf("%dth", n)
	case n%10 == 1:
		return fmt.Sprintf("%dst", n)
	case n%10 == 2:
		return fmt.Sprintf("%dnd", n)
	case n%10 == 3:
		return fmt.Sprintf("%drd", n)
	}
	return fmt.Sprintf("%dth", n)
}

// ParseDateString parses a date string in YYYY-MM-DD format
func ParseDateString(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}
