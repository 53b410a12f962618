package calendar

import "time"

// SundayCycle is the three-year Sunday lectionary cycle.
type SundayCycle string

// WeekdayCycle is the two-year weekday lectionary cycle of Ordinary Time.
type WeekdayCycle string

// Cycle constants
const (
	CycleA SundayCycle = "A"
	CycleB SundayCycle = "B"
	CycleC SundayCycle = "C"

	// CycleI is used in liturgical years ending in an odd civil year.
	CycleI WeekdayCycle = "I"
	// CycleII is used in liturgical years ending in an even civil year.
	CycleII WeekdayCycle = "II"
)

// LiturgicalYearOf returns the liturgical year containing the given date.
//
// The liturgical year begins on the first Sunday of Advent and is named
// after the civil year in which it ends:
//   - November 15, 2024 (before Advent 2024): 2024
//   - December 1, 2024 (first Sunday of Advent): 2025
func LiturgicalYearOf(date time.Time) int {
	year := date.Year()
	if date.Before(FirstSundayOfAdvent(year)) {
		return year
	}
	return year + 1
}

// GetSundayCycle determines which Sunday cycle (A, B or C) applies to a date.
//
// Year A falls on liturgical years whose number leaves remainder 1 when
// divided by 3 (the year beginning with Advent 2022 is 2023, Year A).
func GetSundayCycle(date time.Time) SundayCycle {
	switch LiturgicalYearOf(date) % 3 {
	case 1:
		return CycleA
	case 2:
		return CycleB
	default:
		return CycleC
	}
}

// GetWeekdayCycle determines which weekday cycle (I or II) applies to a date.
func GetWeekdayCycle(date time.Time) WeekdayCycle {
	if LiturgicalYearOf(date)%2 == 1 {
		return CycleI
	}
	return CycleII
}

// PsalterWeek maps a week of a season onto the four-week psalter.
// Weeks below 1 have no psalter week and return 0.
func PsalterWeek(weekOfSeason int) int {
	if weekOfSeason < 1 {
		return 0
	}
	return (weekOfSeason-1)%4 + 1
}
