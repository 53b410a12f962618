// Package calendar provides the date arithmetic the liturgical engine is built on:
// computus, weekday anchoring and the lectionary/psalter cycles.
package calendar

import (
	"time"
)

// MinGregorianYear is the first full year of the Gregorian calendar.
const MinGregorianYear = 1583

// GregorianEaster calculates the date of Easter Sunday for a given year
// using the computus algorithm for the Gregorian calendar.
//
// The algorithm is the anonymous Gregorian algorithm published by Meeus
// (Jones/Butcher) and is valid for every year from 1583 on.
func GregorianEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return Date(year, time.Month(month), day)
}

// JulianEaster calculates Easter Sunday according to the Julian computus
// (Meeus' Julian algorithm).
//
// With asGregorianDate false the month and day are those of the Julian
// calendar. With asGregorianDate true the same day is expressed as a
// Gregorian civil date, which is how Eastern churches' Easter appears on
// a modern calendar.
func JulianEaster(year int, asGregorianDate bool) time.Time {
	a := year % 4
	b := year % 7
	c := year % 19
	d := (19*c + 15) % 30
	e := (2*a + 4*b - d + 34) % 7
	month := (d + e + 114) / 31
	day := ((d + e + 114) % 31) + 1

	easter := Date(year, time.Month(month), day)
	if !asGregorianDate {
		return easter
	}
	return easter.AddDate(0, 0, julianDrift(year))
}

// julianDrift is the number of days the Julian calendar lags the Gregorian
// one for dates between March and December of the given year.
func julianDrift(year int) int {
	return year/100 - year/400 - 2
}

// FirstSundayOfAdvent calculates the first Sunday of Advent for a given year:
// the fourth Sunday before Christmas, which always falls between
// November 27 and December 3.
func FirstSundayOfAdvent(year int) time.Time {
	christmas := Date(year, time.December, 25)
	return Before(christmas, time.Sunday).AddDate(0, 0, -21)
}

// AshWednesday calculates Ash Wednesday for a given year.
// Ash Wednesday is 46 days before Easter (40 days of Lent + 6 Sundays).
func AshWednesday(year int) time.Time {
	return GregorianEaster(year).AddDate(0, 0, -46)
}

// PalmSunday is the Sunday before Easter.
func PalmSunday(year int) time.Time {
	return GregorianEaster(year).AddDate(0, 0, -7)
}

// Ascension calculates Ascension Thursday for a given year (Easter + 39 days).
func Ascension(year int) time.Time {
	return GregorianEaster(year).AddDate(0, 0, 39)
}

// Pentecost calculates Pentecost Sunday for a given year (Easter + 49 days).
func Pentecost(year int) time.Time {
	return GregorianEaster(year).AddDate(0, 0, 49)
}

// ChristTheKing is the last Sunday of the liturgical year, the Sunday
// before the first Sunday of Advent.
func ChristTheKing(year int) time.Time {
	return FirstSundayOfAdvent(year).AddDate(0, 0, -7)
}
