package refdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
)

// ErrInvalidDateRule is returned when a date rule cannot produce a valid
// calendar date for the requested year.
var ErrInvalidDateRule = errors.New("invalid date rule")

// DateRule resolves to a concrete date in a given year. The set of rules is
// closed: FixedDate, EasterOffset and WeekdayRelative.
type DateRule interface {
	Resolve(year int) (time.Time, error)
	isDateRule()
}

// FixedDate is a day and month, the same every year.
type FixedDate struct {
	Month time.Month
	Day   int
}

// EasterOffset is a number of days from Easter Sunday.
type EasterOffset struct {
	Days int
}

// WeekdayRelative is a weekday resolved relative to a fixed anchor date,
// e.g. the Thursday on or after November 22.
type WeekdayRelative struct {
	Month     time.Month
	Day       int
	Direction calendar.Direction
	Weekday   time.Weekday
}

func (FixedDate) isDateRule()       {}
func (EasterOffset) isDateRule()    {}
func (WeekdayRelative) isDateRule() {}

func validDay(year int, month time.Month, day int) bool {
	if month < time.January || month > time.December || day < 1 {
		return false
	}
	return calendar.Date(year, month, day).Month() == month
}

// Resolve implements DateRule.
func (r FixedDate) Resolve(year int) (time.Time, error) {
	if !validDay(year, r.Month, r.Day) {
		return time.Time{}, fmt.Errorf("%w: %d-%02d-%02d", ErrInvalidDateRule, year, int(r.Month), r.Day)
	}
	return calendar.Date(year, r.Month, r.Day), nil
}

// Resolve implements DateRule.
func (r EasterOffset) Resolve(year int) (time.Time, error) {
	return calendar.AddDays(calendar.GregorianEaster(year), r.Days), nil
}

// Resolve implements DateRule.
func (r WeekdayRelative) Resolve(year int) (time.Time, error) {
	anchor, err := FixedDate{Month: r.Month, Day: r.Day}.Resolve(year)
	if err != nil {
		return time.Time{}, err
	}
	return calendar.Relative(anchor, r.Direction, r.Weekday), nil
}

func (r FixedDate) String() string { return fmt.Sprintf("%s %d", r.Month, r.Day) }

func (r EasterOffset) String() string { return fmt.Sprintf("Easter%+d", r.Days) }

func (r WeekdayRelative) String() string {
	return fmt.Sprintf("%s %s %s %d", r.Weekday, r.Direction, r.Month, r.Day)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type dateRuleJSON struct {
	Type      string `json:"type"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	Days      int    `json:"days"`
	Direction string `json:"direction"`
	Weekday   string `json:"weekday"`
}

func decodeDateRule(raw json.RawMessage) (DateRule, error) {
	var r dateRuleJSON
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode date rule: %w", err)
	}

	switch r.Type {
	case "fixed":
		return FixedDate{Month: time.Month(r.Month), Day: r.Day}, nil
	case "easter_offset":
		return EasterOffset{Days: r.Days}, nil
	case "weekday_relative":
		dir, err := calendar.ParseDirection(r.Direction)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDateRule, err)
		}
		wd, ok := weekdays[strings.ToLower(r.Weekday)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidDateRule, r.Weekday)
		}
		return WeekdayRelative{Month: time.Month(r.Month), Day: r.Day, Direction: dir, Weekday: wd}, nil
	}
	return nil, fmt.Errorf("%w: unknown rule type %q", ErrInvalidDateRule, r.Type)
}
