package engine

import (
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
)

// annotate fills in the season, psalter week, lectionary cycles and the
// localized grade of every active celebration.
func (c *Context) annotate() error {
	for _, cel := range c.Store.All() {
		season := c.seasonOf(cel.Date)
		err := c.Store.Update(cel.Key, func(u *liturgy.Celebration) {
			u.Season = season
			if u.PsalterWeek == 0 {
				u.PsalterWeek = c.psalterWeek(u.Date, season)
			}
			u.SundayCycle = string(calendar.GetSundayCycle(u.Date))
			u.WeekdayCycle = string(calendar.GetWeekdayCycle(u.Date))
			u.GradeLabel = c.labels.Rank(u.DisplayedRank())
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) seasonOf(d time.Time) liturgy.Season {
	switch {
	case !d.Before(c.date(time.December, 25)):
		return liturgy.SeasonChristmas
	case !d.Before(c.at.advent1):
		return liturgy.SeasonAdvent
	case !d.After(c.at.baptism):
		return liturgy.SeasonChristmas
	case !d.Before(c.at.ashWed) && d.Before(c.at.holyThurs):
		return liturgy.SeasonLent
	case !d.Before(c.at.holyThurs) && d.Before(c.at.easter):
		return liturgy.SeasonTriduum
	case !d.Before(c.at.easter) && !d.After(c.at.pentecost):
		return liturgy.SeasonEaster
	}
	return liturgy.SeasonOrdinary
}

func (c *Context) psalterWeek(d time.Time, season liturgy.Season) int {
	switch season {
	case liturgy.SeasonAdvent:
		return calendar.PsalterWeek(calendar.WeekOfSeason(d, c.at.advent1))
	case liturgy.SeasonChristmas:
		christmas := c.date(time.December, 25)
		if d.Month() == time.January {
			christmas = calendar.Date(c.Year-1, time.December, 25)
		}
		week := calendar.WeekOfSeason(d, calendar.WeekdayOnOrAfter(christmas, time.Sunday))
		if week < 1 {
			week = 1
		}
		return calendar.PsalterWeek(week)
	case liturgy.SeasonLent, liturgy.SeasonTriduum:
		if d.Before(c.at.lent1) {
			return 4
		}
		return calendar.PsalterWeek(calendar.WeekOfSeason(d, c.at.lent1))
	case liturgy.SeasonEaster:
		return calendar.PsalterWeek(calendar.WeekOfSeason(d, c.at.easter))
	}
	return calendar.PsalterWeek(c.ordinaryWeek(d))
}

// ordinaryWeek returns the week of Ordinary Time containing d. After
// Pentecost the weeks are counted backwards from Christ the King, the
// thirty-fourth.
func (c *Context) ordinaryWeek(d time.Time) int {
	if d.Before(c.at.ashWed) {
		return calendar.WeekOfSeason(d, calendar.WeekdayOnOrBefore(c.at.baptism, time.Sunday))
	}
	sunday := calendar.WeekdayOnOrBefore(d, time.Sunday)
	return 34 - calendar.DaysBetween(sunday, c.at.christKing)/7
}
