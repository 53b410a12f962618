package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/cli/formatter"
)

func newDatesCmd(app *App) *cobra.Command {
	var (
		year   int
		julian bool
	)

	cmd := &cobra.Command{
		Use:   "dates",
		Short: "Print the anchor dates of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year < calendar.MinGregorianYear {
				return fmt.Errorf("year %d is before the Gregorian reform", year)
			}
			fmt.Fprint(app.Out, formatter.FormatKeyDates(year, keyDates(year, julian)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "year")
	cmd.Flags().BoolVar(&julian, "julian", false, "also print the Julian (Orthodox) Easter")

	return cmd
}

func keyDates(year int, julian bool) []formatter.KeyDate {
	dates := []formatter.KeyDate{
		{Name: "Ash Wednesday", Date: calendar.AshWednesday(year)},
		{Name: "Palm Sunday", Date: calendar.PalmSunday(year)},
		{Name: "Easter", Date: calendar.GregorianEaster(year)},
	}
	if julian {
		dates = append(dates, formatter.KeyDate{Name: "Easter (Julian)", Date: calendar.JulianEaster(year, true)})
	}
	return append(dates,
		formatter.KeyDate{Name: "Ascension", Date: calendar.Ascension(year)},
		formatter.KeyDate{Name: "Pentecost", Date: calendar.Pentecost(year)},
		formatter.KeyDate{Name: "Christ the King", Date: calendar.ChristTheKing(year)},
		formatter.KeyDate{Name: "First Sunday of Advent", Date: calendar.FirstSundayOfAdvent(year)},
	)
}
