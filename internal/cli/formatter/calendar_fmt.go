package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/engine"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
	"github.com/zapponejosh/liturgical-calendar/internal/store"
)

// Title describes the scope and span of a computed calendar.
func Title(res *engine.Result) string {
	scope := "General Roman Calendar"
	switch {
	case res.Params.Diocese != "":
		scope = "Diocese of " + res.Params.Diocese
	case res.Params.Nation != "":
		scope = "National calendar " + strings.ToUpper(res.Params.Nation)
	}
	span := fmt.Sprintf("%d", res.Params.Year)
	if res.Params.YearType == engine.YearLiturgical {
		span = fmt.Sprintf("liturgical year %d", res.Params.Year)
	}
	return fmt.Sprintf("%s, %s (%s)", scope, span, res.Locale)
}

// FormatCalendar renders every active celebration, one row each.
func FormatCalendar(res *engine.Result) string {
	rows := make([][]string, 0, len(res.Celebrations))
	for _, c := range res.Celebrations {
		rows = append(rows, []string{
			calendar.FormatDate(c.Date),
			c.Date.Format("Mon"),
			RankStyle(c.Rank).Render(c.Name),
			c.GradeLabel,
			colors(c.Colors),
		})
	}

	var b strings.Builder
	b.WriteString(StyleHeader.Render(Title(res)))
	b.WriteString("\n\n")
	b.WriteString(RenderTable([]string{"DATE", "DAY", "CELEBRATION", "GRADE", "COLOR"}, rows))
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d celebrations, %d suppressed, %d advisories",
		len(res.Celebrations), len(res.Suppressed), len(res.Advisories))))
	b.WriteString("\n")
	return b.String()
}

func colors(cs []liturgy.Color) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = Swatch(c)
	}
	return strings.Join(parts, " ")
}

// FormatSuppressed renders the suppressed registry.
func FormatSuppressed(list []store.Suppressed) string {
	if len(list) == 0 {
		return StyleDim.Render("No suppressed celebrations.") + "\n"
	}
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		by := s.By.Name
		if by == "" {
			by = s.By.Reason
		}
		rows = append(rows, []string{
			calendar.FormatDate(s.Celebration.Date),
			s.Celebration.Name,
			s.Celebration.Rank.String(),
			by,
		})
	}
	return RenderTable([]string{"DATE", "SUPPRESSED", "RANK", "SUPERSEDED BY"}, rows)
}

// FormatAdvisories renders advisories in date order.
func FormatAdvisories(advs []liturgy.Advisory) string {
	if len(advs) == 0 {
		return StyleDim.Render("No advisories.") + "\n"
	}
	rows := make([][]string, 0, len(advs))
	for _, a := range advs {
		msg := a.Message
		if a.Citation != "" {
			msg += StyleDim.Render(" (" + a.Citation + ")")
		}
		rows = append(rows, []string{
			calendar.FormatDate(a.Date),
			SeverityStyle(a.Severity).Render(string(a.Severity)),
			string(a.Kind),
			msg,
		})
	}
	return RenderTable([]string{"DATE", "SEVERITY", "KIND", "MESSAGE"}, rows)
}

// KeyDate is a named anchor date of a year.
type KeyDate struct {
	Name string
	Date time.Time
}

// FormatKeyDates renders the anchor dates of a year.
func FormatKeyDates(year int, dates []KeyDate) string {
	rows := make([][]string, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, []string{d.Name, calendar.FormatDate(d.Date), d.Date.Format("Monday")})
	}

	var b strings.Builder
	b.WriteString(StyleHeader.Render(fmt.Sprintf("Key dates of %d", year)))
	b.WriteString("\n\n")
	b.WriteString(RenderTable([]string{"EVENT", "DATE", "DAY"}, rows))
	return b.String()
}

// FormatScopes lists the nations with a calendar and their dioceses.
func FormatScopes(cat *refdata.Catalog) string {
	var rows [][]string
	for _, id := range cat.NationIDs() {
		n := cat.Nations[id]
		rows = append(rows, []string{
			StyleBold.Render(id),
			n.Name,
			n.WiderRegion,
			strings.Join(n.Locales, ", "),
		})
		for _, d := range cat.DiocesesOf(id) {
			name := d.Name
			if _, ok := cat.Dioceses[d.ID]; !ok {
				name = StyleDim.Render(name + " (no calendar)")
			}
			rows = append(rows, []string{"  " + d.ID, name, "", ""})
		}
	}
	return RenderTable([]string{"ID", "NAME", "REGION", "LOCALES"}, rows)
}
