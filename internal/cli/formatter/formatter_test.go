package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zapponejosh/liturgical-calendar/internal/engine"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
	"github.com/zapponejosh/liturgical-calendar/internal/store"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderTable(t *testing.T) {
	got := stripANSI(RenderTable([]string{"A", "BB"}, [][]string{{"xyz", "1"}, {"", "22"}}))
	want := "A    BB\n" +
		"───  ──\n" +
		"xyz  1\n" +
		"     22\n"
	assert.Equal(t, want, got)
}

func TestRenderTable_StyledCellsAlign(t *testing.T) {
	got := stripANSI(RenderTable([]string{"X", "Y"}, [][]string{{StyleBold.Render("ab"), "1"}}))
	assert.Equal(t, "X   Y\n──  ─\nab  1\n", got)
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"a"}}))
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name   string
		params engine.Params
		want   string
	}{
		{"universal", engine.Params{Year: 2024, YearType: engine.YearCivil}, "General Roman Calendar, 2024 (en)"},
		{"national", engine.Params{Year: 2024, Nation: "us"}, "National calendar US, 2024 (en)"},
		{"diocesan", engine.Params{Year: 2025, YearType: engine.YearLiturgical, Diocese: "boston"}, "Diocese of boston, liturgical year 2025 (en)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(&engine.Result{Params: tt.params, Locale: "en"}))
		})
	}
}

func TestFormatCalendar(t *testing.T) {
	res := &engine.Result{
		Params: engine.Params{Year: 2024, YearType: engine.YearCivil},
		Locale: "en",
		Celebrations: []*liturgy.Celebration{
			{
				Key:        "MotherGod",
				Name:       "Mary, Mother of God",
				Date:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				Colors:     []liturgy.Color{liturgy.ColorWhite},
				Rank:       liturgy.RankSolemnity,
				GradeLabel: "solemnity",
			},
		},
		Suppressed: []store.Suppressed{{}},
	}

	got := stripANSI(FormatCalendar(res))
	assert.Contains(t, got, "General Roman Calendar, 2024 (en)")
	assert.Contains(t, got, "2024-01-01  Mon  Mary, Mother of God  solemnity  ● white")
	assert.Contains(t, got, "1 celebrations, 1 suppressed, 0 advisories")
}

func TestFormatSuppressed(t *testing.T) {
	assert.Equal(t, "No suppressed celebrations.\n", stripANSI(FormatSuppressed(nil)))

	got := stripANSI(FormatSuppressed([]store.Suppressed{{
		Celebration: liturgy.Celebration{
			Name: "Saint Blaise",
			Date: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
			Rank: liturgy.RankOptionalMemorial,
		},
		By: store.Supersession{Reason: "weekday of higher rank"},
	}}))
	assert.Contains(t, got, "Saint Blaise")
	assert.Contains(t, got, "optional memorial")
	assert.Contains(t, got, "weekday of higher rank")
}

func TestFormatAdvisories(t *testing.T) {
	assert.Equal(t, "No advisories.\n", stripANSI(FormatAdvisories(nil)))

	got := stripANSI(FormatAdvisories([]liturgy.Advisory{{
		Severity: liturgy.SeverityAdjudication,
		Kind:     liturgy.KindUnresolved,
		Date:     time.Date(2022, 6, 24, 0, 0, 0, 0, time.UTC),
		Message:  "two solemnities coincide",
		Citation: "Notitiae 2022",
	}}))
	assert.Contains(t, got, "2022-06-24  adjudication  unresolved  two solemnities coincide (Notitiae 2022)")
}

func TestFormatKeyDates(t *testing.T) {
	got := stripANSI(FormatKeyDates(2024, []KeyDate{
		{Name: "Easter", Date: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
	}))
	assert.Contains(t, got, "Key dates of 2024")
	assert.Contains(t, got, "Easter  2024-03-31  Sunday")
}
