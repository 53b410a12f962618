package engine

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
)

var sharedEngine = New(refdata.NewRepository(refdata.NewEmbedded()), slog.New(slog.NewTextHandler(io.Discard, nil)))

func compute(t *testing.T, p Params) *Result {
	t.Helper()
	result, err := sharedEngine.Compute(context.Background(), p)
	require.NoError(t, err)
	return result
}

func find(t *testing.T, r *Result, key string) *liturgy.Celebration {
	t.Helper()
	c, ok := r.Find(key)
	require.True(t, ok, "celebration %s not found", key)
	return c
}

func date(y int, m time.Month, d int) time.Time {
	return calendar.Date(y, m, d)
}

func assertOn(t *testing.T, c *liturgy.Celebration, want time.Time) {
	t.Helper()
	if !c.Date.Equal(want) {
		t.Errorf("%s on %s, want %s", c.Key, calendar.FormatDate(c.Date), calendar.FormatDate(want))
	}
}

func TestCompute_YearRange(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"before 1970", Params{Year: 1969}},
		{"after 9999", Params{Year: 10000}},
		{"liturgical year starting in 1969", Params{Year: 1970, YearType: YearLiturgical}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sharedEngine.Compute(context.Background(), tt.p)
			assert.ErrorIs(t, err, ErrYearOutOfRange)
		})
	}

	_, err := sharedEngine.Compute(context.Background(), Params{Year: 1970})
	assert.NoError(t, err)
}

func TestCompute_InvalidParams(t *testing.T) {
	ctx := context.Background()

	_, err := sharedEngine.Compute(ctx, Params{Year: 2024, YearType: "FISCAL"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = sharedEngine.Compute(ctx, Params{Year: 2024, Nation: "XX"})
	assert.ErrorIs(t, err, ErrUnknownNation)

	_, err = sharedEngine.Compute(ctx, Params{Year: 2024, Diocese: "atlantis"})
	assert.ErrorIs(t, err, ErrUnknownDiocese)

	_, err = sharedEngine.Compute(ctx, Params{Year: 2024, Nation: "US", Diocese: "roma"})
	assert.ErrorIs(t, err, ErrUnknownDiocese)

	_, err = sharedEngine.Compute(ctx, Params{Year: 2024, Locale: "de"})
	assert.ErrorIs(t, err, ErrUnsupportedLocale)
}

func TestCompute_Universal2024(t *testing.T) {
	r := compute(t, Params{Year: 2024})

	assert.Equal(t, "en", r.Locale)
	assert.Equal(t, DefaultSettings(), r.Settings)

	tests := []struct {
		key  string
		want time.Time
	}{
		{"Easter", date(2024, time.March, 31)},
		{"AshWednesday", date(2024, time.February, 14)},
		{"BaptismLord", date(2024, time.January, 7)},
		{"OrdSunday2", date(2024, time.January, 14)},
		{"OrdSunday6", date(2024, time.February, 11)},
		{"Ascension", date(2024, time.May, 9)},
		{"Easter7", date(2024, time.May, 12)},
		{"Pentecost", date(2024, time.May, 19)},
		{"MaryMotherChurch", date(2024, time.May, 20)},
		{"CorpusChristi", date(2024, time.May, 30)},
		{"OrdSunday33", date(2024, time.November, 17)},
		{"ChristKing", date(2024, time.November, 24)},
		{"Advent1", date(2024, time.December, 1)},
		{"HolyFamily", date(2024, time.December, 29)},
		// Monday of Holy Week: moved past the Easter octave.
		{"Annunciation", date(2024, time.April, 8)},
		// Second Sunday of Advent: moved to the Monday.
		{"ImmaculateConception", date(2024, time.December, 9)},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assertOn(t, find(t, r, tt.key), tt.want)
		})
	}

	magdalene := find(t, r, "StMaryMagdalene")
	assert.Equal(t, liturgy.RankFeast, magdalene.Rank)
	assert.Equal(t, "feast", magdalene.GradeLabel)

	assert.Equal(t, "Saints Martha, Mary and Lazarus", find(t, r, "StMartha").Name)
	assert.True(t, strings.HasSuffix(find(t, r, "StThereseChildJesus").Name, " and Doctor of the Church"))

	var transferred []string
	for _, ri := range r.Reinstated {
		transferred = append(transferred, ri.Key)
	}
	assert.Contains(t, transferred, "Annunciation")
	assert.Contains(t, transferred, "ImmaculateConception")
}

func TestCompute_Annotations(t *testing.T) {
	r := compute(t, Params{Year: 2024})

	tests := []struct {
		key     string
		season  liturgy.Season
		psalter int
		sunday  string
		weekday string
	}{
		{"OrdSunday2", liturgy.SeasonOrdinary, 2, "B", "II"},
		{"OrdWeekday1Monday", liturgy.SeasonOrdinary, 1, "B", "II"},
		{"AshWednesday", liturgy.SeasonLent, 4, "B", "II"},
		{"Lent1", liturgy.SeasonLent, 1, "B", "II"},
		{"GoodFri", liturgy.SeasonTriduum, 2, "B", "II"},
		{"Easter", liturgy.SeasonEaster, 1, "B", "II"},
		{"Advent1", liturgy.SeasonAdvent, 1, "C", "I"},
		{"Christmas", liturgy.SeasonChristmas, 1, "C", "I"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c := find(t, r, tt.key)
			assert.Equal(t, tt.season, c.Season)
			assert.Equal(t, tt.psalter, c.PsalterWeek)
			assert.Equal(t, tt.sunday, c.SundayCycle)
			assert.Equal(t, tt.weekday, c.WeekdayCycle)
		})
	}

	assertOn(t, find(t, r, "OrdWeekday1Monday"), date(2024, time.January, 8))
	assert.Equal(t, "Monday of the First Week of Ordinary Time", find(t, r, "OrdWeekday1Monday").Name)
	assert.Equal(t, "Second Sunday of Ordinary Time", find(t, r, "OrdSunday2").Name)
	assert.Equal(t, "solemnity", find(t, r, "Easter").GradeLabel)
	assert.Equal(t, "feast", find(t, r, "Presentation").GradeLabel)
}

func TestCompute_DivineMercyName(t *testing.T) {
	assert.Equal(t, "Second Sunday of Easter", find(t, compute(t, Params{Year: 1999}), "Easter2").Name)
	assert.Equal(t, "Second Sunday of Easter (Divine Mercy Sunday)", find(t, compute(t, Params{Year: 2000}), "Easter2").Name)
}

func TestCompute_CoincidingMemorialsBecomeOptional(t *testing.T) {
	r := compute(t, Params{Year: 2014})

	heart := find(t, r, "ImmaculateHeart")
	irenaeus := find(t, r, "StIrenaeus")
	assertOn(t, heart, date(2014, time.June, 28))
	assertOn(t, irenaeus, date(2014, time.June, 28))
	assert.Equal(t, liturgy.RankOptionalMemorial, heart.Rank)
	assert.Equal(t, liturgy.RankOptionalMemorial, irenaeus.Rank)
}

func TestCompute_ImmaculateHeartRank(t *testing.T) {
	// Easter 1995 is April 16: the Immaculate Heart falls on June 24, held
	// by the Nativity of John the Baptist.
	r := compute(t, Params{Year: 1995})
	entry, ok := r.FindSuppressed("ImmaculateHeart")
	require.True(t, ok)
	assert.Equal(t, liturgy.RankOptionalMemorial, entry.Celebration.Rank)
	assert.Equal(t, "NativityJohnBaptist", entry.By.Key)

	assert.Equal(t, liturgy.RankMemorial, find(t, compute(t, Params{Year: 2024}), "ImmaculateHeart").Rank)
}

func TestCompute_TransfersAroundHolyWeek(t *testing.T) {
	r := compute(t, Params{Year: 2008})

	// Easter 2008 is March 23: St Joseph falls in Holy Week and the
	// Annunciation in the Easter octave.
	assertOn(t, find(t, r, "StJoseph"), date(2008, time.March, 15))
	assertOn(t, find(t, r, "Annunciation"), date(2008, time.March, 31))
}

func TestCompute_UnresolvedCoincidence(t *testing.T) {
	r := compute(t, Params{Year: 2022})

	// The Sacred Heart and the Nativity of John the Baptist share June 24.
	assertOn(t, find(t, r, "SacredHeart"), date(2022, time.June, 24))
	_, active := r.Find("NativityJohnBaptist")
	assert.False(t, active)

	var found bool
	for _, a := range r.Advisories {
		if a.Key == "NativityJohnBaptist" && a.Severity == liturgy.SeverityAdjudication {
			found = true
			assert.Equal(t, "SacredHeart", a.CoincidingKey)
		}
	}
	assert.True(t, found, "expected an adjudication advisory")
}

func TestCompute_OrdinarySundaySkipped(t *testing.T) {
	r := compute(t, Params{Year: 2025})

	// February 2, 2025 is a Sunday.
	assertOn(t, find(t, r, "Presentation"), date(2025, time.February, 2))
	_, ok := r.Find("OrdSunday4")
	assert.False(t, ok)

	var skipped bool
	for _, a := range r.Advisories {
		if a.Key == "OrdSunday4" && a.Kind == liturgy.KindSkipped {
			skipped = true
		}
	}
	assert.True(t, skipped)
	assertOn(t, find(t, r, "OrdSunday5"), date(2025, time.February, 9))

	// Trinity Sunday, June 15, 2025, takes the place of an Ordinary Sunday.
	var byTrinity *liturgy.Advisory
	for i, a := range r.Advisories {
		if a.Kind == liturgy.KindSkipped && a.CoincidingKey == "Trinity" {
			byTrinity = &r.Advisories[i]
		}
	}
	require.NotNil(t, byTrinity)
	assert.Equal(t, liturgy.SeverityInfo, byTrinity.Severity)
	assert.True(t, strings.HasPrefix(byTrinity.Key, "OrdSunday"), byTrinity.Key)
	assertOn(t, find(t, r, "Trinity"), date(2025, time.June, 15))
}

func TestCompute_DecreeWindows(t *testing.T) {
	tests := []struct {
		year int
		rank liturgy.Rank
	}{
		{2015, liturgy.RankMemorial},
		{2016, liturgy.RankFeast},
		{2030, liturgy.RankFeast},
	}
	for _, tt := range tests {
		r := compute(t, Params{Year: tt.year})
		if got := find(t, r, "StMaryMagdalene").Rank; got != tt.rank {
			t.Errorf("StMaryMagdalene in %d = %s, want %s", tt.year, got, tt.rank)
		}
	}

	_, ok := compute(t, Params{Year: 2017}).Find("MaryMotherChurch")
	assert.False(t, ok)

	name := find(t, compute(t, Params{Year: 1997}), "StThereseChildJesus").Name
	assert.Equal(t, "Saint Thérèse of the Child Jesus, virgin", name)
}

func TestCompute_Italian(t *testing.T) {
	r := compute(t, Params{Year: 2024, Locale: "it"})

	assert.Equal(t, "it", r.Locale)
	assert.Equal(t, "II Domenica del Tempo Ordinario", find(t, r, "OrdSunday2").Name)
	assert.Equal(t, "festa", find(t, r, "StMaryMagdalene").GradeLabel)
	assert.Equal(t, "Santa Teresa di Gesù Bambino, vergine e dottore della Chiesa", find(t, r, "StThereseChildJesus").Name)
}

func TestCompute_National(t *testing.T) {
	r := compute(t, Params{Year: 2024, Nation: "IT"})

	assert.Equal(t, "it", r.Locale)
	assert.Equal(t, liturgy.AscensionSunday, r.Settings.Ascension)
	assertOn(t, find(t, r, "Ascension"), date(2024, time.May, 12))
	_, ok := r.Find("Easter7")
	assert.False(t, ok)
	assertOn(t, find(t, r, "CorpusChristi"), date(2024, time.June, 2))

	catherine := find(t, r, "StCatherineSiena")
	assert.Equal(t, liturgy.RankFeast, catherine.Rank)
	assert.Equal(t, "Santa Caterina da Siena, vergine e dottore della Chiesa, patrona d'Italia e d'Europa", catherine.Name)

	francis := find(t, r, "StFrancisAssisi")
	assert.Equal(t, liturgy.RankFeast, francis.Rank)
	assert.Equal(t, "San Francesco d'Assisi, patrono d'Italia", francis.Name)

	assert.Equal(t, liturgy.RankFeast, find(t, r, "StBenedict").Rank)
}

func TestCompute_DiocesanLayerWins(t *testing.T) {
	r := compute(t, Params{Year: 2024, Diocese: "assisi"})

	francis := find(t, r, "StFrancisAssisi")
	assertOn(t, francis, date(2024, time.October, 4))
	assert.Equal(t, liturgy.RankSolemnity, francis.Rank)
	assert.Equal(t, "San Francesco d'Assisi, patrono d'Italia e della diocesi", francis.Name)

	rufinus := find(t, r, "assisi_StRufinus")
	assertOn(t, rufinus, date(2024, time.August, 12))
	assert.Equal(t, liturgy.RankFeast, rufinus.Rank)
	assert.Equal(t, liturgy.RegionSource("diocesan", "assisi"), rufinus.Source)

	entry, ok := r.FindSuppressed("StJaneFrancesDeChantal")
	require.True(t, ok)
	assert.Equal(t, "assisi_StRufinus", entry.By.Key)
}

func TestCompute_PatronReinstated(t *testing.T) {
	// Pentecost 2024 is May 19, so Philip Neri (May 26) yields to Trinity
	// Sunday and stays suppressed even as a patron.
	r := compute(t, Params{Year: 2024, Diocese: "roma"})
	_, ok := r.Find("StPhilipNeri")
	assert.False(t, ok)

	// Pentecost 2026 is May 24: Mary Mother of the Church takes May 25 and
	// Philip Neri (Tuesday May 26) keeps his date as a feast.
	r = compute(t, Params{Year: 2026, Diocese: "roma"})
	philip := find(t, r, "StPhilipNeri")
	assert.Equal(t, liturgy.RankFeast, philip.Rank)

	lateran := find(t, r, "DedicationLateran")
	assert.Equal(t, liturgy.RankSolemnity, lateran.Rank)
	assert.Nil(t, lateran.DisplayRank)
}

func TestCompute_UnitedStates(t *testing.T) {
	r := compute(t, Params{Year: 2024, Nation: "US"})

	assert.Equal(t, liturgy.EpiphanySunday, r.Settings.Epiphany)
	assertOn(t, find(t, r, "Epiphany"), date(2024, time.January, 7))
	assertOn(t, find(t, r, "BaptismLord"), date(2024, time.January, 8))

	assertOn(t, find(t, r, "StVincentDeacon"), date(2024, time.January, 23))
	assertOn(t, find(t, r, "US_DayOfPrayerUnborn"), date(2024, time.January, 22))
	assertOn(t, find(t, r, "US_Thanksgiving"), date(2024, time.November, 28))
	assert.Equal(t, liturgy.RankMemorial, find(t, r, "US_StPeterClaver").Rank)

	// July 14, 2024 is a Sunday.
	_, ok := r.FindSuppressed("US_StKateriTekakwitha")
	assert.True(t, ok)

	guadalupe := find(t, r, "LadyGuadalupe")
	assert.Equal(t, liturgy.RankFeast, guadalupe.Rank)
}

func TestCompute_SettingsPrecedence(t *testing.T) {
	r := compute(t, Params{Year: 2024, Diocese: "boston"})
	assert.Equal(t, liturgy.AscensionThursday, r.Settings.Ascension, "diocese overrides nation")
	assert.Equal(t, liturgy.EpiphanySunday, r.Settings.Epiphany, "nation overrides defaults")
	assertOn(t, find(t, r, "Ascension"), date(2024, time.May, 9))

	sunday := liturgy.AscensionSunday
	r = compute(t, Params{Year: 2024, Diocese: "boston", Ascension: &sunday})
	assert.Equal(t, liturgy.AscensionSunday, r.Settings.Ascension, "explicit parameters override the diocese")
	assertOn(t, find(t, r, "Ascension"), date(2024, time.May, 12))

	yes := true
	r = compute(t, Params{Year: 2024, EternalHighPriest: &yes})
	assertOn(t, find(t, r, "JesusChristEternalHighPriest"), date(2024, time.May, 23))
}

func TestCompute_LiturgicalYear(t *testing.T) {
	r := compute(t, Params{Year: 2024, YearType: YearLiturgical})

	require.NotEmpty(t, r.Celebrations)
	first := r.Celebrations[0]
	last := r.Celebrations[len(r.Celebrations)-1]
	assertOn(t, first, date(2023, time.December, 3))
	assert.Equal(t, date(2024, time.December, 31), last.Date)

	assertOn(t, find(t, r, "Advent1_2023"), date(2023, time.December, 3))
	assertOn(t, find(t, r, "Advent1"), date(2024, time.December, 1))

	keys := make(map[string]bool)
	days := make(map[time.Time]bool)
	for _, c := range r.Celebrations {
		assert.False(t, keys[c.Key], "duplicate key %s", c.Key)
		keys[c.Key] = true
		days[c.Date] = true
	}
	for d := first.Date; !d.After(last.Date); d = d.AddDate(0, 0, 1) {
		assert.True(t, days[d], "no celebration on %s", calendar.FormatDate(d))
	}

	for _, a := range r.Advisories {
		if !a.Date.IsZero() {
			assert.False(t, a.Date.Before(first.Date), "advisory outside the year: %s", a.Message)
		}
	}
}

func TestCompute_Invariants(t *testing.T) {
	scopes := []Params{
		{},
		{Nation: "IT"},
		{Nation: "US"},
		{Diocese: "assisi"},
		{Diocese: "roma"},
		{Diocese: "boston"},
	}
	years := []int{1970, 1985, 1995, 2000, 2008, 2011, 2014, 2019, 2022, 2024, 2025, 2038}

	for _, scope := range scopes {
		for _, year := range years {
			p := scope
			p.Year = year
			r := compute(t, p)

			exclusive := make(map[time.Time]string)
			weekday := make(map[time.Time]string)
			active := make(map[string]bool)
			for _, c := range r.Celebrations {
				active[c.Key] = true
				if c.Rank.Exclusive() {
					if other, ok := exclusive[c.Date]; ok {
						t.Errorf("%d %+v: %s and %s share %s", year, scope, other, c.Key, calendar.FormatDate(c.Date))
					}
					exclusive[c.Date] = c.Key
				}
				if c.Rank == liturgy.RankWeekday {
					if other, ok := weekday[c.Date]; ok {
						t.Errorf("%d %+v: weekdays %s and %s share %s", year, scope, other, c.Key, calendar.FormatDate(c.Date))
					}
					weekday[c.Date] = c.Key
				}
				assert.Equal(t, year, c.Date.Year())
				assert.NotEmpty(t, c.Season, c.Key)
				assert.NotEmpty(t, c.GradeLabel, c.Key)
			}
			for _, s := range r.Suppressed {
				assert.False(t, active[s.Celebration.Key], "%d: %s both active and suppressed", year, s.Celebration.Key)
			}
		}
	}
}

func TestCompute_EveryDayCelebrated(t *testing.T) {
	for _, year := range []int{2023, 2024, 2025} {
		r := compute(t, Params{Year: year})
		days := make(map[time.Time]bool)
		for _, c := range r.Celebrations {
			days[c.Date] = true
		}
		for d := date(year, time.January, 1); d.Year() == year; d = d.AddDate(0, 0, 1) {
			assert.True(t, days[d], "no celebration on %s", calendar.FormatDate(d))
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	a := compute(t, Params{Year: 2024, Diocese: "roma"})
	b := compute(t, Params{Year: 2024, Diocese: "roma"})
	assert.Equal(t, a, b)
}

// overrideSource replaces one document of the embedded data.
type overrideSource struct {
	refdata.Source
	kind refdata.Kind
	id   string
	body string
}

func (s overrideSource) Document(ctx context.Context, kind refdata.Kind, id string) ([]byte, error) {
	if kind == s.kind && id == s.id {
		return []byte(s.body), nil
	}
	return s.Source.Document(ctx, kind, id)
}

// engineWith layers the overrides over the embedded data.
func engineWith(overrides ...overrideSource) *Engine {
	var src refdata.Source = refdata.NewEmbedded()
	for _, o := range overrides {
		o.Source = src
		src = o
	}
	return New(refdata.NewRepository(src), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func engineWithDecrees(decrees string) *Engine {
	return engineWith(overrideSource{kind: refdata.KindDecrees, id: refdata.UniversalID, body: decrees})
}

func bostonWith(items string) overrideSource {
	return overrideSource{kind: refdata.KindDiocesan, id: "boston", body: `{
		"id": "boston", "name": "Archdiocese of Boston", "nation": "US", "locales": ["en"],
		"settings": {"ascension": "THURSDAY"},
		"items": [` + items + `],
		"names": {"en": {"StLocal": "Diocesan name"}}
	}`}
}

func computeWith(t *testing.T, e *Engine, p Params) *Result {
	t.Helper()
	r, err := e.Compute(context.Background(), p)
	require.NoError(t, err)
	return r
}

func advisory(r *Result, key string, kind liturgy.AdvisoryKind) *liturgy.Advisory {
	for i, a := range r.Advisories {
		if a.Key == key && a.Kind == kind {
			return &r.Advisories[i]
		}
	}
	return nil
}

func TestCompute_DecreeTargetMissing(t *testing.T) {
	e := engineWithDecrees(`{"decrees": [
		{"id": "Nobody2000", "key": "StNobody", "action": "declare_doctor", "since": 2000, "citation": "test"}
	]}`)

	_, err := e.Compute(context.Background(), Params{Year: 2024})
	assert.ErrorIs(t, err, ErrDecreeTargetMissing)

	_, err = e.Compute(context.Background(), Params{Year: 1999})
	assert.NoError(t, err, "a decree not yet in force is ignored")
}

func TestCompute_DeclareDoctorIdempotent(t *testing.T) {
	e := engineWithDecrees(`{"decrees": [
		{"id": "ThereseDoctor1997", "key": "StThereseChildJesus", "action": "declare_doctor", "since": 1998, "citation": "first"},
		{"id": "ThereseDoctorAgain", "key": "StThereseChildJesus", "action": "declare_doctor", "since": 1998, "citation": "second"}
	]}`)

	r, err := e.Compute(context.Background(), Params{Year: 2024})
	require.NoError(t, err)
	name := find(t, r, "StThereseChildJesus").Name
	assert.Equal(t, 1, strings.Count(name, "Doctor of the Church"), name)
}

func TestCompute_SetGradeOnMissingKey(t *testing.T) {
	e := engineWithDecrees(`{"decrees": [
		{"id": "Ghost2000", "key": "StGhost", "action": "set_grade", "rank": "FEAST", "since": 2000, "citation": "test"}
	]}`)

	r, err := e.Compute(context.Background(), Params{Year: 2024})
	require.NoError(t, err)

	var skipped bool
	for _, a := range r.Advisories {
		if a.Key == "StGhost" && a.Kind == liturgy.KindSkipped {
			skipped = true
		}
	}
	assert.True(t, skipped)
}

func TestCompute_NarrowerLayerRedefinesCreation(t *testing.T) {
	us := overrideSource{kind: refdata.KindNational, id: "US", body: `{
		"id": "US", "name": "United States", "wider_region": "Americas", "locales": ["en"],
		"settings": {"epiphany": "SUNDAY_JAN2_JAN8", "ascension": "SUNDAY", "corpus_christi": "SUNDAY"},
		"missals": ["US_2011"],
		"items": [
			{"key": "StLocal", "action": "create_fixed", "month": 10, "day": 14, "rank": "MEMORIAL", "colors": ["white"], "since": 2000, "citation": "national"}
		],
		"names": {"en": {"StLocal": "National name"}}
	}`}

	tests := []struct {
		name     string
		items    string
		wantName string
		wantRank liturgy.Rank
		wantDate time.Time
	}{
		{
			name:     "created again",
			items:    `{"key": "StLocal", "action": "create_fixed", "month": 10, "day": 14, "rank": "OPTIONAL_MEMORIAL", "colors": ["red"], "since": 2000, "citation": "diocesan"}`,
			wantName: "Diocesan name",
			wantRank: liturgy.RankOptionalMemorial,
			wantDate: date(2025, time.October, 14),
		},
		{
			name:     "created on another date",
			items:    `{"key": "StLocal", "action": "create_fixed", "month": 10, "day": 16, "rank": "FEAST", "colors": ["red"], "since": 2000, "citation": "diocesan"}`,
			wantName: "Diocesan name",
			wantRank: liturgy.RankFeast,
			wantDate: date(2025, time.October, 16),
		},
		{
			name:     "grade changed",
			items:    `{"key": "StLocal", "action": "set_grade", "rank": "FEAST", "since": 2000, "citation": "diocesan"}`,
			wantName: "Diocesan name",
			wantRank: liturgy.RankFeast,
			wantDate: date(2025, time.October, 14),
		},
		{
			name:     "renamed",
			items:    `{"key": "StLocal", "action": "set_name", "since": 2000, "citation": "diocesan"}`,
			wantName: "Diocesan name",
			wantRank: liturgy.RankMemorial,
			wantDate: date(2025, time.October, 14),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := computeWith(t, engineWith(us, bostonWith(tt.items)), Params{Year: 2025, Diocese: "boston"})

			local := find(t, r, "US_StLocal")
			assert.Equal(t, tt.wantName, local.Name)
			assert.Equal(t, tt.wantRank, local.Rank)
			assertOn(t, local, tt.wantDate)

			_, ok := r.Find("boston_StLocal")
			assert.False(t, ok)
			_, ok = r.FindSuppressed("boston_StLocal")
			assert.False(t, ok)
			assert.Nil(t, advisory(r, "StLocal", liturgy.KindSkipped))
		})
	}
}

func TestCompute_MoveOntoHeldDate(t *testing.T) {
	e := engineWith(bostonWith(
		`{"key": "StVincentDeacon", "action": "move_event", "month": 1, "day": 25, "reason": "local custom", "since": 2000, "citation": "diocesan"}`))
	r := computeWith(t, e, Params{Year: 2025, Diocese: "boston"})

	_, ok := r.Find("StVincentDeacon")
	assert.False(t, ok)
	entry, ok := r.FindSuppressed("StVincentDeacon")
	require.True(t, ok)
	assertOn(t, &entry.Celebration, date(2025, time.January, 25))
	assert.Equal(t, "ConversionStPaul", entry.By.Key)
	assert.Equal(t, "local custom", entry.By.Reason)
	assert.Equal(t, "diocesan", entry.By.Citation)
	assertOn(t, find(t, r, "ConversionStPaul"), date(2025, time.January, 25))
}

func TestCompute_MoveEdgeCases(t *testing.T) {
	e := engineWith(bostonWith(
		`{"key": "StAgnes", "action": "move_event", "month": 3, "day": 11, "reason": "local custom", "since": 2000, "citation": "diocesan"},
		 {"key": "StPiusX", "action": "move_event", "month": 2, "day": 29, "reason": "leap day", "since": 2000, "citation": "diocesan"}`))

	// March 11, 2025 is a weekday of Lent.
	r := computeWith(t, e, Params{Year: 2025, Diocese: "boston"})
	agnes := find(t, r, "StAgnes")
	assertOn(t, agnes, date(2025, time.March, 11))
	assert.Equal(t, liturgy.RankCommemoration, agnes.Rank)
	assert.NotNil(t, advisory(r, "StAgnes", liturgy.KindDemoted))

	assertOn(t, find(t, r, "StPiusX"), date(2025, time.August, 21))
	assert.NotNil(t, advisory(r, "StPiusX", liturgy.KindSkipped))

	r = computeWith(t, e, Params{Year: 2028, Diocese: "boston"})
	assertOn(t, find(t, r, "StPiusX"), date(2028, time.February, 29))
}

func TestCompute_PatronReinstatedOverFeast(t *testing.T) {
	e := engineWith(bostonWith(
		`{"key": "StLocal", "action": "create_fixed", "month": 11, "day": 4, "rank": "FEAST", "colors": ["red"], "since": 2000, "citation": "diocesan"},
		 {"key": "StCharlesBorromeo", "action": "make_patron", "rank": "SOLEMNITY", "since": 2000, "citation": "patronage"}`))
	r := computeWith(t, e, Params{Year: 2025, Diocese: "boston"})

	charles := find(t, r, "StCharlesBorromeo")
	assertOn(t, charles, date(2025, time.November, 4))
	assert.Equal(t, liturgy.RankSolemnity, charles.Rank)
	assert.NotNil(t, advisory(r, "StCharlesBorromeo", liturgy.KindReinstated))

	entry, ok := r.FindSuppressed("boston_StLocal")
	require.True(t, ok)
	assert.Equal(t, "StCharlesBorromeo", entry.By.Key)
}

func TestCompute_OverlaySolemnityUnresolved(t *testing.T) {
	e := engineWith(bostonWith(
		`{"key": "StLocal", "action": "create_fixed", "month": 8, "day": 15, "rank": "SOLEMNITY", "colors": ["white"], "since": 2000, "citation": "diocesan"}`))
	r := computeWith(t, e, Params{Year: 2025, Diocese: "boston"})

	assertOn(t, find(t, r, "Assumption"), date(2025, time.August, 15))
	_, ok := r.FindSuppressed("boston_StLocal")
	assert.True(t, ok)

	a := advisory(r, "boston_StLocal", liturgy.KindUnresolved)
	require.NotNil(t, a)
	assert.Equal(t, liturgy.SeverityAdjudication, a.Severity)
	assert.Equal(t, "Assumption", a.CoincidingKey)
}

func TestCompute_MissalMemorialShared(t *testing.T) {
	missal := overrideSource{kind: refdata.KindMissal, id: "US_2011", body: `{
		"id": "US_2011", "year": 2011, "region": "US", "locales": ["en"],
		"entries": [
			{"key": "StLocalMissal", "month": 8, "day": 4, "rank": "MEMORIAL", "colors": ["white"]}
		],
		"names": {"en": {"StLocalMissal": "Saint of the Missal"}}
	}`}
	r := computeWith(t, engineWith(missal), Params{Year: 2025, Nation: "US"})

	// August 4, 2025 is a Monday.
	vianney := find(t, r, "StJohnVianney")
	assert.Equal(t, liturgy.RankOptionalMemorial, vianney.Rank)
	local := find(t, r, "US_StLocalMissal")
	assert.Equal(t, liturgy.RankOptionalMemorial, local.Rank)
	assertOn(t, local, date(2025, time.August, 4))
	assert.NotNil(t, advisory(r, "US_StLocalMissal", liturgy.KindDemoted))
}
