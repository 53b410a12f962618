package refdata

import (
	"context"
	"encoding/json"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
)

func TestEmbeddedCatalog(t *testing.T) {
	c, err := Load(context.Background(), NewEmbedded())
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "it"}, c.Proper.Locales)

	easter, ok := c.Proper.Entry("Easter")
	require.True(t, ok)
	assert.Equal(t, liturgy.RankHigherSolemnity, easter.Rank)

	missals := c.UniversalMissals(2024)
	require.Len(t, missals, 3)
	assert.Equal(t, "EDITIO_TYPICA_1970", missals[0].ID)
	assert.Equal(t, "EDITIO_TYPICA_TERTIA_EMENDATA_2008", missals[2].ID)
	assert.Len(t, c.UniversalMissals(1999), 1)

	assert.Equal(t, []string{"IT", "US"}, c.NationIDs())
	assert.Equal(t, "Europe", c.Nations["IT"].WiderRegion)
	assert.Equal(t, LayerDiocesan, c.Dioceses["roma"].Layer)

	italian := c.DiocesesOf("IT")
	require.NotEmpty(t, italian)
	assert.Equal(t, "assisi", italian[0].ID)
}

func TestEmbeddedDecrees(t *testing.T) {
	c, err := Load(context.Background(), NewEmbedded())
	require.NoError(t, err)

	byID := map[string]DecreeAmendment{}
	for _, d := range c.Decrees.Decrees {
		byID[d.ID] = d
	}

	mm, ok := byID["MaryMotherChurch2018"]
	require.True(t, ok)
	create, ok := mm.Action.(CreateMobile)
	require.True(t, ok, "action = %T, want CreateMobile", mm.Action)
	assert.True(t, create.PrevailsOverMemorials)
	assert.Equal(t, liturgy.RankMemorial, create.Rank)
	date, err := create.Rule.Resolve(2024)
	require.NoError(t, err)
	assert.Equal(t, calendar.Date(2024, time.May, 20), date)

	assert.IsType(t, SetGrade{}, byID["MaryMagdaleneFeast2016"].Action)
	assert.IsType(t, DeclareDoctor{}, byID["IrenaeusDoctor2022"].Action)
	assert.False(t, byID["IrenaeusDoctor2022"].Applies(2021))
	assert.True(t, byID["IrenaeusDoctor2022"].Applies(2022))
}

func TestDateRules(t *testing.T) {
	tests := []struct {
		name string
		rule DateRule
		year int
		want time.Time
	}{
		{"fixed", FixedDate{Month: time.July, Day: 22}, 2024, calendar.Date(2024, time.July, 22)},
		{"easter offset", EasterOffset{Days: 69}, 2014, calendar.Date(2014, time.June, 28)},
		{"negative easter offset", EasterOffset{Days: -46}, 2025, calendar.Date(2025, time.March, 5)},
		{"thanksgiving", WeekdayRelative{Month: time.November, Day: 22, Direction: calendar.OnOrAfter, Weekday: time.Thursday}, 2024, calendar.Date(2024, time.November, 28)},
		{"thanksgiving on anchor", WeekdayRelative{Month: time.November, Day: 22, Direction: calendar.OnOrAfter, Weekday: time.Thursday}, 2029, calendar.Date(2029, time.November, 22)},
		{"leap day", FixedDate{Month: time.February, Day: 29}, 2024, calendar.Date(2024, time.February, 29)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rule.Resolve(tt.year)
			require.NoError(t, err)
			if !got.Equal(tt.want) {
				t.Errorf("Resolve(%d) = %s, want %s", tt.year, calendar.FormatDate(got), calendar.FormatDate(tt.want))
			}
		})
	}
}

func TestDateRules_Invalid(t *testing.T) {
	_, err := FixedDate{Month: time.February, Day: 29}.Resolve(2025)
	assert.ErrorIs(t, err, ErrInvalidDateRule)

	_, err = FixedDate{Month: 13, Day: 1}.Resolve(2025)
	assert.ErrorIs(t, err, ErrInvalidDateRule)

	_, err = decodeDateRule(json.RawMessage(`{"type":"lunar"}`))
	assert.ErrorIs(t, err, ErrInvalidDateRule)

	_, err = decodeDateRule(json.RawMessage(`{"type":"weekday_relative","month":11,"day":22,"direction":"soon","weekday":"thursday"}`))
	assert.ErrorIs(t, err, ErrInvalidDateRule)
}

func TestActionDecoding(t *testing.T) {
	var item OverlayItem
	require.NoError(t, json.Unmarshal([]byte(`{"key":"StVincentDeacon","action":"move_event","month":1,"day":23,"since":2011,"reason":"day of prayer"}`), &item))
	move, ok := item.Action.(MoveEvent)
	require.True(t, ok)
	assert.Equal(t, time.January, move.Month)
	assert.Equal(t, "day of prayer", move.Reason)
	assert.True(t, item.Applies(2011))
	assert.False(t, item.Applies(2010))

	var decree DecreeAmendment
	err := json.Unmarshal([]byte(`{"id":"x","key":"StX","action":"move_event","month":1,"day":23}`), &decree)
	assert.Error(t, err, "decrees cannot move celebrations")

	err = json.Unmarshal([]byte(`{"id":"x","key":"StX","action":"create_fixed","month":2,"day":30,"rank":"MEMORIAL"}`), &decree)
	assert.ErrorIs(t, err, ErrInvalidDateRule)

	err = json.Unmarshal([]byte(`{"id":"x","key":"StX","action":"set_grade","rank":"ARCHFEAST"}`), &decree)
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	tests := []struct {
		window Window
		year   int
		want   bool
	}{
		{Window{Since: 2016}, 2015, false},
		{Window{Since: 2016}, 2016, true},
		{Window{Since: 2016}, 9999, true},
		{Window{Since: 1970, Until: 1996}, 1995, true},
		{Window{Since: 1970, Until: 1996}, 1996, false},
	}
	for _, tt := range tests {
		if got := tt.window.Contains(tt.year); got != tt.want {
			t.Errorf("%+v.Contains(%d) = %v, want %v", tt.window, tt.year, got, tt.want)
		}
	}
}

func TestNamesLookup(t *testing.T) {
	names := Names{
		"en": {"StAgnes": "Saint Agnes"},
		"it": {"StAgnes": "Sant'Agnese"},
	}

	got, ok := names.Lookup("it-IT", "StAgnes")
	require.True(t, ok)
	assert.Equal(t, "Sant'Agnese", got)

	got, ok = names.Lookup("la", "StAgnes")
	require.True(t, ok)
	assert.Equal(t, "Saint Agnes", got, "missing locales fall back to English")

	_, ok = names.Lookup("en", "StLucy")
	assert.False(t, ok)
}

type countingSource struct {
	Source
	documents int
}

func (s *countingSource) Document(ctx context.Context, kind Kind, id string) ([]byte, error) {
	s.documents++
	return s.Source.Document(ctx, kind, id)
}

func TestRepositoryLoadsOnce(t *testing.T) {
	src := &countingSource{Source: NewEmbedded()}
	repo := NewRepository(src)

	first, err := repo.Catalog(context.Background())
	require.NoError(t, err)
	reads := src.documents

	second, err := repo.Catalog(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, reads, src.documents)
}

func TestLoad_MissingDocuments(t *testing.T) {
	fsys := fstest.MapFS{
		"proprium/universal.json": {Data: []byte(`{"locales":["en"],"entries":[],"names":{}}`)},
	}
	_, err := Load(context.Background(), NewFS(fsys))
	assert.ErrorIs(t, err, ErrMissingDocument)

	fsys["decrees/universal.json"] = &fstest.MapFile{Data: []byte(`{"decrees":[]}`)}
	fsys["diocese_index/universal.json"] = &fstest.MapFile{Data: []byte(`{"dioceses":[]}`)}
	_, err = Load(context.Background(), NewFS(fsys))
	assert.ErrorIs(t, err, ErrMissingDocument, "a universal missal is required")

	fsys["missal/EDITIO_TYPICA_1970.json"] = &fstest.MapFile{Data: []byte(`{"id":"EDITIO_TYPICA_1970","year":1970,"entries":[]}`)}
	fsys["national/XX.json"] = &fstest.MapFile{Data: []byte(`{"id":"XX","locales":["en"],"missals":["XX_2000"],"items":[]}`)}
	_, err = Load(context.Background(), NewFS(fsys))
	assert.ErrorIs(t, err, ErrMissingDocument, "national missal references are checked")

	delete(fsys, "national/XX.json")
	_, err = Load(context.Background(), NewFS(fsys))
	assert.NoError(t, err)
}
