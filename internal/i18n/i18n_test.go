package i18n

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
)

func TestMatch(t *testing.T) {
	supported := []string{"en", "it"}

	tests := []struct {
		requested string
		want      string
	}{
		{"en", "en"},
		{"en-US", "en"},
		{"en_GB", "en"},
		{"it", "it"},
		{"it-IT", "it"},
		{"", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			got, err := Match(tt.requested, supported)
			require.NoError(t, err)
			if got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.requested, got, tt.want)
			}
		})
	}
}

func TestMatch_Unsupported(t *testing.T) {
	_, err := Match("ja", []string{"en", "it"})
	assert.ErrorIs(t, err, ErrUnsupportedLocale)

	_, err = Match("not a locale!", []string{"en"})
	assert.ErrorIs(t, err, ErrUnsupportedLocale)

	_, err = Match("en", nil)
	assert.ErrorIs(t, err, ErrUnsupportedLocale)
}

func TestBase(t *testing.T) {
	assert.Equal(t, "en", Base("en-US"))
	assert.Equal(t, "it", Base("it_IT"))
	assert.Equal(t, "la", Base("la"))
}

func TestLabels(t *testing.T) {
	en := For("en-US")
	it := For("it")

	assert.Equal(t, "Monday", en.Weekday(time.Monday))
	assert.Equal(t, "Lunedì", it.Weekday(time.Monday))

	assert.Equal(t, "December 17", en.MonthDay(time.December, 17))
	assert.Equal(t, "17 dicembre", it.MonthDay(time.December, 17))

	assert.Equal(t, "memorial", en.Rank(liturgy.RankMemorial))
	assert.Equal(t, "festa", it.Rank(liturgy.RankFeast))

	assert.Equal(t, " and Doctor of the Church", en.DoctorSuffix())
	assert.Equal(t, " e dottore della Chiesa", it.DoctorSuffix())

	assert.Same(t, en, For("fr"), "unknown languages fall back to English")
}

func TestOrdinals(t *testing.T) {
	tests := []struct {
		n       int
		english string
		roman   string
	}{
		{1, "First", "I"},
		{2, "Second", "II"},
		{4, "Fourth", "IV"},
		{9, "Ninth", "IX"},
		{14, "Fourteenth", "XIV"},
		{20, "Twentieth", "XX"},
		{21, "Twenty-First", "XXI"},
		{30, "Thirtieth", "XXX"},
		{34, "Thirty-Fourth", "XXXIV"},
		{52, "52nd", "LII"},
	}
	for _, tt := range tests {
		if got := englishOrdinal(tt.n); got != tt.english {
			t.Errorf("englishOrdinal(%d) = %q, want %q", tt.n, got, tt.english)
		}
		if got := roman(tt.n); got != tt.roman {
			t.Errorf("roman(%d) = %q, want %q", tt.n, got, tt.roman)
		}
	}
}
