package liturgy

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRank(t *testing.T) {
	tests := []struct {
		in      string
		want    Rank
		wantErr bool
	}{
		{"weekday", RankWeekday, false},
		{"OPTIONAL_MEMORIAL", RankOptionalMemorial, false},
		{"Memorial", RankMemorial, false},
		{"FEAST_LORD", RankFeastOfTheLord, false},
		{"feast of the Lord", RankFeastOfTheLord, false},
		{"HIGHER_SOLEMNITY", RankHigherSolemnity, false},
		{" solemnity ", RankSolemnity, false},
		{"triple", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRank(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRank_Order(t *testing.T) {
	order := []Rank{
		RankWeekday, RankCommemoration, RankOptionalMemorial, RankMemorial,
		RankFeast, RankFeastOfTheLord, RankSolemnity, RankHigherSolemnity,
	}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1], order[i])
	}
}

func TestRank_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		R Rank `json:"r"`
	}{RankFeastOfTheLord})
	require.NoError(t, err)
	assert.JSONEq(t, `{"r": "feast of the Lord"}`, string(data))

	_, err = json.Marshal(Rank(42))
	assert.Error(t, err)
}

func TestCelebration_DisplayedRank(t *testing.T) {
	feast := RankFeast

	tests := []struct {
		name string
		cel  Celebration
		want Rank
	}{
		{"plain", Celebration{Rank: RankMemorial}, RankMemorial},
		{"higher solemnity shows as solemnity", Celebration{Rank: RankHigherSolemnity}, RankSolemnity},
		{"display override", Celebration{Rank: RankFeastOfTheLord, DisplayRank: &feast}, RankFeast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cel.DisplayedRank())
		})
	}
}

func TestCelebration_Clone(t *testing.T) {
	orig := &Celebration{
		Key:    "StJoseph",
		Date:   time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC),
		Colors: []Color{ColorWhite},
		Common: []string{"Proper"},
	}
	cp := orig.Clone()
	cp.Colors[0] = ColorRed
	cp.Common[0] = "Pastors"

	assert.Equal(t, ColorWhite, orig.Colors[0])
	assert.Equal(t, "Proper", orig.Common[0])
}

func TestSettingsParsing(t *testing.T) {
	e, err := ParseEpiphany("sunday_jan2_jan8")
	require.NoError(t, err)
	assert.Equal(t, EpiphanySunday, e)

	_, err = ParseAscension("friday")
	assert.Error(t, err)

	c, err := ParseCorpusChristi("Thursday")
	require.NoError(t, err)
	assert.Equal(t, CorpusChristiThursday, c)
}

func TestColor_IsValid(t *testing.T) {
	assert.True(t, ColorRose.IsValid())
	assert.False(t, Color("gold").IsValid())
}
