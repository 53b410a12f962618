package i18n

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
)

var english = &Labels{
	tag: language.English,
	ranks: map[liturgy.Rank]string{
		liturgy.RankWeekday:          "weekday",
		liturgy.RankCommemoration:    "commemoration",
		liturgy.RankOptionalMemorial: "optional memorial",
		liturgy.RankMemorial:         "memorial",
		liturgy.RankFeast:            "feast",
		liturgy.RankFeastOfTheLord:   "feast of the Lord",
		liturgy.RankSolemnity:        "solemnity",
		liturgy.RankHigherSolemnity:  "celebration with precedence over solemnities",
	},
	weekdays: [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"},
	months: [12]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	monthDay: "{month} {day}",
	ordinal:  englishOrdinal,
	doctor:   " and Doctor of the Church",
}

var italian = &Labels{
	tag: language.Italian,
	ranks: map[liturgy.Rank]string{
		liturgy.RankWeekday:          "feria",
		liturgy.RankCommemoration:    "commemorazione",
		liturgy.RankOptionalMemorial: "memoria facoltativa",
		liturgy.RankMemorial:         "memoria obbligatoria",
		liturgy.RankFeast:            "festa",
		liturgy.RankFeastOfTheLord:   "festa del Signore",
		liturgy.RankSolemnity:        "solennità",
		liturgy.RankHigherSolemnity:  "celebrazione con precedenza sulle solennità",
	},
	weekdays: [7]string{"domenica", "lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato"},
	months: [12]string{"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
		"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"},
	monthDay: "{day} {month}",
	ordinal:  roman,
	doctor:   " e dottore della Chiesa",
}

var ordinalWords = []string{
	"", "First", "Second", "Third", "Fourth", "Fifth", "Sixth", "Seventh", "Eighth", "Ninth",
	"Tenth", "Eleventh", "Twelfth", "Thirteenth", "Fourteenth", "Fifteenth", "Sixteenth",
	"Seventeenth", "Eighteenth", "Nineteenth",
}

var tensWords = []string{"", "", "Twenty", "Thirty", "Forty"}

// englishOrdinal spells ordinals up to 49; larger numbers use digits.
func englishOrdinal(n int) string {
	switch {
	case n >= 1 && n < 20:
		return ordinalWords[n]
	case n >= 20 && n < 50:
		tens := tensWords[n/10]
		if n%10 == 0 {
			return strings.TrimSuffix(tens, "y") + "ieth"
		}
		return tens + "-" + ordinalWords[n%10]
	}
	return calendar.Ordinal(n)
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// roman renders n in Roman numerals, the ordinal form of Italian and Latin
// liturgical books.
func roman(n int) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}
