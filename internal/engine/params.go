package engine

import (
	"fmt"
	"strings"

	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
)

// Supported year range.
const (
	MinYear = 1970
	MaxYear = 9999
)

// YearType selects the span a calendar covers.
type YearType string

const (
	// YearCivil covers January 1 through December 31 of the requested year.
	YearCivil YearType = "CIVIL"
	// YearLiturgical covers the First Sunday of Advent of the previous year
	// through December 31 of the requested year.
	YearLiturgical YearType = "LITURGICAL"
)

// ParseYearType accepts "civil" or "liturgical" in any case. The empty
// string selects YearCivil.
func ParseYearType(s string) (YearType, error) {
	switch YearType(strings.ToUpper(strings.TrimSpace(s))) {
	case "", YearCivil:
		return YearCivil, nil
	case YearLiturgical:
		return YearLiturgical, nil
	}
	return "", fmt.Errorf("%w: year type %q", ErrInvalidParams, s)
}

// Params are the calendar parameters of one request. Nil settings are
// derived from the diocesan and national scope, then from the defaults.
type Params struct {
	Year     int      `json:"year"`
	YearType YearType `json:"year_type"`
	Locale   string   `json:"locale"`
	Nation   string   `json:"nation,omitempty"`
	Diocese  string   `json:"diocese,omitempty"`

	Epiphany          *liturgy.EpiphanySetting      `json:"epiphany,omitempty"`
	Ascension         *liturgy.AscensionSetting     `json:"ascension,omitempty"`
	CorpusChristi     *liturgy.CorpusChristiSetting `json:"corpus_christi,omitempty"`
	EternalHighPriest *bool                         `json:"eternal_high_priest,omitempty"`
}

// Settings are the resolved movable-feast settings of a computation.
type Settings struct {
	Epiphany          liturgy.EpiphanySetting      `json:"epiphany"`
	Ascension         liturgy.AscensionSetting     `json:"ascension"`
	CorpusChristi     liturgy.CorpusChristiSetting `json:"corpus_christi"`
	EternalHighPriest bool                         `json:"eternal_high_priest"`
}

// DefaultSettings are the settings of the universal calendar.
func DefaultSettings() Settings {
	return Settings{
		Epiphany:          liturgy.EpiphanyJan6,
		Ascension:         liturgy.AscensionThursday,
		CorpusChristi:     liturgy.CorpusChristiThursday,
		EternalHighPriest: false,
	}
}

func (s *Settings) apply(o refdata.SettingsOverride) {
	if o.Epiphany != nil {
		s.Epiphany = *o.Epiphany
	}
	if o.Ascension != nil {
		s.Ascension = *o.Ascension
	}
	if o.CorpusChristi != nil {
		s.CorpusChristi = *o.CorpusChristi
	}
	if o.EternalHighPriest != nil {
		s.EternalHighPriest = *o.EternalHighPriest
	}
}

// resolveSettings layers explicit parameters over the diocesan settings,
// the national settings and the defaults.
func resolveSettings(p Params, sc scope) Settings {
	s := DefaultSettings()
	if sc.nation != nil {
		s.apply(sc.nation.Settings)
	}
	if sc.diocese != nil {
		s.apply(sc.diocese.Settings)
	}
	s.apply(refdata.SettingsOverride{
		Epiphany:          p.Epiphany,
		Ascension:         p.Ascension,
		CorpusChristi:     p.CorpusChristi,
		EternalHighPriest: p.EternalHighPriest,
	})
	return s
}

// scope holds the overlays selected by a request, widest first.
type scope struct {
	wider   *refdata.Overlay
	nation  *refdata.Overlay
	diocese *refdata.Overlay
}

func (sc scope) layers() []*refdata.Overlay {
	var out []*refdata.Overlay
	for _, o := range []*refdata.Overlay{sc.wider, sc.nation, sc.diocese} {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// locales returns the locales the narrowest layer supports.
func (sc scope) locales(universal []string) []string {
	for _, o := range []*refdata.Overlay{sc.diocese, sc.nation} {
		if o != nil && len(o.Locales) > 0 {
			return o.Locales
		}
	}
	return universal
}

func resolveScope(cat *refdata.Catalog, p Params) (scope, error) {
	var sc scope
	nation := strings.ToUpper(strings.TrimSpace(p.Nation))
	diocese := strings.ToLower(strings.TrimSpace(p.Diocese))

	if diocese != "" {
		entry, ok := cat.Index[diocese]
		if !ok {
			return sc, fmt.Errorf("%w: %s", ErrUnknownDiocese, p.Diocese)
		}
		if nation == "" {
			nation = entry.Nation
		} else if entry.Nation != nation {
			return sc, fmt.Errorf("%w: %s belongs to %s, not %s", ErrUnknownDiocese, diocese, entry.Nation, nation)
		}
		sc.diocese = cat.Dioceses[diocese]
	}

	if nation != "" {
		n, ok := cat.Nations[nation]
		if !ok {
			return sc, fmt.Errorf("%w: %s", ErrUnknownNation, p.Nation)
		}
		sc.nation = n
		if n.WiderRegion != "" {
			sc.wider = cat.WiderRegions[n.WiderRegion]
		}
	}
	return sc, nil
}

func validateYear(p Params) error {
	if p.Year < MinYear || p.Year > MaxYear {
		return fmt.Errorf("%w: %d (supported %d-%d)", ErrYearOutOfRange, p.Year, MinYear, MaxYear)
	}
	if p.YearType == YearLiturgical && p.Year-1 < MinYear {
		return fmt.Errorf("%w: liturgical year %d begins in %d", ErrYearOutOfRange, p.Year, p.Year-1)
	}
	return nil
}
