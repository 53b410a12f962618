package refdata

import (
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/i18n"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
)

// Names maps a locale to the names of a document's keys.
type Names map[string]map[string]string

// Lookup returns the name of key in locale, falling back to the locale's
// base language and then to English.
func (n Names) Lookup(locale, key string) (string, bool) {
	for _, l := range []string{locale, i18n.Base(locale), i18n.Fallback} {
		if name, ok := n[l][key]; ok {
			return name, true
		}
	}
	return "", false
}

// Entry is a ranked celebration definition shared by the Proprium de Tempore
// and the missal sanctorale tables.
type Entry struct {
	Key         string          `json:"key"`
	Rank        liturgy.Rank    `json:"rank"`
	DisplayRank *liturgy.Rank   `json:"display_rank,omitempty"`
	Colors      []liturgy.Color `json:"colors"`
	Common      []string        `json:"common,omitempty"`
}

// ProperDocument is the Proprium de Tempore: the celebrations of the
// seasons together with the name templates for generated weekdays.
type ProperDocument struct {
	Locales []string `json:"locales"`
	Entries []Entry  `json:"entries"`
	Names   Names    `json:"names"`

	index map[string]Entry
}

// Entry returns the proper entry with the given key.
func (p *ProperDocument) Entry(key string) (Entry, bool) {
	e, ok := p.index[key]
	return e, ok
}

func (p *ProperDocument) buildIndex() {
	p.index = make(map[string]Entry, len(p.Entries))
	for _, e := range p.Entries {
		p.index[e.Key] = e
	}
}

// SanctoraleEntry is a fixed-date celebration of a missal edition.
type SanctoraleEntry struct {
	Entry
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// Missal is one edition's sanctorale. Universal editions have no Region.
type Missal struct {
	ID      string            `json:"id"`
	Year    int               `json:"year"`
	Region  string            `json:"region,omitempty"`
	Locales []string          `json:"locales,omitempty"`
	Entries []SanctoraleEntry `json:"entries"`
	Names   Names             `json:"names"`
}

// Universal reports whether the edition belongs to the universal calendar.
func (m *Missal) Universal() bool { return m.Region == "" }

// DecreeLog is the ordered, append-only log of decrees with the names the
// decrees introduce.
type DecreeLog struct {
	Decrees []DecreeAmendment `json:"decrees"`
	Names   Names             `json:"names"`
}

// Layer identifies the level of a regional overlay.
type Layer string

const (
	LayerWiderRegion Layer = "wider_region"
	LayerNational    Layer = "national"
	LayerDiocesan    Layer = "diocesan"
)

// SettingsOverride carries the movable-feast settings an overlay imposes.
// Nil fields leave the inherited value untouched.
type SettingsOverride struct {
	Epiphany          *liturgy.EpiphanySetting      `json:"epiphany,omitempty"`
	Ascension         *liturgy.AscensionSetting     `json:"ascension,omitempty"`
	CorpusChristi     *liturgy.CorpusChristiSetting `json:"corpus_christi,omitempty"`
	EternalHighPriest *bool                         `json:"eternal_high_priest,omitempty"`
}

// Overlay is a Wider-Region, National or Diocesan document.
type Overlay struct {
	ID          string           `json:"id"`
	Layer       Layer            `json:"layer"`
	Name        string           `json:"name"`
	Nation      string           `json:"nation,omitempty"`
	WiderRegion string           `json:"wider_region,omitempty"`
	Locales     []string         `json:"locales"`
	Settings    SettingsOverride `json:"settings"`
	Missals     []string         `json:"missals,omitempty"`
	Items       []OverlayItem    `json:"items"`
	Names       Names            `json:"names"`
}

// KeyPrefix is prepended to the keys the overlay creates.
func (o *Overlay) KeyPrefix() string {
	return o.ID + "_"
}

// Diocese is an entry of the world diocese index.
type Diocese struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Nation string `json:"nation"`
}

// DioceseIndex lists every known diocese.
type DioceseIndex struct {
	Dioceses []Diocese `json:"dioceses"`
}
