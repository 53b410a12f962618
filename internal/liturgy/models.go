package liturgy

import (
	"fmt"
	"slices"
	"time"
)

// Color is a liturgical vestment color.
type Color string

const (
	ColorWhite  Color = "white"
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorRose   Color = "rose"
	ColorBlack  Color = "black"
)

// ValidColors returns all valid liturgical colors.
func ValidColors() []Color {
	return []Color{ColorWhite, ColorRed, ColorGreen, ColorPurple, ColorRose, ColorBlack}
}

// IsValid checks if a color is valid.
func (c Color) IsValid() bool {
	return slices.Contains(ValidColors(), c)
}

// Season represents a liturgical season.
type Season string

const (
	SeasonAdvent    Season = "advent"
	SeasonChristmas Season = "christmas"
	SeasonLent      Season = "lent"
	SeasonTriduum   Season = "easter_triduum"
	SeasonEaster    Season = "easter"
	SeasonOrdinary  Season = "ordinary_time"
)

// Source tags where a celebration originates.
const (
	SourceProprium = "PropriumDeTempore"
)

// MissalSource is the source tag of a celebration taken from a missal edition.
func MissalSource(edition string) string {
	return "Missal:" + edition
}

// DecreeSource is the source tag of a celebration created by a decree.
func DecreeSource(id string) string {
	return "Decree:" + id
}

// RegionSource is the source tag of a celebration created by a regional layer.
func RegionSource(layer, id string) string {
	return fmt.Sprintf("Region:%s:%s", layer, id)
}

// Celebration is one named, dated, ranked entry in a computed calendar.
type Celebration struct {
	Key  string    `json:"key"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`

	Colors []Color `json:"colors"`
	Rank   Rank    `json:"rank"`
	// DisplayRank overrides the grade shown for Rank without affecting
	// precedence, e.g. the Presentation of the Lord ranks as a feast of the
	// Lord but displays as a feast.
	DisplayRank *Rank `json:"display_rank,omitempty"`
	// GradeLabel is the localized label of the displayed grade.
	GradeLabel string   `json:"grade"`
	Common     []string `json:"common,omitempty"`
	Source     string   `json:"source"`
	Mobile     bool     `json:"mobile"`

	PsalterWeek  int    `json:"psalter_week,omitempty"`
	SundayCycle  string `json:"sunday_cycle,omitempty"`
	WeekdayCycle string `json:"weekday_cycle,omitempty"`
	Season       Season `json:"season,omitempty"`
}

// Clone returns a deep copy of the celebration.
func (c *Celebration) Clone() *Celebration {
	if c == nil {
		return nil
	}
	out := *c
	out.Colors = slices.Clone(c.Colors)
	out.Common = slices.Clone(c.Common)
	if c.DisplayRank != nil {
		r := *c.DisplayRank
		out.DisplayRank = &r
	}
	return &out
}

// IsSunday reports whether the celebration falls on a Sunday.
func (c *Celebration) IsSunday() bool {
	return c.Date.Weekday() == time.Sunday
}

// DisplayedRank returns the rank to show for the celebration. Celebrations
// with precedence over solemnities display as solemnities.
func (c *Celebration) DisplayedRank() Rank {
	if c.DisplayRank != nil {
		return *c.DisplayRank
	}
	if c.Rank == RankHigherSolemnity {
		return RankSolemnity
	}
	return c.Rank
}

func (c *Celebration) String() string {
	return fmt.Sprintf("%s %s (%s, %s)", c.Date.Format("2006-01-02"), c.Key, c.Name, c.Rank)
}
