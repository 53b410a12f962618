// Package formatter renders calendars, advisories and key dates for the
// terminal.
package formatter

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
)

// Terminal palette.
var (
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
	ColorWarn   = lipgloss.Color("#fabd2f")
	ColorAlert  = lipgloss.Color("#fb4934")
)

// Predefined lipgloss styles.
var (
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleWarn   = lipgloss.NewStyle().Foreground(ColorWarn)
	StyleAlert  = lipgloss.NewStyle().Foreground(ColorAlert).Bold(true)
)

// vestments maps liturgical colors onto terminal colors.
var vestments = map[liturgy.Color]lipgloss.Color{
	liturgy.ColorWhite:  lipgloss.Color("#fbf1c7"),
	liturgy.ColorRed:    lipgloss.Color("#cc241d"),
	liturgy.ColorGreen:  lipgloss.Color("#98971a"),
	liturgy.ColorPurple: lipgloss.Color("#b16286"),
	liturgy.ColorRose:   lipgloss.Color("#f5a3b5"),
	liturgy.ColorBlack:  lipgloss.Color("#665c54"),
}

// SetPlain turns ANSI styling off for every style in the package.
func SetPlain(plain bool) {
	if plain {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Swatch renders a liturgical color name in its own color.
func Swatch(c liturgy.Color) string {
	col, ok := vestments[c]
	if !ok {
		return string(c)
	}
	return lipgloss.NewStyle().Foreground(col).Render("● " + string(c))
}

// RankStyle returns the style a celebration of the given rank is printed in.
func RankStyle(r liturgy.Rank) lipgloss.Style {
	switch {
	case r >= liturgy.RankSolemnity:
		return StyleBold
	case r >= liturgy.RankFeast:
		return lipgloss.NewStyle().Foreground(ColorFg)
	case r == liturgy.RankWeekday:
		return StyleDim
	default:
		return lipgloss.NewStyle()
	}
}

// SeverityStyle returns the style of an advisory severity label.
func SeverityStyle(s liturgy.Severity) lipgloss.Style {
	switch s {
	case liturgy.SeverityAdjudication:
		return StyleAlert
	case liturgy.SeverityCoincidence:
		return StyleWarn
	default:
		return StyleDim
	}
}
