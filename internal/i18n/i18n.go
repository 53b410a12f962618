// Package i18n resolves request locales against the locales a calendar scope
// supports and provides the localized labels the engine composes names from.
package i18n

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
)

// Fallback is the locale used when a name or label is missing in the
// requested locale.
const Fallback = "en"

// ErrUnsupportedLocale is returned when no supported locale matches a request.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// Match picks the supported locale that best serves requested. An empty
// request selects the first supported locale.
func Match(requested string, supported []string) (string, error) {
	if len(supported) == 0 {
		return "", fmt.Errorf("%w: %q (scope declares no locales)", ErrUnsupportedLocale, requested)
	}
	if strings.TrimSpace(requested) == "" {
		return supported[0], nil
	}

	want, err := language.Parse(strings.ReplaceAll(requested, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnsupportedLocale, requested, err)
	}

	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(s))
	}
	_, index, confidence := language.NewMatcher(tags).Match(want)
	if confidence == language.No {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedLocale, requested, strings.Join(supported, ", "))
	}
	return supported[index], nil
}

// Base returns the base language of a locale, e.g. "en" for "en-US".
func Base(locale string) string {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return strings.ToLower(locale)
	}
	base, _ := tag.Base()
	return base.String()
}

// Labels holds the localized vocabulary of one language.
type Labels struct {
	tag      language.Tag
	ranks    map[liturgy.Rank]string
	weekdays [7]string
	months   [12]string
	monthDay string
	ordinal  func(n int) string
	doctor   string
}

// For returns the labels of a locale's base language, falling back to English.
func For(locale string) *Labels {
	switch Base(locale) {
	case "it":
		return italian
	default:
		return english
	}
}

// Tag returns the language tag of the labels.
func (l *Labels) Tag() language.Tag { return l.tag }

// Rank returns the localized name of a rank.
func (l *Labels) Rank(r liturgy.Rank) string {
	if name, ok := l.ranks[r]; ok {
		return name
	}
	return r.String()
}

// Weekday returns the capitalized weekday name.
func (l *Labels) Weekday(d time.Weekday) string {
	return l.Title(l.weekdays[d])
}

// MonthDay returns a localized day and month, e.g. "December 17" or "17 dicembre".
func (l *Labels) MonthDay(m time.Month, day int) string {
	return strings.NewReplacer("{month}", l.months[m-1], "{day}", fmt.Sprint(day)).Replace(l.monthDay)
}

// Ordinal returns the ordinal form used in celebration names.
func (l *Labels) Ordinal(n int) string { return l.ordinal(n) }

// DoctorSuffix returns the phrase appended to the name of a Doctor of the Church.
func (l *Labels) DoctorSuffix() string { return l.doctor }

// Title title-cases s using the rules of the labels' language. A Caser
// keeps state, so each call builds its own.
func (l *Labels) Title(s string) string { return cases.Title(l.tag).String(s) }
