package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/i18n"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
	"github.com/zapponejosh/liturgical-calendar/internal/store"
)

// request is the resolution of one Compute call shared by its passes.
type request struct {
	params   Params
	settings Settings
	locale   string
	labels   *i18n.Labels
	catalog  *refdata.Catalog
	scope    scope
}

// anchors are the dates a pass derives everything else from.
type anchors struct {
	easter     time.Time
	ashWed     time.Time
	lent1      time.Time
	palmSunday time.Time
	holyThurs  time.Time
	pentecost  time.Time
	advent1    time.Time
	christKing time.Time
	epiphany   time.Time
	baptism    time.Time
}

func anchorsFor(year int) anchors {
	easter := calendar.GregorianEaster(year)
	ash := calendar.AshWednesday(year)
	advent := calendar.FirstSundayOfAdvent(year)
	return anchors{
		easter:     easter,
		ashWed:     ash,
		lent1:      calendar.AddDays(ash, 4),
		palmSunday: calendar.PalmSunday(year),
		holyThurs:  calendar.AddDays(easter, -3),
		pentecost:  calendar.Pentecost(year),
		advent1:    advent,
		christKing: calendar.ChristTheKing(year),
	}
}

// Context is the state of one civil-year pass: the store being built and
// the advisories explaining it.
type Context struct {
	*request

	Year   int
	Store  *store.Store
	Logger *slog.Logger

	at         anchors
	sanctorale []sanctoraleItem
	advisories []liturgy.Advisory
}

func newContext(req *request, year int, logger *slog.Logger) *Context {
	return &Context{
		request: req,
		Year:    year,
		Store:   store.New(),
		Logger:  logger.With("year", year),
		at:      anchorsFor(year),
	}
}

// Advisories returns the advisories of the pass in the order they were raised.
func (c *Context) Advisories() []liturgy.Advisory {
	return c.advisories
}

func (c *Context) date(m time.Month, d int) time.Time {
	return calendar.Date(c.Year, m, d)
}

// ============================================================================
// Names
// ============================================================================

func (c *Context) properName(key string) string {
	if name, ok := c.catalog.Proper.Names.Lookup(c.locale, key); ok {
		return name
	}
	return key
}

func (c *Context) template(name string, args ...any) string {
	return fmt.Sprintf(c.properName("tpl:"+name), args...)
}

func (c *Context) weekdayName(d time.Time) string {
	return c.labels.Weekday(d.Weekday())
}

func (c *Context) properCelebration(key string, date time.Time) *liturgy.Celebration {
	entry, ok := c.catalog.Proper.Entry(key)
	if !ok {
		entry = refdata.Entry{Key: key, Rank: liturgy.RankWeekday}
	}
	cel := fromEntry(entry, c.properName(key), date, liturgy.SourceProprium)
	cel.Mobile = true
	return cel
}

func fromEntry(e refdata.Entry, name string, date time.Time, source string) *liturgy.Celebration {
	cel := &liturgy.Celebration{
		Key:    e.Key,
		Name:   name,
		Date:   calendar.Normalize(date),
		Colors: append([]liturgy.Color(nil), e.Colors...),
		Rank:   e.Rank,
		Common: append([]string(nil), e.Common...),
		Source: source,
	}
	if e.DisplayRank != nil {
		r := *e.DisplayRank
		cel.DisplayRank = &r
	}
	return cel
}

// ============================================================================
// Advisories
// ============================================================================

func describe(cel *liturgy.Celebration) string {
	return fmt.Sprintf("the %s '%s'", cel.DisplayedRank(), cel.Name)
}

func day(d time.Time) string {
	return d.Format("Monday, January 2, 2006")
}

func (c *Context) advise(sev liturgy.Severity, kind liturgy.AdvisoryKind, cel, other *liturgy.Celebration, citation, format string, args ...any) {
	a := liturgy.Advisory{
		Severity: sev,
		Kind:     kind,
		Year:     c.Year,
		Key:      cel.Key,
		Name:     cel.Name,
		Rank:     cel.Rank,
		Date:     cel.Date,
		Citation: citation,
		Message:  fmt.Sprintf(format, args...),
	}
	if other != nil {
		a.CoincidingKey = other.Key
		a.CoincidingName = other.Name
		a.CoincidingRank = other.Rank
	}
	c.advisories = append(c.advisories, a)
	c.Logger.Debug("advisory", "severity", sev, "kind", kind, "key", cel.Key)
}

func supersession(by *liturgy.Celebration, reason, citation string) store.Supersession {
	s := store.Supersession{Reason: reason, Citation: citation}
	if by != nil {
		s.Key = by.Key
		s.Name = by.Name
		s.Rank = by.Rank
	}
	return s
}

// ============================================================================
// Date inspection
// ============================================================================

// holder returns the highest-ranked active celebration on date with a rank
// of at least min, ignoring skip.
func (c *Context) holder(date time.Time, min liturgy.Rank, skip string) *liturgy.Celebration {
	if !c.Store.IsRankAtOrAboveOnDate(date, min, skip) {
		return nil
	}
	return c.Store.RankedCelebrationOnDate(date, skip)
}

// privileged reports whether date is a weekday on which memorials are
// reduced to commemorations: December 17-24, the last days of the Christmas
// octave and the weekdays of Lent.
func (c *Context) privileged(date time.Time) bool {
	if date.Month() == time.December {
		d := date.Day()
		if (d >= 17 && d <= 24) || d >= 29 {
			return true
		}
	}
	return !date.Before(c.at.ashWed) && date.Before(c.at.palmSunday)
}

// ============================================================================
// Placement
// ============================================================================

// placeOpts tunes the coincidence policy of place.
type placeOpts struct {
	citation string
	// prevails lets a memorial displace an obligatory memorial on its date.
	prevails bool
	// shareMemorial reduces two coinciding memorials to optional memorials
	// instead of letting the later one lose.
	shareMemorial bool
}

// place adds cel to the store, resolving any coincidence with what already
// holds its date. It reports whether cel became active; a celebration that
// loses is recorded in the suppressed registry.
func (c *Context) place(cel *liturgy.Celebration, opts placeOpts) (bool, error) {
	date := cel.Date

	if cel.Rank >= liturgy.RankOptionalMemorial && cel.Rank <= liturgy.RankMemorial && c.privileged(date) {
		if top := c.holder(date, liturgy.RankMemorial, cel.Key); top == nil {
			cel.Rank = liturgy.RankCommemoration
			cel.DisplayRank = nil
			c.advise(liturgy.SeverityCoincidence, liturgy.KindDemoted, cel, nil, opts.citation,
				"'%s' falls on the privileged weekday %s and is reduced to a commemoration.", cel.Name, day(date))
		}
	}

	top := c.holder(date, liturgy.RankMemorial, cel.Key)

	if top == nil && date.Weekday() == time.Sunday && cel.Rank < liturgy.RankFeastOfTheLord {
		return false, c.lose(cel, nil, liturgy.SeverityCoincidence, opts.citation,
			"%s falls on %s, a Sunday, and is not celebrated in %d.", capitalize(describe(cel)), day(date), c.Year)
	}

	if top != nil {
		switch {
		case cel.Rank >= liturgy.RankSolemnity && top.Rank >= liturgy.RankSolemnity:
			return false, c.lose(cel, top, liturgy.SeverityAdjudication, opts.citation,
				"%s coincides with %s on %s in %d. No rule resolves this coincidence; it is left suppressed pending a decision.",
				capitalize(describe(cel)), describe(top), day(date), c.Year)

		case !cel.Rank.Exclusive() || top.Rank > cel.Rank:
			return false, c.loseTo(cel, top, opts.citation)

		case top.Rank == cel.Rank && cel.Rank == liturgy.RankMemorial:
			switch {
			case opts.prevails:
				if err := c.displace(top, cel, opts.citation); err != nil {
					return false, err
				}
			case opts.shareMemorial:
				return true, c.shareDate(cel, top, opts.citation)
			default:
				return false, c.loseTo(cel, top, opts.citation)
			}

		case top.Rank >= cel.Rank:
			return false, c.loseTo(cel, top, opts.citation)

		default:
			if err := c.displace(top, cel, opts.citation); err != nil {
				return false, err
			}
		}
	}

	if err := c.clearFor(date, cel.Rank, cel); err != nil {
		return false, err
	}
	if err := c.Store.Add(cel); err != nil {
		return false, err
	}
	return true, nil
}

// shareDate lets an incoming memorial share its date with an obligatory
// memorial by reducing both to optional memorials.
func (c *Context) shareDate(cel, existing *liturgy.Celebration, citation string) error {
	if err := c.Store.SetRank(existing.Key, liturgy.RankOptionalMemorial); err != nil {
		return err
	}
	cel.Rank = liturgy.RankOptionalMemorial
	if err := c.clearFor(cel.Date, cel.Rank, cel); err != nil {
		return err
	}
	if err := c.Store.Add(cel); err != nil {
		return err
	}
	c.advise(liturgy.SeverityCoincidence, liturgy.KindDemoted, cel, existing, citation,
		"The memorials '%s' and '%s' coincide on %s; both are reduced to optional memorials in %d.",
		existing.Name, cel.Name, day(cel.Date), c.Year)
	return nil
}

// displace suppresses an exclusive celebration in favour of winner.
func (c *Context) displace(loser, winner *liturgy.Celebration, citation string) error {
	if err := c.Store.Suppress(loser.Key, supersession(winner, "", citation)); err != nil {
		return err
	}
	c.advise(liturgy.SeverityCoincidence, liturgy.KindSuppressed, loser, winner, citation,
		"%s takes the place of %s on %s in %d.", capitalize(describe(winner)), describe(loser), day(loser.Date), c.Year)
	return nil
}

// clearFor suppresses the options on date that a celebration of rank does
// not share its date with. Memorials displace optional memorials and
// commemorations; feasts and above also displace the weekday.
func (c *Context) clearFor(date time.Time, rank liturgy.Rank, winner *liturgy.Celebration) error {
	if !rank.Exclusive() {
		return nil
	}
	for _, other := range c.Store.Query(date) {
		if other.Key == winner.Key || other.Rank.Exclusive() {
			continue
		}
		if other.Rank == liturgy.RankWeekday {
			if rank < liturgy.RankFeast {
				continue
			}
			if err := c.Store.Suppress(other.Key, supersession(winner, "", "")); err != nil {
				return err
			}
			continue
		}
		if err := c.Store.Suppress(other.Key, supersession(winner, "", "")); err != nil {
			return err
		}
		c.advise(liturgy.SeverityCoincidence, liturgy.KindSuppressed, other, winner, "",
			"%s is not celebrated on %s in %d because %s holds the date.",
			capitalize(describe(other)), day(date), c.Year, describe(winner))
	}
	return nil
}

// loseTo records cel as suppressed by the celebration holding its date.
func (c *Context) loseTo(cel, top *liturgy.Celebration, citation string) error {
	return c.lose(cel, top, liturgy.SeverityCoincidence, citation,
		"%s falls on %s, which is held by %s; it is not celebrated in %d.",
		capitalize(describe(cel)), day(cel.Date), describe(top), c.Year)
}

func (c *Context) lose(cel, by *liturgy.Celebration, sev liturgy.Severity, citation, format string, args ...any) error {
	if err := c.Store.RecordSuppressed(cel, supersession(by, "", citation)); err != nil {
		return err
	}
	kind := liturgy.KindSuppressed
	if sev == liturgy.SeverityAdjudication {
		kind = liturgy.KindUnresolved
	}
	c.advise(sev, kind, cel, by, citation, format, args...)
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
