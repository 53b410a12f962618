package engine

import (
	"fmt"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
)

// Keys the builder treats specially.
const (
	keyStJoseph        = "StJoseph"
	keyImmaculateHeart = "ImmaculateHeart"
	keySatMemBVM       = "SatMemBVM"
	keyEternalPriest   = "JesusChristEternalHighPriest"
)

// Year thresholds of celebrations introduced after 1970.
const (
	divineMercySince       = 2000
	immaculateHeartSince   = 1996
	eternalHighPriestSince = 2012
)

type step struct {
	name string
	run  func() error
}

// build lays down the General Roman Calendar for the pass year. The order
// of the steps is the order of precedence: whatever a step places is
// already there when a lower-ranked step looks at its date.
func (c *Context) build() error {
	c.sanctorale = c.mergeSanctorale()

	steps := []step{
		{"triduum and octave", c.placeTriduum},
		{"christmas and epiphany", c.placeChristmas},
		{"ascension and pentecost", c.placeAscensionPentecost},
		{"seasonal sundays", c.placeSeasonalSundays},
		{"solemnities", c.placeSolemnities},
		{"feasts of the lord", c.placeFeastsOfTheLord},
		{"ordinary time sundays", c.placeOrdinarySundays},
		{"feasts", c.placeFeasts},
		{"privileged weekdays", c.placePrivilegedWeekdays},
		{"memorials", c.placeMemorials},
		{"decreed memorials", c.placeDecreedMemorials},
		{"optional memorials", c.placeOptionalMemorials},
		{"weekdays", c.placeWeekdays},
		{"saturday memorials", c.placeSaturdayMemorials},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// ============================================================================
// Sanctorale
// ============================================================================

type sanctoraleItem struct {
	entry  refdata.SanctoraleEntry
	missal *refdata.Missal
}

// mergeSanctorale merges the universal editions in force, oldest first. An
// edition that repeats a key redefines the celebration in place.
func (c *Context) mergeSanctorale() []sanctoraleItem {
	var items []sanctoraleItem
	pos := make(map[string]int)
	for _, m := range c.catalog.UniversalMissals(c.Year) {
		for _, e := range m.Entries {
			item := sanctoraleItem{entry: e, missal: m}
			if i, ok := pos[e.Key]; ok {
				items[i] = item
				continue
			}
			pos[e.Key] = len(items)
			items = append(items, item)
		}
	}
	return items
}

func (c *Context) sanctoraleName(item sanctoraleItem) string {
	if name, ok := item.missal.Names.Lookup(c.locale, item.entry.Key); ok {
		return name
	}
	for _, m := range c.catalog.UniversalMissals(c.Year) {
		if name, ok := m.Names.Lookup(c.locale, item.entry.Key); ok {
			return name
		}
	}
	return item.entry.Key
}

// sanctoraleOfRank returns the celebrations of the merged sanctorale with
// the given rank. Dates that do not exist in the pass year are dropped.
func (c *Context) sanctoraleOfRank(rank liturgy.Rank) []*liturgy.Celebration {
	var out []*liturgy.Celebration
	for _, item := range c.sanctorale {
		e := item.entry
		if e.Rank != rank {
			continue
		}
		date := c.date(e.Month, e.Day)
		if date.Day() != e.Day {
			continue
		}
		out = append(out, fromEntry(e.Entry, c.sanctoraleName(item), date, liturgy.MissalSource(item.missal.ID)))
	}
	return out
}

// ============================================================================
// Steps 1-4: Proprium de Tempore
// ============================================================================

func (c *Context) addProper(key string, date time.Time) error {
	_, err := c.place(c.properCelebration(key, date), placeOpts{})
	return err
}

func (c *Context) placeTriduum() error {
	offsets := []struct {
		key  string
		days int
	}{
		{"HolyThurs", -3}, {"GoodFri", -2}, {"EasterVigil", -1}, {"Easter", 0},
		{"AshWednesday", -46},
		{"MonHolyWeek", -6}, {"TueHolyWeek", -5}, {"WedHolyWeek", -4},
		{"MonOctaveEaster", 1}, {"TueOctaveEaster", 2}, {"WedOctaveEaster", 3},
		{"ThuOctaveEaster", 4}, {"FriOctaveEaster", 5}, {"SatOctaveEaster", 6},
	}
	for _, o := range offsets {
		if err := c.addProper(o.key, calendar.AddDays(c.at.easter, o.days)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) placeChristmas() error {
	christmas := c.properCelebration("Christmas", c.date(time.December, 25))
	christmas.Mobile = false
	if _, err := c.place(christmas, placeOpts{}); err != nil {
		return err
	}

	c.at.epiphany = c.date(time.January, 6)
	if c.settings.Epiphany == liturgy.EpiphanySunday {
		c.at.epiphany = *calendar.FindSundayBetween(c.Year, time.January, 2, time.January, 8)
	}
	epiphany := c.properCelebration("Epiphany", c.at.epiphany)
	epiphany.Mobile = c.settings.Epiphany == liturgy.EpiphanySunday
	if _, err := c.place(epiphany, placeOpts{}); err != nil {
		return err
	}

	if c.settings.Epiphany == liturgy.EpiphanyJan6 {
		if sunday := calendar.FindSundayBetween(c.Year, time.January, 2, time.January, 5); sunday != nil {
			return c.addProper("Christmas2", *sunday)
		}
	}
	return nil
}

func (c *Context) placeAscensionPentecost() error {
	ascension := calendar.AddDays(c.at.easter, 39)
	if c.settings.Ascension == liturgy.AscensionSunday {
		ascension = calendar.AddDays(c.at.easter, 42)
	}
	if err := c.addProper("Ascension", ascension); err != nil {
		return err
	}
	return c.addProper("Pentecost", c.at.pentecost)
}

func (c *Context) placeSeasonalSundays() error {
	for i := 0; i < 4; i++ {
		if err := c.addProper(fmt.Sprintf("Advent%d", i+1), calendar.AddDays(c.at.advent1, 7*i)); err != nil {
			return err
		}
	}
	for i := 0; i < 5; i++ {
		if err := c.addProper(fmt.Sprintf("Lent%d", i+1), calendar.AddDays(c.at.lent1, 7*i)); err != nil {
			return err
		}
	}
	if err := c.addProper("PalmSun", c.at.palmSunday); err != nil {
		return err
	}

	for n := 2; n <= 7; n++ {
		if n == 7 && c.settings.Ascension == liturgy.AscensionSunday {
			continue
		}
		key := fmt.Sprintf("Easter%d", n)
		cel := c.properCelebration(key, calendar.AddDays(c.at.easter, 7*(n-1)))
		if n == 2 && c.Year >= divineMercySince {
			cel.Name = c.properName("Easter2DivineMercy")
		}
		if _, err := c.place(cel, placeOpts{}); err != nil {
			return err
		}
	}

	corpus := calendar.AddDays(c.at.easter, 60)
	if c.settings.CorpusChristi == liturgy.CorpusChristiSunday {
		corpus = calendar.AddDays(c.at.easter, 63)
	}
	for _, p := range []struct {
		key  string
		date time.Time
	}{
		{"Trinity", calendar.AddDays(c.at.easter, 56)},
		{"CorpusChristi", corpus},
		{"SacredHeart", calendar.AddDays(c.at.easter, 68)},
		{"ChristKing", c.at.christKing},
	} {
		if err := c.addProper(p.key, p.date); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// Step 5: fixed solemnities
// ============================================================================

func (c *Context) placeSolemnities() error {
	for _, cel := range c.sanctoraleOfRank(liturgy.RankSolemnity) {
		if err := c.placeSolemnity(cel); err != nil {
			return err
		}
	}
	return nil
}

// placeSolemnity places a fixed solemnity, transferring it when a Sunday
// of a privileged season, Holy Week or the Easter octave impedes it.
func (c *Context) placeSolemnity(cel *liturgy.Celebration) error {
	top := c.holder(cel.Date, liturgy.RankSolemnity, cel.Key)
	if top == nil {
		_, err := c.place(cel, placeOpts{})
		return err
	}

	target, ok := c.transferDate(cel, top)
	if !ok || c.holder(target, liturgy.RankSolemnity, cel.Key) != nil {
		return c.lose(cel, top, liturgy.SeverityAdjudication, "",
			"%s coincides with %s on %s in %d. No transfer rule applies; it is left suppressed pending a decision.",
			capitalize(describe(cel)), describe(top), day(cel.Date), c.Year)
	}

	if err := c.Store.RecordSuppressed(cel, supersession(top, "transferred", "")); err != nil {
		return err
	}
	if other := c.holder(target, liturgy.RankMemorial, cel.Key); other != nil {
		if err := c.displace(other, cel, ""); err != nil {
			return err
		}
	}
	if err := c.clearFor(target, cel.Rank, cel); err != nil {
		return err
	}
	placed, err := c.Store.Reinstate(cel.Key, target)
	if err != nil {
		return err
	}
	c.advise(liturgy.SeverityCoincidence, liturgy.KindTransferred, placed, top, "",
		"%s is impeded by %s on %s and is transferred to %s.",
		capitalize(describe(placed)), describe(top), day(cel.Date), day(target))
	return nil
}

func (c *Context) transferDate(cel, top *liturgy.Celebration) (time.Time, bool) {
	easter2 := calendar.AddDays(c.at.easter, 7)
	if calendar.InRange(cel.Date, c.at.palmSunday, easter2) {
		if cel.Key == keyStJoseph {
			return calendar.AddDays(c.at.palmSunday, -1), true
		}
		return calendar.AddDays(easter2, 1), true
	}
	if top.IsSunday() && top.Rank == liturgy.RankHigherSolemnity && top.Source == liturgy.SourceProprium {
		return calendar.AddDays(cel.Date, 1), true
	}
	return time.Time{}, false
}

// ============================================================================
// Steps 6-8: feasts
// ============================================================================

func (c *Context) placeFeastsOfTheLord() error {
	switch {
	case c.settings.Epiphany == liturgy.EpiphanyJan6:
		c.at.baptism = calendar.Next(c.at.epiphany, time.Sunday)
	case c.at.epiphany.Day() >= 7:
		c.at.baptism = calendar.AddDays(c.at.epiphany, 1)
	default:
		c.at.baptism = calendar.AddDays(c.at.epiphany, 7)
	}
	if err := c.addProper("BaptismLord", c.at.baptism); err != nil {
		return err
	}

	holyFamily := c.date(time.December, 30)
	if sunday := calendar.FindSundayBetween(c.Year, time.December, 26, time.December, 31); sunday != nil {
		holyFamily = *sunday
	}
	if err := c.addProper("HolyFamily", holyFamily); err != nil {
		return err
	}

	for _, cel := range c.sanctoraleOfRank(liturgy.RankFeastOfTheLord) {
		if _, err := c.place(cel, placeOpts{}); err != nil {
			return err
		}
	}

	if c.settings.EternalHighPriest && c.Year >= eternalHighPriestSince {
		return c.addProper(keyEternalPriest, calendar.AddDays(c.at.pentecost, 4))
	}
	return nil
}

// placeOrdinarySundays numbers the Sundays of Ordinary Time forwards from
// the Baptism of the Lord and backwards from Christ the King. A Sunday whose
// date is already held is skipped without renumbering the others.
func (c *Context) placeOrdinarySundays() error {
	week := 2
	for d := calendar.Next(c.at.baptism, time.Sunday); d.Before(c.at.ashWed); d = calendar.AddDays(d, 7) {
		if err := c.addOrdinarySunday(week, d); err != nil {
			return err
		}
		week++
	}

	week = 33
	for d := calendar.AddDays(c.at.christKing, -7); d.After(c.at.pentecost); d = calendar.AddDays(d, -7) {
		if err := c.addOrdinarySunday(week, d); err != nil {
			return err
		}
		week--
	}
	return nil
}

func (c *Context) addOrdinarySunday(week int, date time.Time) error {
	cel := &liturgy.Celebration{
		Key:         fmt.Sprintf("OrdSunday%d", week),
		Name:        c.template("OrdSunday", c.labels.Ordinal(week)),
		Date:        date,
		Colors:      []liturgy.Color{liturgy.ColorGreen},
		Rank:        liturgy.RankFeastOfTheLord,
		Source:      liturgy.SourceProprium,
		Mobile:      true,
		PsalterWeek: calendar.PsalterWeek(week),
	}
	if top := c.holder(date, liturgy.RankFeastOfTheLord, cel.Key); top != nil {
		sev := liturgy.SeverityCoincidence
		if top.Source == liturgy.SourceProprium {
			sev = liturgy.SeverityInfo
		}
		c.advise(sev, liturgy.KindSkipped, cel, top, "",
			"%s takes the place of the %s on %s in %d.", capitalize(describe(top)), cel.Name, day(date), c.Year)
		return nil
	}
	_, err := c.place(cel, placeOpts{})
	return err
}

func (c *Context) placeFeasts() error {
	for _, cel := range c.sanctoraleOfRank(liturgy.RankFeast) {
		if _, err := c.place(cel, placeOpts{}); err != nil {
			return err
		}
	}
	return c.applyDecreeCreations(func(r liturgy.Rank) bool { return r >= liturgy.RankFeast })
}

// ============================================================================
// Step 9: weekdays of Advent, the Christmas octave and Lent
// ============================================================================

func (c *Context) addWeekday(key, name string, date time.Time, color liturgy.Color, blockedFrom liturgy.Rank) error {
	if c.holder(date, blockedFrom, "") != nil || c.Store.Has(key) || c.Store.IsSuppressed(key) {
		return nil
	}
	return c.Store.Add(&liturgy.Celebration{
		Key:    key,
		Name:   name,
		Date:   date,
		Colors: []liturgy.Color{color},
		Rank:   liturgy.RankWeekday,
		Source: liturgy.SourceProprium,
		Mobile: true,
	})
}

func (c *Context) placePrivilegedWeekdays() error {
	christmasEve := c.date(time.December, 24)
	for d := calendar.AddDays(c.at.advent1, 1); !d.After(christmasEve); d = calendar.AddDays(d, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		var key, name string
		if d.Day() >= 17 && d.Month() == time.December {
			key = fmt.Sprintf("AdventWeekdayDec%d", d.Day())
			name = c.template("AdventPrivileged", c.labels.MonthDay(d.Month(), d.Day()))
		} else {
			week := calendar.WeekOfSeason(d, c.at.advent1)
			key = fmt.Sprintf("AdventWeekday%d%s", week, d.Weekday())
			name = c.template("AdventWeekday", c.weekdayName(d), c.labels.Ordinal(week))
		}
		if err := c.addWeekday(key, name, d, liturgy.ColorPurple, liturgy.RankFeast); err != nil {
			return err
		}
	}

	for dayOfOctave := 5; dayOfOctave <= 7; dayOfOctave++ {
		d := c.date(time.December, 24+dayOfOctave)
		if d.Weekday() == time.Sunday {
			continue
		}
		key := fmt.Sprintf("ChristmasOctaveDay%d", dayOfOctave)
		name := c.template("ChristmasOctave", c.labels.Ordinal(dayOfOctave))
		if err := c.addWeekday(key, name, d, liturgy.ColorWhite, liturgy.RankFeast); err != nil {
			return err
		}
	}

	for d := calendar.AddDays(c.at.ashWed, 1); d.Before(c.at.palmSunday); d = calendar.AddDays(d, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		var key, name string
		if d.Before(c.at.lent1) {
			key = fmt.Sprintf("LentWeekdayAsh%s", d.Weekday())
			name = c.template("LentAfterAsh", c.weekdayName(d))
		} else {
			week := calendar.WeekOfSeason(d, c.at.lent1)
			key = fmt.Sprintf("LentWeekday%d%s", week, d.Weekday())
			name = c.template("LentWeekday", c.weekdayName(d), c.labels.Ordinal(week))
		}
		if err := c.addWeekday(key, name, d, liturgy.ColorPurple, liturgy.RankFeast); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// Steps 10-12: memorials
// ============================================================================

func (c *Context) placeMemorials() error {
	for _, cel := range c.sanctoraleOfRank(liturgy.RankMemorial) {
		if _, err := c.place(cel, placeOpts{}); err != nil {
			return err
		}
	}

	heart := c.properCelebration(keyImmaculateHeart, calendar.AddDays(c.at.easter, 69))
	if c.Year < immaculateHeartSince {
		heart.Rank = liturgy.RankOptionalMemorial
	}
	_, err := c.place(heart, placeOpts{shareMemorial: true})
	return err
}

func (c *Context) placeDecreedMemorials() error {
	return c.applyDecreeCreations(func(r liturgy.Rank) bool { return r == liturgy.RankMemorial })
}

func (c *Context) placeOptionalMemorials() error {
	for _, cel := range c.sanctoraleOfRank(liturgy.RankOptionalMemorial) {
		if _, err := c.place(cel, placeOpts{}); err != nil {
			return err
		}
	}
	if err := c.applyDecreeCreations(func(r liturgy.Rank) bool { return r < liturgy.RankMemorial }); err != nil {
		return err
	}
	return c.applyDecreeMutations()
}

// ============================================================================
// Steps 13-14: remaining weekdays
// ============================================================================

func (c *Context) placeWeekdays() error {
	for d := c.date(time.January, 2); d.Before(c.at.baptism); d = calendar.AddDays(d, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		tpl := "ChristmasAfterEpiphany"
		if d.Before(c.at.epiphany) {
			tpl = "ChristmasBeforeEpiphany"
		}
		key := fmt.Sprintf("ChristmasWeekdayJan%d", d.Day())
		if err := c.addWeekday(key, c.template(tpl, c.weekdayName(d)), d, liturgy.ColorWhite, liturgy.RankMemorial); err != nil {
			return err
		}
	}

	for d := calendar.AddDays(c.at.easter, 8); d.Before(c.at.pentecost); d = calendar.AddDays(d, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		week := calendar.WeekOfSeason(d, c.at.easter)
		key := fmt.Sprintf("EasterWeekday%d%s", week, d.Weekday())
		name := c.template("EasterWeekday", c.weekdayName(d), c.labels.Ordinal(week))
		if err := c.addWeekday(key, name, d, liturgy.ColorWhite, liturgy.RankMemorial); err != nil {
			return err
		}
	}

	return c.eachOrdinaryWeekday(func(d time.Time, week int) error {
		key := fmt.Sprintf("OrdWeekday%d%s", week, d.Weekday())
		name := c.template("OrdWeekday", c.weekdayName(d), c.labels.Ordinal(week))
		return c.addWeekday(key, name, d, liturgy.ColorGreen, liturgy.RankMemorial)
	})
}

// eachOrdinaryWeekday calls fn for every non-Sunday of Ordinary Time with
// its week number.
func (c *Context) eachOrdinaryWeekday(fn func(d time.Time, week int) error) error {
	spans := [][2]time.Time{
		{calendar.AddDays(c.at.baptism, 1), c.at.ashWed},
		{calendar.AddDays(c.at.pentecost, 1), c.at.advent1},
	}
	for _, span := range spans {
		for d := span[0]; d.Before(span[1]); d = calendar.AddDays(d, 1) {
			if d.Weekday() == time.Sunday {
				continue
			}
			if err := fn(d, c.ordinaryWeek(d)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Context) placeSaturdayMemorials() error {
	return c.eachOrdinaryWeekday(func(d time.Time, week int) error {
		if d.Weekday() != time.Saturday || c.holder(d, liturgy.RankMemorial, "") != nil {
			return nil
		}
		cel := c.properCelebration(keySatMemBVM, d)
		cel.Key = fmt.Sprintf("%s%d", keySatMemBVM, week)
		_, err := c.place(cel, placeOpts{})
		return err
	})
}
