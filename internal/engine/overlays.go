package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
	"github.com/zapponejosh/liturgical-calendar/internal/store"
)

// applyOverlays applies the wider-region, national and diocesan layers in
// that order, so the narrowest layer has the last word.
func (c *Context) applyOverlays() error {
	for _, o := range c.scope.layers() {
		if o.Layer == refdata.LayerNational {
			for _, id := range o.Missals {
				m := c.catalog.Missals[id]
				if m == nil || m.Year > c.Year {
					continue
				}
				if err := c.importMissal(o, m); err != nil {
					return fmt.Errorf("%s missal %s: %w", o.ID, id, err)
				}
			}
		}
		for _, item := range o.Items {
			if !item.Applies(c.Year) {
				continue
			}
			if err := c.applyItem(o, item); err != nil {
				return fmt.Errorf("%s %s: %w", o.Layer, o.ID, err)
			}
		}
	}
	return nil
}

func (c *Context) exists(key string) bool {
	return c.Store.Has(key) || c.Store.IsSuppressed(key)
}

// resolve maps the key an overlay item names to the celebration it acts on:
// one created by this layer or a wider one, narrowest first, and otherwise
// the key itself.
func (c *Context) resolve(o *refdata.Overlay, key string) string {
	layers := c.scope.layers()
	for i := slices.Index(layers, o); i >= 0; i-- {
		if k := layers[i].KeyPrefix() + key; c.exists(k) {
			return k
		}
	}
	return key
}

func (c *Context) overlayName(o *refdata.Overlay, key string) (string, bool) {
	return o.Names.Lookup(c.locale, key)
}

// importMissal adds a national missal's sanctorale. Entries naming a
// celebration that already exists change its grade instead.
func (c *Context) importMissal(o *refdata.Overlay, m *refdata.Missal) error {
	for _, e := range m.Entries {
		name, named := m.Names.Lookup(c.locale, e.Key)
		if key := c.resolve(o, e.Key); c.exists(key) {
			if !named {
				name = ""
			}
			if err := c.setGrade(key, e.Rank, name, m.ID); err != nil {
				return err
			}
			continue
		}

		date := c.date(e.Month, e.Day)
		if date.Day() != e.Day {
			continue
		}
		if !named {
			name = e.Key
		}
		cel := fromEntry(e.Entry, name, date, liturgy.MissalSource(m.ID))
		cel.Key = o.KeyPrefix() + e.Key
		if _, err := c.place(cel, placeOpts{citation: m.ID, shareMemorial: true}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) applyItem(o *refdata.Overlay, item refdata.OverlayItem) error {
	switch a := item.Action.(type) {
	case refdata.Creation:
		return c.createFromOverlay(o, item, a)
	case refdata.MakePatron:
		return c.makePatron(o, item, a)
	case refdata.SetGrade:
		name, _ := c.overlayName(o, item.Key)
		return c.setGrade(c.resolve(o, item.Key), a.Rank, name, item.Citation)
	case refdata.SetName:
		name, ok := c.overlayName(o, item.Key)
		if !ok {
			c.skipMissing(item.Key, "the change of name without a name", item.Citation)
			return nil
		}
		return c.rename(c.resolve(o, item.Key), name, item.Citation)
	case refdata.MoveEvent:
		return c.moveEvent(o, item, a)
	}
	return fmt.Errorf("unsupported overlay action %s", item.Action.Kind())
}

func (c *Context) createFromOverlay(o *refdata.Overlay, item refdata.OverlayItem, create refdata.Creation) error {
	date, err := create.DateRule().Resolve(c.Year)
	if err != nil {
		return fmt.Errorf("%s: %w", item.Key, err)
	}
	name, named := c.overlayName(o, item.Key)
	if !named {
		name = item.Key
	}
	p := create.Details()
	cel := &liturgy.Celebration{
		Key:         o.KeyPrefix() + item.Key,
		Name:        name,
		Date:        date,
		Colors:      p.Colors,
		Rank:        p.Rank,
		DisplayRank: p.DisplayRank,
		Common:      p.Common,
		Source:      liturgy.RegionSource(string(o.Layer), o.ID),
		Mobile:      create.Kind() == refdata.ActionCreateMobile,
	}

	switch target := c.resolve(o, item.Key); {
	case target == cel.Key || (target == item.Key && c.exists(target)):
		c.advise(liturgy.SeverityInfo, liturgy.KindSkipped, cel, nil, item.Citation,
			"'%s' already exists in %d and is not created again.", name, c.Year)
		return nil
	case target != item.Key:
		if !named {
			cel.Name = ""
		}
		return c.redefine(o, target, cel, item.Citation)
	}

	placed, err := c.place(cel, placeOpts{
		citation:      item.Citation,
		prevails:      p.PrevailsOverMemorials,
		shareMemorial: true,
	})
	if err != nil || !placed {
		return err
	}
	c.advise(liturgy.SeverityInfo, liturgy.KindCreated, cel, nil, item.Citation,
		"%s is added on %s by %s.", capitalize(describe(cel)), day(cel.Date), o.ID)
	return nil
}

// makePatron raises a celebration to a patronal rank. A suppressed
// celebration returns to its date unless it lost it to a Sunday, a
// solemnity or a feast of the Lord.
func (c *Context) makePatron(o *refdata.Overlay, item refdata.OverlayItem, a refdata.MakePatron) error {
	name, _ := c.overlayName(o, item.Key)
	key := c.resolve(o, item.Key)
	if c.Store.Has(key) {
		return c.setGrade(key, a.Rank, name, item.Citation)
	}

	entry, ok := c.Store.Suppressed(key)
	if !ok {
		c.skipMissing(item.Key, "the patronage", item.Citation)
		return nil
	}
	if err := c.setGrade(key, a.Rank, name, item.Citation); err != nil {
		return err
	}
	snapshot := entry.Celebration
	snapshot.Rank = a.Rank
	if name != "" {
		snapshot.Name = name
	}

	if entry.By.Rank > liturgy.RankFeast {
		c.advise(liturgy.SeverityCoincidence, liturgy.KindSuppressed, &snapshot, nil, item.Citation,
			"'%s' is a patron of %s but its date %s is held by the %s '%s'; it is not celebrated in %d.",
			snapshot.Name, o.Name, day(snapshot.Date), entry.By.Rank, entry.By.Name, c.Year)
		return nil
	}
	return c.reinstate(&snapshot, item.Citation, "'%s' is reinstated on %s as a patron of %s.",
		snapshot.Name, day(snapshot.Date), o.Name)
}

// reinstate returns a suppressed celebration to the active set on
// cel.Date, displacing what it outranks there.
func (c *Context) reinstate(cel *liturgy.Celebration, citation, format string, args ...any) error {
	if top := c.holder(cel.Date, liturgy.RankMemorial, cel.Key); top != nil {
		if top.Rank >= cel.Rank {
			c.advise(liturgy.SeverityCoincidence, liturgy.KindSuppressed, cel, top, citation,
				"'%s' cannot return to %s, which is held by %s.", cel.Name, day(cel.Date), describe(top))
			return nil
		}
		if err := c.displace(top, cel, citation); err != nil {
			return err
		}
	}
	if err := c.clearFor(cel.Date, cel.Rank, cel); err != nil {
		return err
	}
	placed, err := c.Store.Reinstate(cel.Key, cel.Date)
	if err != nil {
		return err
	}
	c.advise(liturgy.SeverityInfo, liturgy.KindReinstated, placed, nil, citation, format, args...)
	return nil
}

// redefine gives a celebration created by a wider layer the name, date,
// rank and attributes a narrower layer creates it with. An empty name keeps
// the current one.
func (c *Context) redefine(o *refdata.Overlay, key string, want *liturgy.Celebration, citation string) error {
	if want.Name != "" {
		if err := c.rename(key, want.Name, citation); err != nil {
			return err
		}
	}

	current, ok := c.Store.Get(key)
	if !ok {
		entry, _ := c.Store.Suppressed(key)
		current = &entry.Celebration
	}
	if !current.Date.Equal(want.Date) {
		if err := c.relocate(key, want.Date, "redefined by "+o.Name, citation); err != nil {
			return err
		}
	}
	if err := c.setGrade(key, want.Rank, "", citation); err != nil {
		return err
	}

	attrs := func(u *liturgy.Celebration) {
		u.Colors = append([]liturgy.Color(nil), want.Colors...)
		u.Common = append([]string(nil), want.Common...)
		u.DisplayRank = nil
		if want.DisplayRank != nil {
			r := *want.DisplayRank
			u.DisplayRank = &r
		}
		u.Source = want.Source
		u.Mobile = want.Mobile
	}
	if c.Store.Has(key) {
		return c.Store.Update(key, attrs)
	}
	return c.Store.UpdateSuppressed(key, attrs)
}

// moveEvent relocates a celebration to a fixed day of the year.
func (c *Context) moveEvent(o *refdata.Overlay, item refdata.OverlayItem, a refdata.MoveEvent) error {
	key := c.resolve(o, item.Key)
	dest := c.date(a.Month, a.Day)
	if dest.Day() != a.Day {
		c.advise(liturgy.SeverityInfo, liturgy.KindSkipped, &liturgy.Celebration{Key: key, Name: key}, nil, item.Citation,
			"%s %d does not occur in %d; the move of '%s' is skipped.", a.Month, a.Day, c.Year, key)
		return nil
	}
	if !c.exists(key) {
		c.skipMissing(item.Key, "the move", item.Citation)
		return nil
	}
	return c.relocate(key, dest, a.Reason, item.Citation)
}

// relocate moves key, active or suppressed, to dest. When dest is held by
// an obligatory celebration the moved one is suppressed there; on a
// privileged weekday a memorial arrives as a commemoration.
func (c *Context) relocate(key string, dest time.Time, reason, citation string) error {
	cel, active := c.Store.Get(key)
	if !active {
		entry, ok := c.Store.Suppressed(key)
		if !ok {
			return fmt.Errorf("relocate %s: %w", key, store.ErrNotFound)
		}
		cel = &entry.Celebration
	}
	from := cel.Date
	because := ""
	if reason != "" {
		because = ": " + reason
	}

	if top := c.holder(dest, liturgy.RankMemorial, cel.Key); top != nil {
		if active {
			if err := c.Store.Suppress(cel.Key, supersession(top, reason, citation)); err != nil {
				return err
			}
		}
		moved := cel.Clone()
		moved.Date = dest
		if err := c.Store.RecordSuppressed(moved, supersession(top, reason, citation)); err != nil {
			return err
		}
		c.advise(liturgy.SeverityCoincidence, liturgy.KindSuppressed, moved, top, citation,
			"'%s' is moved from %s to %s, which is held by %s; it is not celebrated in %d%s.",
			cel.Name, day(from), day(dest), describe(top), c.Year, because)
		return nil
	}

	rank, display := cel.Rank, cel.DisplayRank
	if rank >= liturgy.RankOptionalMemorial && rank <= liturgy.RankMemorial && c.privileged(dest) {
		rank, display = liturgy.RankCommemoration, nil
		reduced := cel.Clone()
		reduced.Date, reduced.Rank, reduced.DisplayRank = dest, rank, nil
		c.advise(liturgy.SeverityCoincidence, liturgy.KindDemoted, reduced, nil, citation,
			"'%s' is moved to the privileged weekday %s and is reduced to a commemoration.", cel.Name, day(dest))
	}
	if err := c.clearFor(dest, rank, cel); err != nil {
		return err
	}

	if active {
		err := c.Store.Update(cel.Key, func(u *liturgy.Celebration) {
			u.Date, u.Rank, u.DisplayRank = dest, rank, display
		})
		if err != nil {
			return err
		}
		moved, _ := c.Store.Get(cel.Key)
		c.advise(liturgy.SeverityInfo, liturgy.KindMoved, moved, nil, citation,
			"'%s' is moved from %s to %s%s.", cel.Name, day(from), day(dest), because)
		return nil
	}

	if err := c.Store.UpdateSuppressed(cel.Key, func(u *liturgy.Celebration) {
		u.Rank, u.DisplayRank = rank, display
	}); err != nil {
		return err
	}
	placed, err := c.Store.Reinstate(cel.Key, dest)
	if err != nil {
		return err
	}
	c.advise(liturgy.SeverityInfo, liturgy.KindReinstated, placed, nil, citation,
		"'%s' lost %s and is reinstated on %s%s.", cel.Name, day(from), day(dest), because)
	return nil
}
