package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
	"github.com/zapponejosh/liturgical-calendar/internal/store"
)

func (c *Context) decreeName(d refdata.DecreeAmendment) string {
	names := c.catalog.Decrees.Names
	if name, ok := names.Lookup(c.locale, d.ID); ok {
		return name
	}
	if name, ok := names.Lookup(c.locale, d.Key); ok {
		return name
	}
	return d.Key
}

// applyDecreeCreations places the celebrations created by the decrees in
// force whose rank satisfies match, in log order.
func (c *Context) applyDecreeCreations(match func(liturgy.Rank) bool) error {
	for _, d := range c.catalog.Decrees.Decrees {
		create, ok := d.Action.(refdata.Creation)
		if !ok || !d.Applies(c.Year) || !match(create.Details().Rank) {
			continue
		}
		if err := c.createFromDecree(d, create); err != nil {
			return fmt.Errorf("decree %s: %w", d.ID, err)
		}
	}
	return nil
}

func (c *Context) createFromDecree(d refdata.DecreeAmendment, create refdata.Creation) error {
	date, err := create.DateRule().Resolve(c.Year)
	if err != nil {
		return err
	}
	p := create.Details()
	cel := &liturgy.Celebration{
		Key:         d.Key,
		Name:        c.decreeName(d),
		Date:        date,
		Colors:      p.Colors,
		Rank:        p.Rank,
		DisplayRank: p.DisplayRank,
		Common:      p.Common,
		Source:      liturgy.DecreeSource(d.ID),
		Mobile:      create.Kind() == refdata.ActionCreateMobile,
	}
	if c.Store.Has(cel.Key) || c.Store.IsSuppressed(cel.Key) {
		c.advise(liturgy.SeverityInfo, liturgy.KindSkipped, cel, nil, d.Citation,
			"'%s' already exists in %d; decree %s does not create it again.", cel.Name, c.Year, d.ID)
		return nil
	}

	placed, err := c.place(cel, placeOpts{citation: d.Citation, prevails: p.PrevailsOverMemorials})
	if err != nil || !placed {
		return err
	}
	c.advise(liturgy.SeverityInfo, liturgy.KindCreated, cel, nil, d.Citation,
		"%s is added on %s by decree.", capitalize(describe(cel)), day(cel.Date))
	return nil
}

// applyDecreeMutations applies the grade, name and title changes of the
// decrees in force, in log order.
func (c *Context) applyDecreeMutations() error {
	for _, d := range c.catalog.Decrees.Decrees {
		if !d.Applies(c.Year) {
			continue
		}
		var err error
		switch a := d.Action.(type) {
		case refdata.SetGrade:
			err = c.setGrade(d.Key, a.Rank, "", d.Citation)
		case refdata.SetName:
			err = c.rename(d.Key, c.decreeName(d), d.Citation)
		case refdata.DeclareDoctor:
			err = c.declareDoctor(d)
		}
		if err != nil {
			return fmt.Errorf("decree %s: %w", d.ID, err)
		}
	}
	return nil
}

func (c *Context) declareDoctor(d refdata.DecreeAmendment) error {
	suffix := c.labels.DoctorSuffix()
	addTitle := func(cel *liturgy.Celebration) {
		if !strings.HasSuffix(cel.Name, suffix) {
			cel.Name += suffix
		}
	}

	if cel, ok := c.Store.Get(d.Key); ok {
		if strings.HasSuffix(cel.Name, suffix) {
			return nil
		}
		if err := c.Store.Update(d.Key, addTitle); err != nil {
			return err
		}
		c.advise(liturgy.SeverityInfo, liturgy.KindRenamed, cel, nil, d.Citation,
			"'%s' is declared a Doctor of the Church.", cel.Name)
		return nil
	}
	if c.Store.IsSuppressed(d.Key) {
		return c.Store.UpdateSuppressed(d.Key, addTitle)
	}
	return fmt.Errorf("%w: %s", ErrDecreeTargetMissing, d.Key)
}

// ============================================================================
// Mutations shared by decrees and overlays
// ============================================================================

// skipMissing records that an action had no celebration to act on.
func (c *Context) skipMissing(key, action, citation string) {
	c.advise(liturgy.SeverityInfo, liturgy.KindSkipped, &liturgy.Celebration{Key: key, Name: key}, nil, citation,
		"'%s' does not exist in %d; %s is skipped.", key, c.Year, action)
}

// setGrade changes the rank of key and clears its display rank. A name
// replaces the current one when given. Suppressed celebrations only have
// their snapshot updated.
func (c *Context) setGrade(key string, rank liturgy.Rank, name, citation string) error {
	cel, ok := c.Store.Get(key)
	if !ok {
		if !c.Store.IsSuppressed(key) {
			c.skipMissing(key, "the change of grade", citation)
			return nil
		}
		return c.Store.UpdateSuppressed(key, func(s *liturgy.Celebration) {
			s.Rank = rank
			s.DisplayRank = nil
			if name != "" {
				s.Name = name
			}
		})
	}
	if cel.Rank == rank && (name == "" || name == cel.Name) && cel.DisplayRank == nil {
		return nil
	}

	if rank > cel.Rank {
		raised := cel.Clone()
		raised.Rank = rank
		if top := c.holder(cel.Date, liturgy.RankMemorial, key); top != nil {
			if top.Rank >= rank {
				if err := c.Store.Suppress(key, supersession(top, "", citation)); err != nil {
					return err
				}
				c.advise(liturgy.SeverityCoincidence, liturgy.KindSuppressed, raised, top, citation,
					"'%s' is raised to %s but %s holds %s; it is not celebrated in %d.",
					cel.Name, rank, describe(top), day(cel.Date), c.Year)
				return nil
			}
			if err := c.displace(top, raised, citation); err != nil {
				return err
			}
		}
		if err := c.clearFor(cel.Date, rank, raised); err != nil {
			return err
		}
	}

	err := c.Store.Update(key, func(u *liturgy.Celebration) {
		u.Rank = rank
		u.DisplayRank = nil
		if name != "" {
			u.Name = name
		}
	})
	if err != nil {
		return err
	}

	kind, verb := liturgy.KindPromoted, "raised"
	if rank < cel.Rank {
		kind, verb = liturgy.KindDemoted, "lowered"
	}
	updated, _ := c.Store.Get(key)
	if rank == cel.Rank {
		if updated.Name != cel.Name {
			c.advise(liturgy.SeverityInfo, liturgy.KindRenamed, updated, nil, citation,
				"'%s' is renamed '%s'.", cel.Name, updated.Name)
		}
		return nil
	}
	c.advise(liturgy.SeverityInfo, kind, updated, nil, citation,
		"'%s' is %s from %s to %s.", updated.Name, verb, cel.Rank, rank)
	return nil
}

// rename replaces the name of key, active or suppressed.
func (c *Context) rename(key, name, citation string) error {
	cel, ok := c.Store.Get(key)
	if !ok {
		err := c.Store.UpdateSuppressed(key, func(s *liturgy.Celebration) { s.Name = name })
		if errors.Is(err, store.ErrNotFound) {
			c.skipMissing(key, "the change of name", citation)
			return nil
		}
		return err
	}
	if cel.Name == name {
		return nil
	}
	if err := c.Store.SetName(key, name); err != nil {
		return err
	}
	old := cel.Name
	cel.Name = name
	c.advise(liturgy.SeverityInfo, liturgy.KindRenamed, cel, nil, citation, "'%s' is renamed '%s'.", old, name)
	return nil
}
