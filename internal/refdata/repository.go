package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Catalog is the decoded, immutable set of reference documents.
type Catalog struct {
	Proper       *ProperDocument
	Missals      map[string]*Missal
	Decrees      *DecreeLog
	WiderRegions map[string]*Overlay
	Nations      map[string]*Overlay
	Dioceses     map[string]*Overlay
	Index        map[string]Diocese
}

// UniversalMissals returns the universal editions in force in year, oldest first.
func (c *Catalog) UniversalMissals(year int) []*Missal {
	var out []*Missal
	for _, m := range c.Missals {
		if m.Universal() && m.Year <= year {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// NationIDs returns the ids of every national overlay, sorted.
func (c *Catalog) NationIDs() []string {
	ids := make([]string, 0, len(c.Nations))
	for id := range c.Nations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DiocesesOf returns the index entries of a nation's dioceses, sorted by id.
func (c *Catalog) DiocesesOf(nation string) []Diocese {
	var out []Diocese
	for _, d := range c.Index {
		if d.Nation == nation {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Repository loads a Catalog from a Source on first use and serves the same
// Catalog afterwards. It is safe for concurrent use.
type Repository struct {
	src Source

	once    sync.Once
	catalog *Catalog
	err     error
}

// NewRepository creates a Repository over src.
func NewRepository(src Source) *Repository {
	return &Repository{src: src}
}

// Catalog returns the loaded catalog. A load failure is remembered and
// returned to every caller.
func (r *Repository) Catalog(ctx context.Context) (*Catalog, error) {
	r.once.Do(func() {
		r.catalog, r.err = Load(ctx, r.src)
	})
	return r.catalog, r.err
}

func decode(ctx context.Context, src Source, kind Kind, id string, v any) error {
	data, err := src.Document(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s/%s: %w", kind, id, err)
	}
	return nil
}

func loadOverlays(ctx context.Context, src Source, kind Kind, layer Layer) (map[string]*Overlay, error) {
	ids, err := src.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Overlay, len(ids))
	for _, id := range ids {
		o := &Overlay{}
		if err := decode(ctx, src, kind, id, o); err != nil {
			return nil, err
		}
		if o.ID == "" {
			o.ID = id
		}
		o.Layer = layer
		out[o.ID] = o
	}
	return out, nil
}

// Load decodes every document of src and checks the references between them.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	c := &Catalog{
		Proper:  &ProperDocument{},
		Missals: make(map[string]*Missal),
		Decrees: &DecreeLog{},
		Index:   make(map[string]Diocese),
	}

	if err := decode(ctx, src, KindProprium, UniversalID, c.Proper); err != nil {
		return nil, err
	}
	c.Proper.buildIndex()

	if err := decode(ctx, src, KindDecrees, UniversalID, c.Decrees); err != nil {
		return nil, err
	}

	missalIDs, err := src.List(ctx, KindMissal)
	if err != nil {
		return nil, err
	}
	for _, id := range missalIDs {
		m := &Missal{}
		if err := decode(ctx, src, KindMissal, id, m); err != nil {
			return nil, err
		}
		if m.ID == "" {
			m.ID = id
		}
		c.Missals[m.ID] = m
	}
	if len(c.UniversalMissals(1970)) == 0 {
		return nil, fmt.Errorf("%w: no universal missal in force in 1970", ErrMissingDocument)
	}

	if c.WiderRegions, err = loadOverlays(ctx, src, KindWiderRegion, LayerWiderRegion); err != nil {
		return nil, err
	}
	if c.Nations, err = loadOverlays(ctx, src, KindNational, LayerNational); err != nil {
		return nil, err
	}
	if c.Dioceses, err = loadOverlays(ctx, src, KindDiocesan, LayerDiocesan); err != nil {
		return nil, err
	}

	var index DioceseIndex
	if err := decode(ctx, src, KindDioceseIndex, UniversalID, &index); err != nil {
		return nil, err
	}
	for _, d := range index.Dioceses {
		c.Index[d.ID] = d
	}

	if err := c.checkReferences(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) checkReferences() error {
	for _, n := range c.Nations {
		if n.WiderRegion != "" {
			if _, ok := c.WiderRegions[n.WiderRegion]; !ok {
				return fmt.Errorf("%w: wider region %s referenced by %s", ErrMissingDocument, n.WiderRegion, n.ID)
			}
		}
		for _, id := range n.Missals {
			if _, ok := c.Missals[id]; !ok {
				return fmt.Errorf("%w: missal %s referenced by %s", ErrMissingDocument, id, n.ID)
			}
		}
	}
	for id, d := range c.Dioceses {
		entry, ok := c.Index[id]
		if !ok {
			return fmt.Errorf("%w: diocese %s is not in the diocese index", ErrMissingDocument, id)
		}
		if d.Nation == "" {
			d.Nation = entry.Nation
		}
	}
	return nil
}
