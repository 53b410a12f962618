// Package engine computes the liturgical calendar of the Roman Rite for a
// year and a scope: the universal calendar, optionally narrowed by a
// nation and a diocese.
//
// A computation runs one pass per civil year. Each pass builds the General
// Roman Calendar in order of precedence, applies the decrees in force,
// layers the regional overlays and annotates the result. Every coincidence
// is resolved by policy and explained by an advisory.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/i18n"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
	"github.com/zapponejosh/liturgical-calendar/internal/store"
)

// Result is a computed calendar.
type Result struct {
	Params       Params                 `json:"params"`
	Settings     Settings               `json:"settings"`
	Locale       string                 `json:"locale"`
	Celebrations []*liturgy.Celebration `json:"celebrations"`
	Suppressed   []store.Suppressed     `json:"suppressed"`
	Reinstated   []store.Reinstatement  `json:"reinstated"`
	Advisories   []liturgy.Advisory     `json:"advisories"`
}

// On returns the celebrations on date, highest rank first.
func (r *Result) On(date time.Time) []*liturgy.Celebration {
	var out []*liturgy.Celebration
	for _, c := range r.Celebrations {
		if calendar.SameDay(c.Date, date) {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the active celebration with the given key.
func (r *Result) Find(key string) (*liturgy.Celebration, bool) {
	for _, c := range r.Celebrations {
		if c.Key == key {
			return c, true
		}
	}
	return nil, false
}

// FindSuppressed returns the suppressed registry entry with the given key.
func (r *Result) FindSuppressed(key string) (store.Suppressed, bool) {
	for _, s := range r.Suppressed {
		if s.Celebration.Key == key {
			return s, true
		}
	}
	return store.Suppressed{}, false
}

// Engine computes calendars from a reference data repository. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	repo   *refdata.Repository
	logger *slog.Logger
}

// New creates an Engine.
func New(repo *refdata.Repository, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{repo: repo, logger: logger}
}

// Catalog returns the reference data the engine computes from.
func (e *Engine) Catalog(ctx context.Context) (*refdata.Catalog, error) {
	return e.repo.Catalog(ctx)
}

// Compute builds the calendar described by p.
func (e *Engine) Compute(ctx context.Context, p Params) (*Result, error) {
	if p.YearType == "" {
		p.YearType = YearCivil
	}
	if p.YearType != YearCivil && p.YearType != YearLiturgical {
		return nil, fmt.Errorf("%w: year type %q", ErrInvalidParams, p.YearType)
	}
	if err := validateYear(p); err != nil {
		return nil, err
	}

	req, err := e.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var result *Result
	switch p.YearType {
	case YearLiturgical:
		result, err = e.liturgicalYear(req)
	default:
		var pass *Context
		pass, err = e.pass(req, p.Year)
		if err == nil {
			result = req.result()
			result.add(pass)
		}
	}
	if err != nil {
		return nil, err
	}

	e.logger.Info("calendar computed",
		"year", p.Year,
		"year_type", p.YearType,
		"nation", p.Nation,
		"diocese", p.Diocese,
		"locale", req.locale,
		"celebrations", len(result.Celebrations),
		"advisories", len(result.Advisories),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (e *Engine) resolve(ctx context.Context, p Params) (*request, error) {
	cat, err := e.repo.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}
	sc, err := resolveScope(cat, p)
	if err != nil {
		return nil, err
	}
	locale, err := i18n.Match(p.Locale, sc.locales(cat.Proper.Locales))
	if err != nil {
		return nil, err
	}
	return &request{
		params:   p,
		settings: resolveSettings(p, sc),
		locale:   locale,
		labels:   i18n.For(locale),
		catalog:  cat,
		scope:    sc,
	}, nil
}

// pass computes one civil year.
func (e *Engine) pass(req *request, year int) (*Context, error) {
	c := newContext(req, year, e.logger)
	if err := c.build(); err != nil {
		return nil, fmt.Errorf("build %d: %w", year, err)
	}
	if err := c.applyOverlays(); err != nil {
		return nil, fmt.Errorf("overlays %d: %w", year, err)
	}
	if err := c.annotate(); err != nil {
		return nil, fmt.Errorf("annotate %d: %w", year, err)
	}
	c.Logger.Debug("pass complete", "celebrations", c.Store.Len(), "advisories", len(c.advisories))
	return c, nil
}

// liturgicalYear splices the tail of the previous civil year, from the
// First Sunday of Advent on, in front of the requested civil year.
func (e *Engine) liturgicalYear(req *request) (*Result, error) {
	year := req.params.Year
	prev, err := e.pass(req, year-1)
	if err != nil {
		return nil, err
	}
	cur, err := e.pass(req, year)
	if err != nil {
		return nil, err
	}

	from := calendar.FirstSundayOfAdvent(year - 1)
	to := calendar.Date(year-1, time.December, 31)
	inWindow := func(d time.Time) bool { return calendar.InRange(d, from, to) }
	prev.Store.Retain(inWindow)

	// Keys of the previous year that recur in the requested one are
	// suffixed with the previous year.
	taken := make(map[string]bool)
	for _, cel := range cur.Store.All() {
		taken[cel.Key] = true
	}
	for _, s := range cur.Store.SuppressedAll() {
		taken[s.Celebration.Key] = true
	}
	rename := func(key string) string {
		if key != "" && taken[key] {
			return fmt.Sprintf("%s_%d", key, year-1)
		}
		return key
	}

	result := req.result()
	for _, cel := range prev.Store.All() {
		cel.Key = rename(cel.Key)
		result.Celebrations = append(result.Celebrations, cel)
	}
	for _, s := range prev.Store.SuppressedAll() {
		s.Celebration.Key = rename(s.Celebration.Key)
		s.By.Key = rename(s.By.Key)
		result.Suppressed = append(result.Suppressed, s)
	}
	for _, r := range prev.Store.ReinstatedAll() {
		r.Key = rename(r.Key)
		result.Reinstated = append(result.Reinstated, r)
	}
	for _, a := range prev.advisories {
		if !a.Date.IsZero() && !inWindow(a.Date) {
			continue
		}
		a.Key = rename(a.Key)
		a.CoincidingKey = rename(a.CoincidingKey)
		result.Advisories = append(result.Advisories, a)
	}

	result.add(cur)
	return result, nil
}

func (req *request) result() *Result {
	return &Result{
		Params:   req.params,
		Settings: req.settings,
		Locale:   req.locale,
	}
}

// add appends a pass to the result.
func (r *Result) add(c *Context) {
	r.Celebrations = append(r.Celebrations, c.Store.All()...)
	r.Suppressed = append(r.Suppressed, c.Store.SuppressedAll()...)
	r.Reinstated = append(r.Reinstated, c.Store.ReinstatedAll()...)
	r.Advisories = append(r.Advisories, c.advisories...)
}
