// Package store holds the celebrations of one computed calendar year:
// the active set indexed by date, the registry of suppressed celebrations
// and the record of reinstatements.
//
// A Store is request-local. It is not safe for concurrent use and is never
// shared between computations.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
)

var (
	// ErrDateOccupied is returned when a celebration cannot be placed because
	// the date is held by a celebration that excludes it.
	ErrDateOccupied = errors.New("date occupied")

	// ErrDuplicateKey is returned when adding a key that is already active or suppressed.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is returned when a key is not in the expected registry.
	ErrNotFound = errors.New("key not found")
)

// Supersession describes why a celebration was suppressed.
type Supersession struct {
	Key      string       `json:"key,omitempty"`
	Name     string       `json:"name,omitempty"`
	Rank     liturgy.Rank `json:"rank"`
	Reason   string       `json:"reason,omitempty"`
	Citation string       `json:"citation,omitempty"`
}

// Suppressed is a celebration in the suppressed registry, snapshotted as it
// was when it lost its date.
type Suppressed struct {
	Celebration liturgy.Celebration `json:"celebration"`
	By          Supersession        `json:"superseded_by"`
}

// Reinstatement records a suppressed celebration returning to the active set.
type Reinstatement struct {
	Key      string       `json:"key"`
	Name     string       `json:"name"`
	Rank     liturgy.Rank `json:"rank"`
	LostOn   time.Time    `json:"lost_on"`
	PlacedOn time.Time    `json:"placed_on"`
}

type dateKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dateKey {
	y, m, d := t.Date()
	return dateKey{year: y, month: m, day: d}
}

// Store is the date-indexed collection of celebrations for one calendar year.
type Store struct {
	active     map[string]*liturgy.Celebration
	byDate     map[dateKey][]string
	suppressed map[string]*Suppressed
	// suppressedOrder keeps the registry in the order losses happened.
	suppressedOrder []string
	reinstated      []Reinstatement
}

// New creates an empty store.
func New() *Store {
	return &Store{
		active:     make(map[string]*liturgy.Celebration),
		byDate:     make(map[dateKey][]string),
		suppressed: make(map[string]*Suppressed),
	}
}

func normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// excludes reports whether an active celebration prevents placing incoming on its date.
// An exclusive celebration (memorial or higher) holds its date alone; plain
// weekdays never repeat on a date.
func excludes(existing, incoming *liturgy.Celebration) bool {
	if existing.Rank.Exclusive() {
		return true
	}
	return existing.Rank == liturgy.RankWeekday && incoming.Rank == liturgy.RankWeekday
}

// blocker returns the active celebration on date that excludes c, ignoring c's own key.
func (s *Store) blocker(date time.Time, c *liturgy.Celebration) *liturgy.Celebration {
	for _, key := range s.byDate[keyOf(date)] {
		if key == c.Key {
			continue
		}
		existing := s.active[key]
		if excludes(existing, c) {
			return existing
		}
	}
	return nil
}

// Add places a celebration in the active set. The caller must already have
// resolved any coincidence: Add fails with ErrDateOccupied rather than
// overwrite a celebration.
func (s *Store) Add(c *liturgy.Celebration) error {
	if _, ok := s.active[c.Key]; ok {
		return fmt.Errorf("add %s: %w (active)", c.Key, ErrDuplicateKey)
	}
	if _, ok := s.suppressed[c.Key]; ok {
		return fmt.Errorf("add %s: %w (suppressed, reinstate instead)", c.Key, ErrDuplicateKey)
	}

	stored := c.Clone()
	stored.Date = normalize(stored.Date)
	if b := s.blocker(stored.Date, stored); b != nil {
		return fmt.Errorf("add %s on %s: %w by %s (%s)",
			c.Key, stored.Date.Format("2006-01-02"), ErrDateOccupied, b.Key, b.Rank)
	}

	s.insert(stored)
	return nil
}

func (s *Store) insert(c *liturgy.Celebration) {
	s.active[c.Key] = c
	dk := keyOf(c.Date)
	s.byDate[dk] = append(s.byDate[dk], c.Key)
}

func (s *Store) unindex(c *liturgy.Celebration) {
	dk := keyOf(c.Date)
	keys := s.byDate[dk]
	for i, key := range keys {
		if key == c.Key {
			s.byDate[dk] = append(keys[:i:i], keys[i+1:]...)
			break
		}
	}
	if len(s.byDate[dk]) == 0 {
		delete(s.byDate, dk)
	}
}

// Get returns a copy of the active celebration with the given key.
func (s *Store) Get(key string) (*liturgy.Celebration, bool) {
	c, ok := s.active[key]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// Has reports whether key is active.
func (s *Store) Has(key string) bool {
	_, ok := s.active[key]
	return ok
}

// Suppressed returns the suppressed registry entry for key.
func (s *Store) Suppressed(key string) (Suppressed, bool) {
	entry, ok := s.suppressed[key]
	if !ok {
		return Suppressed{}, false
	}
	out := *entry
	out.Celebration = *entry.Celebration.Clone()
	return out, true
}

// IsSuppressed reports whether key is in the suppressed registry.
func (s *Store) IsSuppressed(key string) bool {
	_, ok := s.suppressed[key]
	return ok
}

// Suppress moves an active celebration to the suppressed registry,
// recording its date, rank and name at this moment.
func (s *Store) Suppress(key string, by Supersession) error {
	c, ok := s.active[key]
	if !ok {
		return fmt.Errorf("suppress %s: %w", key, ErrNotFound)
	}
	s.unindex(c)
	delete(s.active, key)
	s.record(c, by)
	return nil
}

// RecordSuppressed registers a celebration that lost its date before ever
// becoming active. A key already in the registry has its entry replaced.
func (s *Store) RecordSuppressed(c *liturgy.Celebration, by Supersession) error {
	if _, ok := s.active[c.Key]; ok {
		return fmt.Errorf("record suppressed %s: %w (active)", c.Key, ErrDuplicateKey)
	}
	stored := c.Clone()
	stored.Date = normalize(stored.Date)
	s.record(stored, by)
	return nil
}

func (s *Store) record(c *liturgy.Celebration, by Supersession) {
	if _, exists := s.suppressed[c.Key]; !exists {
		s.suppressedOrder = append(s.suppressedOrder, c.Key)
	}
	s.suppressed[c.Key] = &Suppressed{Celebration: *c, By: by}
}

// Reinstate moves a suppressed celebration back to the active set, at date
// when given or at its suppressed date otherwise.
func (s *Store) Reinstate(key string, date time.Time) (*liturgy.Celebration, error) {
	entry, ok := s.suppressed[key]
	if !ok {
		return nil, fmt.Errorf("reinstate %s: %w", key, ErrNotFound)
	}

	c := entry.Celebration.Clone()
	lostOn := c.Date
	if !date.IsZero() {
		c.Date = normalize(date)
	}
	if b := s.blocker(c.Date, c); b != nil {
		return nil, fmt.Errorf("reinstate %s on %s: %w by %s (%s)",
			key, c.Date.Format("2006-01-02"), ErrDateOccupied, b.Key, b.Rank)
	}

	delete(s.suppressed, key)
	for i, k := range s.suppressedOrder {
		if k == key {
			s.suppressedOrder = append(s.suppressedOrder[:i:i], s.suppressedOrder[i+1:]...)
			break
		}
	}
	s.insert(c)
	s.reinstated = append(s.reinstated, Reinstatement{
		Key:      key,
		Name:     c.Name,
		Rank:     c.Rank,
		LostOn:   lostOn,
		PlacedOn: c.Date,
	})
	return c.Clone(), nil
}

// Update applies fn to an active celebration. Changes to the date or rank are
// checked against the celebrations sharing the resulting date; the key may
// not change.
func (s *Store) Update(key string, fn func(c *liturgy.Celebration)) error {
	current, ok := s.active[key]
	if !ok {
		return fmt.Errorf("update %s: %w", key, ErrNotFound)
	}

	next := current.Clone()
	fn(next)
	next.Key = key
	next.Date = normalize(next.Date)

	if !next.Date.Equal(current.Date) || next.Rank != current.Rank {
		if b := s.blocker(next.Date, next); b != nil {
			return fmt.Errorf("update %s on %s: %w by %s (%s)",
				key, next.Date.Format("2006-01-02"), ErrDateOccupied, b.Key, b.Rank)
		}
	}

	s.unindex(current)
	delete(s.active, key)
	s.insert(next)
	return nil
}

// UpdateSuppressed applies fn to the snapshot of a suppressed celebration.
func (s *Store) UpdateSuppressed(key string, fn func(c *liturgy.Celebration)) error {
	entry, ok := s.suppressed[key]
	if !ok {
		return fmt.Errorf("update suppressed %s: %w", key, ErrNotFound)
	}
	fn(&entry.Celebration)
	entry.Celebration.Key = key
	return nil
}

// SetName renames an active celebration.
func (s *Store) SetName(key, name string) error {
	return s.Update(key, func(c *liturgy.Celebration) { c.Name = name })
}

// SetRank changes the rank of an active celebration.
func (s *Store) SetRank(key string, rank liturgy.Rank) error {
	return s.Update(key, func(c *liturgy.Celebration) { c.Rank = rank })
}

// Move relocates an active celebration.
func (s *Store) Move(key string, date time.Time) error {
	return s.Update(key, func(c *liturgy.Celebration) { c.Date = date })
}

// Query returns copies of the active celebrations on date, highest rank first.
func (s *Store) Query(date time.Time) []*liturgy.Celebration {
	keys := s.byDate[keyOf(date)]
	out := make([]*liturgy.Celebration, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.active[key].Clone())
	}
	sortCelebrations(out)
	return out
}

// IsRankAtOrAboveOnDate reports whether any active celebration on date has
// a rank of at least rank. Keys listed in except are ignored.
func (s *Store) IsRankAtOrAboveOnDate(date time.Time, rank liturgy.Rank, except ...string) bool {
	for _, key := range s.byDate[keyOf(date)] {
		if s.active[key].Rank >= rank && !slices.Contains(except, key) {
			return true
		}
	}
	return false
}

// RankedCelebrationOnDate returns the highest-ranked active celebration on
// date other than those in except, or nil when there is none.
func (s *Store) RankedCelebrationOnDate(date time.Time, except ...string) *liturgy.Celebration {
	var best *liturgy.Celebration
	for _, key := range s.byDate[keyOf(date)] {
		if slices.Contains(except, key) {
			continue
		}
		c := s.active[key]
		if best == nil || c.Rank > best.Rank || (c.Rank == best.Rank && c.Key < best.Key) {
			best = c
		}
	}
	if best == nil {
		return nil
	}
	return best.Clone()
}

// Retain drops every active celebration and suppressed entry whose date
// fails keep. Reinstatements are filtered by the date they were placed on.
func (s *Store) Retain(keep func(date time.Time) bool) {
	for key, c := range s.active {
		if !keep(c.Date) {
			s.unindex(c)
			delete(s.active, key)
		}
	}

	order := s.suppressedOrder[:0]
	for _, key := range s.suppressedOrder {
		if keep(s.suppressed[key].Celebration.Date) {
			order = append(order, key)
			continue
		}
		delete(s.suppressed, key)
	}
	s.suppressedOrder = order

	reinstated := s.reinstated[:0]
	for _, r := range s.reinstated {
		if keep(r.PlacedOn) {
			reinstated = append(reinstated, r)
		}
	}
	s.reinstated = reinstated
}

// Len returns the number of active celebrations.
func (s *Store) Len() int {
	return len(s.active)
}

// All returns copies of every active celebration ordered by date, then
// highest rank first.
func (s *Store) All() []*liturgy.Celebration {
	out := make([]*liturgy.Celebration, 0, len(s.active))
	for _, c := range s.active {
		out = append(out, c.Clone())
	}
	sortCelebrations(out)
	return out
}

// SuppressedAll returns the suppressed registry in the order losses happened.
func (s *Store) SuppressedAll() []Suppressed {
	out := make([]Suppressed, 0, len(s.suppressedOrder))
	for _, key := range s.suppressedOrder {
		entry := *s.suppressed[key]
		entry.Celebration = *entry.Celebration.Clone()
		out = append(out, entry)
	}
	return out
}

// ReinstatedAll returns every reinstatement in the order it happened.
func (s *Store) ReinstatedAll() []Reinstatement {
	out := make([]Reinstatement, len(s.reinstated))
	copy(out, s.reinstated)
	return out
}

func sortCelebrations(cs []*liturgy.Celebration) {
	sort.SliceStable(cs, func(i, j int) bool {
		if !cs[i].Date.Equal(cs[j].Date) {
			return cs[i].Date.Before(cs[j].Date)
		}
		if cs[i].Rank != cs[j].Rank {
			return cs[i].Rank > cs[j].Rank
		}
		return cs[i].Key < cs[j].Key
	})
}
