package refdata

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
)

// ActionKind names an Action variant in the document encoding.
type ActionKind string

const (
	ActionCreateFixed   ActionKind = "create_fixed"
	ActionCreateMobile  ActionKind = "create_mobile"
	ActionSetGrade      ActionKind = "set_grade"
	ActionSetName       ActionKind = "set_name"
	ActionDeclareDoctor ActionKind = "declare_doctor"
	ActionMakePatron    ActionKind = "make_patron"
	ActionMoveEvent     ActionKind = "move_event"
)

// Action is what a decree or an overlay item does. Each variant carries
// exactly the fields it needs.
type Action interface {
	Kind() ActionKind
	isAction()
}

// Placement describes a celebration an action creates.
type Placement struct {
	Rank        liturgy.Rank
	DisplayRank *liturgy.Rank
	Colors      []liturgy.Color
	Common      []string
	// PrevailsOverMemorials lets a created memorial displace an obligatory
	// memorial already on its date instead of both becoming optional.
	PrevailsOverMemorials bool
}

// CreateFixed creates a celebration on a fixed day and month.
type CreateFixed struct {
	Month time.Month
	Day   int
	Placement
}

// CreateMobile creates a celebration whose date follows a rule.
type CreateMobile struct {
	Rule DateRule
	Placement
}

// SetGrade changes the rank of an existing celebration.
type SetGrade struct {
	Rank liturgy.Rank
}

// SetName renames an existing celebration using the document's name map.
type SetName struct{}

// DeclareDoctor adds the Doctor of the Church title to an existing celebration.
type DeclareDoctor struct{}

// MakePatron raises an existing celebration to a patronal rank and renames it
// when the document carries a name for it.
type MakePatron struct {
	Rank liturgy.Rank
}

// MoveEvent relocates an existing celebration to a fixed day and month.
type MoveEvent struct {
	Month  time.Month
	Day    int
	Reason string
}

func (CreateFixed) Kind() ActionKind   { return ActionCreateFixed }
func (CreateMobile) Kind() ActionKind  { return ActionCreateMobile }
func (SetGrade) Kind() ActionKind      { return ActionSetGrade }
func (SetName) Kind() ActionKind       { return ActionSetName }
func (DeclareDoctor) Kind() ActionKind { return ActionDeclareDoctor }
func (MakePatron) Kind() ActionKind    { return ActionMakePatron }
func (MoveEvent) Kind() ActionKind     { return ActionMoveEvent }

func (CreateFixed) isAction()   {}
func (CreateMobile) isAction()  {}
func (SetGrade) isAction()      {}
func (SetName) isAction()       {}
func (DeclareDoctor) isAction() {}
func (MakePatron) isAction()    {}
func (MoveEvent) isAction()     {}

// Creation is implemented by the actions that create a celebration.
type Creation interface {
	Action
	DateRule() DateRule
	Details() Placement
}

func (a CreateFixed) DateRule() DateRule  { return FixedDate{Month: a.Month, Day: a.Day} }
func (a CreateFixed) Details() Placement  { return a.Placement }
func (a CreateMobile) DateRule() DateRule { return a.Rule }
func (a CreateMobile) Details() Placement { return a.Placement }

// Window is an effective-date window in years. Until is exclusive and zero
// means open-ended.
type Window struct {
	Since int `json:"since"`
	Until int `json:"until,omitempty"`
}

// Contains reports whether year falls inside the window.
func (w Window) Contains(year int) bool {
	return w.Since <= year && (w.Until == 0 || year < w.Until)
}

var decreeActions = map[ActionKind]bool{
	ActionCreateFixed:   true,
	ActionCreateMobile:  true,
	ActionSetGrade:      true,
	ActionSetName:       true,
	ActionDeclareDoctor: true,
}

var overlayActions = map[ActionKind]bool{
	ActionCreateFixed:  true,
	ActionCreateMobile: true,
	ActionMakePatron:   true,
	ActionSetGrade:     true,
	ActionSetName:      true,
	ActionMoveEvent:    true,
}

// itemJSON is the flat document encoding shared by decrees and overlay items.
type itemJSON struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Action   string `json:"action"`
	Since    int    `json:"since"`
	Until    int    `json:"until"`
	Citation string `json:"citation"`

	Month                 int             `json:"month"`
	Day                   int             `json:"day"`
	Rule                  json.RawMessage `json:"rule"`
	Rank                  string          `json:"rank"`
	DisplayRank           string          `json:"display_rank"`
	Colors                []liturgy.Color `json:"colors"`
	Common                []string        `json:"common"`
	PrevailsOverMemorials bool            `json:"prevails_over_memorials"`
	Reason                string          `json:"reason"`
}

func (j itemJSON) placement() (Placement, error) {
	rank, err := liturgy.ParseRank(j.Rank)
	if err != nil {
		return Placement{}, err
	}
	p := Placement{
		Rank:                  rank,
		Colors:                j.Colors,
		Common:                j.Common,
		PrevailsOverMemorials: j.PrevailsOverMemorials,
	}
	if j.DisplayRank != "" {
		display, err := liturgy.ParseRank(j.DisplayRank)
		if err != nil {
			return Placement{}, err
		}
		p.DisplayRank = &display
	}
	return p, nil
}

func (j itemJSON) decodeAction(allowed map[ActionKind]bool) (Action, error) {
	kind := ActionKind(j.Action)
	if !allowed[kind] {
		return nil, fmt.Errorf("action %q not allowed here", j.Action)
	}

	switch kind {
	case ActionCreateFixed:
		p, err := j.placement()
		if err != nil {
			return nil, err
		}
		if !validDay(2000, time.Month(j.Month), j.Day) {
			return nil, fmt.Errorf("%w: month %d day %d", ErrInvalidDateRule, j.Month, j.Day)
		}
		return CreateFixed{Month: time.Month(j.Month), Day: j.Day, Placement: p}, nil
	case ActionCreateMobile:
		p, err := j.placement()
		if err != nil {
			return nil, err
		}
		if len(j.Rule) == 0 {
			return nil, fmt.Errorf("%w: create_mobile without rule", ErrInvalidDateRule)
		}
		rule, err := decodeDateRule(j.Rule)
		if err != nil {
			return nil, err
		}
		return CreateMobile{Rule: rule, Placement: p}, nil
	case ActionSetGrade, ActionMakePatron:
		rank, err := liturgy.ParseRank(j.Rank)
		if err != nil {
			return nil, err
		}
		if kind == ActionMakePatron {
			return MakePatron{Rank: rank}, nil
		}
		return SetGrade{Rank: rank}, nil
	case ActionSetName:
		return SetName{}, nil
	case ActionDeclareDoctor:
		return DeclareDoctor{}, nil
	case ActionMoveEvent:
		if !validDay(2000, time.Month(j.Month), j.Day) {
			return nil, fmt.Errorf("%w: month %d day %d", ErrInvalidDateRule, j.Month, j.Day)
		}
		return MoveEvent{Month: time.Month(j.Month), Day: j.Day, Reason: j.Reason}, nil
	}
	return nil, fmt.Errorf("unknown action %q", j.Action)
}

// DecreeAmendment is one entry of the decree log: an effective-dated change
// to the universal calendar.
type DecreeAmendment struct {
	ID       string
	Key      string
	Action   Action
	Window   Window
	Citation string
}

// Applies reports whether the decree is in force in year.
func (d DecreeAmendment) Applies(year int) bool {
	return d.Window.Contains(year)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DecreeAmendment) UnmarshalJSON(data []byte) error {
	var j itemJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	action, err := j.decodeAction(decreeActions)
	if err != nil {
		return fmt.Errorf("decree %s: %w", j.ID, err)
	}
	*d = DecreeAmendment{
		ID:       j.ID,
		Key:      j.Key,
		Action:   action,
		Window:   Window{Since: j.Since, Until: j.Until},
		Citation: j.Citation,
	}
	return nil
}

// OverlayItem is one ordered change a regional overlay makes.
type OverlayItem struct {
	Key      string
	Action   Action
	Window   Window
	Citation string
}

// Applies reports whether the item is in force in year.
func (o OverlayItem) Applies(year int) bool {
	return o.Window.Contains(year)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OverlayItem) UnmarshalJSON(data []byte) error {
	var j itemJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	action, err := j.decodeAction(overlayActions)
	if err != nil {
		return fmt.Errorf("overlay item %s: %w", j.Key, err)
	}
	*o = OverlayItem{
		Key:      j.Key,
		Action:   action,
		Window:   Window{Since: j.Since, Until: j.Until},
		Citation: j.Citation,
	}
	return nil
}
