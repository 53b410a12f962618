// Package liturgy defines the domain types shared by the calendar engine
// and its adapters: ranks, colors, seasons, celebrations and advisories.
package liturgy

import (
	"fmt"
	"strings"
)

// Rank is the precedence grade of a celebration.
// The zero value is RankWeekday; higher values take precedence.
type Rank int

const (
	RankWeekday Rank = iota
	RankCommemoration
	RankOptionalMemorial
	RankMemorial
	RankFeast
	RankFeastOfTheLord
	RankSolemnity
	// RankHigherSolemnity marks celebrations with precedence over solemnities:
	// the Triduum, Christmas, Easter, Epiphany, Ascension, Pentecost, the
	// Sundays of Advent, Lent and Easter, Ash Wednesday, Holy Week and the
	// Easter Octave.
	RankHigherSolemnity
)

var rankNames = [...]string{
	RankWeekday:          "weekday",
	RankCommemoration:    "commemoration",
	RankOptionalMemorial: "optional memorial",
	RankMemorial:         "memorial",
	RankFeast:            "feast",
	RankFeastOfTheLord:   "feast of the Lord",
	RankSolemnity:        "solemnity",
	RankHigherSolemnity:  "celebration with precedence over solemnities",
}

func (r Rank) String() string {
	if r < RankWeekday || r > RankHigherSolemnity {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// Valid reports whether r is one of the defined ranks.
func (r Rank) Valid() bool {
	return r >= RankWeekday && r <= RankHigherSolemnity
}

// Exclusive reports whether at most one celebration of this rank may hold
// a date. Memorials and above are exclusive; weekdays, commemorations and
// optional memorials are options that may share a date.
func (r Rank) Exclusive() bool {
	return r >= RankMemorial
}

// ParseRank converts a rank name to a Rank. It accepts the String form as
// well as upper-case identifiers such as "OPTIONAL_MEMORIAL" or "FEAST_LORD".
func ParseRank(s string) (Rank, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "_", " ")
	switch normalized {
	case "feast lord", "feast of the lord":
		return RankFeastOfTheLord, nil
	case "higher solemnity":
		return RankHigherSolemnity, nil
	}
	for i, name := range rankNames {
		if name == normalized {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
