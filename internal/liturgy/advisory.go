package liturgy

import (
	"fmt"
	"time"
)

// Severity classifies an advisory.
type Severity string

const (
	// SeverityInfo records a change that involved no conflict.
	SeverityInfo Severity = "info"
	// SeverityCoincidence records a conflict resolved by a documented policy.
	SeverityCoincidence Severity = "coincidence"
	// SeverityAdjudication records a conflict no documented rule resolves.
	// The engine leaves the calendar untouched and flags it for a human decision.
	SeverityAdjudication Severity = "adjudication"
)

// AdvisoryKind is what happened to the celebration an advisory describes.
type AdvisoryKind string

const (
	KindCreated     AdvisoryKind = "created"
	KindSuppressed  AdvisoryKind = "suppressed"
	KindTransferred AdvisoryKind = "transferred"
	KindReinstated  AdvisoryKind = "reinstated"
	KindPromoted    AdvisoryKind = "promoted"
	KindDemoted     AdvisoryKind = "demoted"
	KindRenamed     AdvisoryKind = "renamed"
	KindMoved       AdvisoryKind = "moved"
	KindSkipped     AdvisoryKind = "skipped"
	KindUnresolved  AdvisoryKind = "unresolved"
)

// Advisory is one human-readable, auditable placement decision. Advisories
// are part of a computation's result, not diagnostic logging.
type Advisory struct {
	Severity Severity     `json:"severity"`
	Kind     AdvisoryKind `json:"kind"`
	Year     int          `json:"year"`

	Key  string    `json:"key"`
	Name string    `json:"name"`
	Rank Rank      `json:"rank"`
	Date time.Time `json:"date"`

	CoincidingKey  string `json:"coinciding_key,omitempty"`
	CoincidingName string `json:"coinciding_name,omitempty"`
	CoincidingRank Rank   `json:"coinciding_rank,omitempty"`

	Citation string `json:"citation,omitempty"`
	Message  string `json:"message"`
}

// HasCoincidence reports whether the advisory names a coinciding celebration.
func (a Advisory) HasCoincidence() bool {
	return a.CoincidingKey != ""
}

func (a Advisory) String() string {
	if a.Citation == "" {
		return fmt.Sprintf("[%s] %s", a.Severity, a.Message)
	}
	return fmt.Sprintf("[%s] %s (%s)", a.Severity, a.Message, a.Citation)
}
