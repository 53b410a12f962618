package database

import (
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
)

// Document is one stored reference document.
type Document struct {
	Kind      refdata.Kind `json:"kind"`
	ID        string       `json:"id"`
	Body      []byte       `json:"-"`
	Checksum  string       `json:"checksum"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
	UpdatedAt *time.Time   `json:"updated_at,omitempty"`
}

// ImportRun summarizes one import.
type ImportRun struct {
	ID         int64      `json:"id"`
	Origin     string     `json:"origin"`
	Inserted   int        `json:"inserted"`
	Updated    int        `json:"updated"`
	Unchanged  int        `json:"unchanged"`
	Removed    int        `json:"removed"`
	ImportedAt *time.Time `json:"imported_at,omitempty"`
}

// Total is the number of documents the import read.
func (r ImportRun) Total() int {
	return r.Inserted + r.Updated + r.Unchanged
}
