// Package refdata loads the reference documents the calendar engine
// resolves: the Proprium de Tempore, missal sanctorale tables, the decree
// log, regional overlays and the diocese index.
//
// Documents are pre-validated JSON. They are decoded once per process and
// are read-only afterwards.
package refdata

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// ErrMissingDocument is returned when a required document is not available.
var ErrMissingDocument = errors.New("missing reference document")

// Kind is a class of reference document.
type Kind string

const (
	KindProprium     Kind = "proprium"
	KindMissal       Kind = "missal"
	KindDecrees      Kind = "decrees"
	KindWiderRegion  Kind = "wider_region"
	KindNational     Kind = "national"
	KindDiocesan     Kind = "diocesan"
	KindDioceseIndex Kind = "diocese_index"
)

// Kinds lists every document kind in load order.
var Kinds = []Kind{
	KindProprium, KindMissal, KindDecrees,
	KindWiderRegion, KindNational, KindDiocesan, KindDioceseIndex,
}

// UniversalID is the id of the single proprium, decree log and diocese index.
const UniversalID = "universal"

// Source supplies raw reference documents.
type Source interface {
	// Document returns the encoded document, or an error wrapping
	// ErrMissingDocument when it does not exist.
	Document(ctx context.Context, kind Kind, id string) ([]byte, error)
	// List returns the ids of every document of a kind, sorted.
	List(ctx context.Context, kind Kind) ([]string, error)
}

//go:embed data
var embedded embed.FS

// FS is a Source reading <kind>/<id>.json files from a file system.
type FS struct {
	fsys fs.FS
}

// NewEmbedded returns the Source of the documents compiled into the binary.
func NewEmbedded() *FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("refdata: embedded data: %v", err))
	}
	return &FS{fsys: sub}
}

// NewFS returns a Source reading documents from fsys, e.g. os.DirFS(dir).
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// Document implements Source.
func (s *FS) Document(_ context.Context, kind Kind, id string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, path.Join(string(kind), id+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s/%s", ErrMissingDocument, kind, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", kind, id, err)
	}
	return data, nil
}

// List implements Source.
func (s *FS) List(_ context.Context, kind Kind) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, string(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
