package docpack

import (
	"context"
	"time"
)

// Docset records a built archive in the local catalog.
type Docset struct {
	ID      string    `json:"id"`
	Slug    string    `json:"slug"`
	Title   string    `json:"title"`
	Version string    `json:"version"`
	Path    string    `json:"path"`
	Pages   int       `json:"pages"`
	BuiltAt time.Time `json:"builtAt"`
}

// Validate returns an error if required fields are missing.
func (d *Docset) Validate() error {
	if d.Slug == "" {
		return Errorf(EINVALID, "docset slug is required")
	}
	if d.Title == "" {
		return Errorf(EINVALID, "docset title is required")
	}
	if d.Path == "" {
		return Errorf(EINVALID, "docset archive path is required")
	}
	return nil
}

// Entry is a searchable sidebar entry belonging to a built archive.
type Entry struct {
	DocsetID string `json:"docsetId"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Section  string `json:"section"`
	Position int    `json:"position"`
}

// Validate returns an error if required fields are missing.
func (e *Entry) Validate() error {
	if e.DocsetID == "" {
		return Errorf(EINVALID, "entry docset id is required")
	}
	if e.Name == "" {
		return Errorf(EINVALID, "entry name is required")
	}
	return nil
}

// DocsetFilter selects docsets in FindDocsets.
type DocsetFilter struct {
	ID   *string
	Slug *string

	Limit  int
	Offset int
}

// EntryFilter selects entries in SearchEntries. Match is a case
// insensitive substring match on entry names.
type EntryFilter struct {
	DocsetID *string
	Match    string

	Limit  int
	Offset int
}

// DocsetIndex records built archives and their sidebar entries so they
// can be listed and searched without opening the archives.
type DocsetIndex interface {
	// CreateDocset records a built archive. Any previous record with
	// the same slug is replaced along with its entries.
	CreateDocset(ctx context.Context, docset *Docset) error

	// FindDocsetByID returns the docset with the given id. Returns
	// ENOTFOUND if it does not exist.
	FindDocsetByID(ctx context.Context, id string) (*Docset, error)

	// FindDocsets returns docsets matching the filter, newest first.
	FindDocsets(ctx context.Context, filter DocsetFilter) ([]*Docset, error)

	// CreateEntries records sidebar entries for a built archive.
	CreateEntries(ctx context.Context, entries []*Entry) error

	// SearchEntries returns entries matching the filter, ordered by
	// docset and sidebar position.
	SearchEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)

	// DeleteDocset removes a docset record and its entries.
	DeleteDocset(ctx context.Context, id string) error
}
