package mock

import (
	"context"

	"github.com/jmendel/docpack"
)

var _ docpack.DocsetIndex = (*DocsetIndex)(nil)

// DocsetIndex is a mock implementation of docpack.DocsetIndex.
type DocsetIndex struct {
	CreateDocsetFn   func(ctx context.Context, docset *docpack.Docset) error
	FindDocsetByIDFn func(ctx context.Context, id string) (*docpack.Docset, error)
	FindDocsetsFn    func(ctx context.Context, filter docpack.DocsetFilter) ([]*docpack.Docset, error)
	CreateEntriesFn  func(ctx context.Context, entries []*docpack.Entry) error
	SearchEntriesFn  func(ctx context.Context, filter docpack.EntryFilter) ([]*docpack.Entry, error)
	DeleteDocsetFn   func(ctx context.Context, id string) error
}

func (s *DocsetIndex) CreateDocset(ctx context.Context, docset *docpack.Docset) error {
	return s.CreateDocsetFn(ctx, docset)
}

func (s *DocsetIndex) FindDocsetByID(ctx context.Context, id string) (*docpack.Docset, error) {
	return s.FindDocsetByIDFn(ctx, id)
}

func (s *DocsetIndex) FindDocsets(ctx context.Context, filter docpack.DocsetFilter) ([]*docpack.Docset, error) {
	return s.FindDocsetsFn(ctx, filter)
}

func (s *DocsetIndex) CreateEntries(ctx context.Context, entries []*docpack.Entry) error {
	return s.CreateEntriesFn(ctx, entries)
}

func (s *DocsetIndex) SearchEntries(ctx context.Context, filter docpack.EntryFilter) ([]*docpack.Entry, error) {
	return s.SearchEntriesFn(ctx, filter)
}

func (s *DocsetIndex) DeleteDocset(ctx context.Context, id string) error {
	return s.DeleteDocsetFn(ctx, id)
}
