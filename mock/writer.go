package mock

import (
	"github.com/jmendel/docpack"
)

var _ docpack.ArchiveWriter = (*ArchiveWriter)(nil)

// ArchiveWriter is a mock implementation of docpack.ArchiveWriter.
type ArchiveWriter struct {
	AddItemFn func(item *docpack.ArchiveItem) error
	CommitFn  func() error
	AbortFn   func() error
}

func (w *ArchiveWriter) AddItem(item *docpack.ArchiveItem) error {
	return w.AddItemFn(item)
}

func (w *ArchiveWriter) Commit() error {
	return w.CommitFn()
}

func (w *ArchiveWriter) Abort() error {
	return w.AbortFn()
}
