// Package zip stores generated docsets as zip archives with atomic
// update semantics. An archive carries its resolved metadata and a
// content manifest under META/ so it can be listed and served without
// convention-guessing.
package zip

import (
	"archive/zip"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jmendel/docpack"
)

// Reserved archive paths.
const (
	MetaDir      = "META"
	InfoFile     = "META/info.json"
	ManifestFile = "META/manifest.json"
)

// Item is one manifest record describing a stored file.
type Item struct {
	Path     string `json:"path"`
	Title    string `json:"title,omitempty"`
	MimeType string `json:"mimeType"`
	Size     int    `json:"size"`
	Hash     string `json:"hash"`
}

// info is the payload of META/info.json.
type info struct {
	Meta      docpack.ArchiveMeta `json:"meta"`
	CreatedAt time.Time           `json:"createdAt"`
	Items     int                 `json:"items"`
}

// manifest is the payload of META/manifest.json.
type manifest struct {
	Items []Item `json:"items"`
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content []byte) string {
	h := xxhash.Sum64(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// Ensure Writer implements docpack.ArchiveWriter at compile time.
var _ docpack.ArchiveWriter = (*Writer)(nil)

// Writer builds an archive at path. Items accumulate in path.tmp and
// the finished archive only appears at path on Commit, so a crashed or
// aborted build never leaves a half-written archive behind.
type Writer struct {
	path string
	meta docpack.ArchiveMeta

	f  *os.File
	zw *zip.Writer

	items    []Item
	seen     map[string]bool
	modified time.Time
	closed   bool
}

// NewWriter creates a Writer targeting path. Parent directories are
// created as needed.
func NewWriter(path string, meta docpack.ArchiveMeta) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	f, err := os.Create(path + ".tmp")
	if err != nil {
		return nil, err
	}

	return &Writer{
		path:     path,
		meta:     meta,
		f:        f,
		zw:       zip.NewWriter(f),
		seen:     make(map[string]bool),
		modified: time.Now().UTC(),
	}, nil
}

// AddItem stores one item. Paths must be unique and may not enter the
// reserved META/ directory.
func (w *Writer) AddItem(item *docpack.ArchiveItem) error {
	if w.closed {
		return docpack.Errorf(docpack.EINTERNAL, "archive writer is closed")
	}
	if item.Path == "" {
		return docpack.Errorf(docpack.EINVALID, "archive item path is required")
	}
	if item.Path == MetaDir || strings.HasPrefix(item.Path, MetaDir+"/") {
		return docpack.Errorf(docpack.EINVALID, "archive path %q is reserved", item.Path)
	}
	if w.seen[item.Path] {
		return docpack.Errorf(docpack.ECONFLICT, "archive already contains %q", item.Path)
	}

	if err := w.write(item.Path, item.Content); err != nil {
		return err
	}

	w.seen[item.Path] = true
	w.items = append(w.items, Item{
		Path:     item.Path,
		Title:    item.Title,
		MimeType: item.MimeType,
		Size:     len(item.Content),
		Hash:     hashContent(item.Content),
	})
	return nil
}

func (w *Writer) write(path string, content []byte) error {
	fw, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:     path,
		Method:   zip.Deflate,
		Modified: w.modified,
	})
	if err != nil {
		return err
	}
	_, err = fw.Write(content)
	return err
}

// Len returns the number of items added so far.
func (w *Writer) Len() int {
	return len(w.items)
}

// Commit writes the metadata files, finalizes the zip and moves it to
// its target path, replacing any previous archive there.
func (w *Writer) Commit() error {
	if w.closed {
		return docpack.Errorf(docpack.EINTERNAL, "archive writer is closed")
	}
	w.closed = true

	sorted := make([]Item, len(w.items))
	copy(sorted, w.items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	infoJSON, err := json.MarshalIndent(info{
		Meta:      w.meta,
		CreatedAt: w.modified,
		Items:     len(w.items),
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := w.write(InfoFile, infoJSON); err != nil {
		return err
	}

	manifestJSON, err := json.MarshalIndent(manifest{Items: sorted}, "", "  ")
	if err != nil {
		return err
	}
	if err := w.write(ManifestFile, manifestJSON); err != nil {
		return err
	}

	if err := w.zw.Close(); err != nil {
		return err
	}
	if err := w.f.Close(); err != nil {
		return err
	}

	// Remove any previous archive, then rename atomically.
	if err := os.RemoveAll(w.path); err != nil {
		return err
	}
	return os.Rename(w.path+".tmp", w.path)
}

// Abort discards the partially written archive.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true

	_ = w.zw.Close()
	_ = w.f.Close()
	return os.RemoveAll(w.path + ".tmp")
}
