package zip

import (
	"archive/zip"
	"encoding/json"
	"io"
	"io/fs"
	"os"

	"github.com/jmendel/docpack"
)

// Ensure Reader can serve archive contents over HTTP.
var _ fs.FS = (*Reader)(nil)

// Reader opens a built archive for inspection and serving. It
// implements fs.FS over the archive contents so it can sit behind
// http.FS directly.
type Reader struct {
	zr     *zip.ReadCloser
	info   info
	items  []Item
	byPath map[string]Item
}

// OpenReader opens the archive at path and loads its metadata.
func OpenReader(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docpack.Errorf(docpack.ENOTFOUND, "archive %q does not exist", path)
		}
		return nil, docpack.Errorf(docpack.EINVALID, "opening archive %q: %s", path, err)
	}

	r := &Reader{zr: zr, byPath: make(map[string]Item)}

	if err := r.readJSON(InfoFile, &r.info); err != nil {
		zr.Close()
		return nil, docpack.Errorf(docpack.EINVALID, "archive %q is missing metadata: %s", path, err)
	}

	var m manifest
	if err := r.readJSON(ManifestFile, &m); err != nil {
		zr.Close()
		return nil, docpack.Errorf(docpack.EINVALID, "archive %q is missing its manifest: %s", path, err)
	}
	r.items = m.Items
	for _, it := range m.Items {
		r.byPath[it.Path] = it
	}

	return r, nil
}

func (r *Reader) readJSON(path string, v any) error {
	f, err := r.zr.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Meta returns the resolved metadata the archive was built with.
func (r *Reader) Meta() docpack.ArchiveMeta {
	return r.info.Meta
}

// Items returns the manifest records, sorted by path.
func (r *Reader) Items() []Item {
	return r.items
}

// Item returns the content and MIME type of the item at path.
func (r *Reader) Item(path string) ([]byte, string, error) {
	it, ok := r.byPath[path]
	if !ok {
		return nil, "", docpack.Errorf(docpack.ENOTFOUND, "archive has no item %q", path)
	}

	f, err := r.zr.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return content, it.MimeType, nil
}

// Open implements fs.FS over the archive contents.
func (r *Reader) Open(name string) (fs.File, error) {
	return r.zr.Open(name)
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.zr.Close()
}
