package build

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/jmendel/docpack"
)

// libraryVersion is the schema version Kiwix library files carry.
const libraryVersion = "20110515"

// CatalogEntry is one book row in the generated library file.
type CatalogEntry struct {
	// ID uniquely identifies the book within the library.
	ID string

	// Path to the archive, relative to the library file.
	Path string

	// Meta is the archive's recorded metadata.
	Meta docpack.ArchiveMeta

	// Pages is the number of content pages, when known.
	Pages int

	// Size of the archive file in bytes.
	Size int64

	// Date the archive was generated, formatted YYYY-MM-DD.
	Date string
}

// WriteCatalog writes a Kiwix style library file listing the given
// archives. The file is rewritten whole on every call so removed archives
// drop out of the catalog.
func WriteCatalog(path string, entries []CatalogEntry) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	library := doc.CreateElement("library")
	library.CreateAttr("version", libraryVersion)

	for _, entry := range entries {
		book := library.CreateElement("book")
		book.CreateAttr("id", entry.ID)
		book.CreateAttr("path", entry.Path)
		book.CreateAttr("name", entry.Meta.Name)
		book.CreateAttr("title", entry.Meta.Title)
		book.CreateAttr("description", entry.Meta.Description)
		book.CreateAttr("language", entry.Meta.Language)
		book.CreateAttr("creator", entry.Meta.Creator)
		book.CreateAttr("publisher", entry.Meta.Publisher)
		if len(entry.Meta.Tags) > 0 {
			book.CreateAttr("tags", strings.Join(entry.Meta.Tags, ";"))
		}
		if entry.Date != "" {
			book.CreateAttr("date", entry.Date)
		}
		if entry.Pages > 0 {
			book.CreateAttr("articleCount", strconv.Itoa(entry.Pages))
		}
		if entry.Size > 0 {
			// Kiwix records size in KiB.
			book.CreateAttr("size", strconv.FormatInt(entry.Size/1024, 10))
		}
	}

	doc.Indent(2)
	return doc.WriteToFile(path)
}
