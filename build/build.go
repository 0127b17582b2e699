// Package build provides archive generation orchestration. It coordinates
// fetching documentation from DevDocs, rendering pages, and writing
// self-contained archives together with their catalog records.
package build

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jmendel/docpack"
	"golang.org/x/sync/errgroup"
)

// As of 2024 all DevDocs documentation is published in English.
const languageISO6393 = "eng"

// missingPage fills in for pages DevDocs serves no content for, so broken
// upstream data shows up as a page instead of a dead link.
const missingPage = "<h2>This documentation is missing.</h2>" +
	"<p>DevDocs did not serve content for this page, so there was nothing " +
	"to archive. The omission is in the upstream data, not in your reader.</p>"

// WriterFunc opens an archive writer for the given path and metadata.
type WriterFunc func(path string, meta docpack.ArchiveMeta) (docpack.ArchiveWriter, error)

// Generator builds archives for the docsets selected by a filter.
type Generator struct {
	Client    docpack.Client
	Config    docpack.ArchiveConfig
	Filter    docpack.Filter
	OutputDir string
	NewWriter WriterFunc

	// Docsets, when set, records each built archive and its sidebar
	// entries for local search.
	Docsets docpack.DocsetIndex

	// CatalogPath, when set, is where the library file is regenerated
	// after the run.
	CatalogPath string

	// Concurrency is the number of docsets built in parallel.
	// Defaults to 1.
	Concurrency int

	Logger *slog.Logger
}

// Result holds the outcome of a generation run.
type Result struct {
	Built   int
	Skipped int
	Pages   int

	// Paths of the archives for every selected docset, in selection
	// order, including the ones that already existed.
	Paths []string
}

// ProgressEvent reports progress during a generation run.
type ProgressEvent struct {
	Type      ProgressType
	Slug      string
	Path      string
	Completed int
	Total     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	// ProgressStarted fires once per run. Total is the number of
	// selected docsets.
	ProgressStarted ProgressType = iota
	// ProgressPage fires per rendered page. Completed and Total count
	// pages within the docset named by Slug.
	ProgressPage
	// ProgressSkipped fires for docsets whose archive already exists.
	ProgressSkipped
	// ProgressCompleted fires when a docset's archive is committed.
	ProgressCompleted
	// ProgressFailed fires when a docset build fails.
	ProgressFailed
	// ProgressFinished fires once after all docsets are processed.
	ProgressFinished
)

// ProgressFunc is a callback for reporting generation progress.
type ProgressFunc func(event ProgressEvent)

// outcome holds the result of processing a single docset.
type outcome struct {
	path    string
	pages   int
	skipped bool
	archive docpack.ArchiveMeta
}

// Run generates archives for every docset the filter selects. Existing
// archives are skipped so an interrupted run can resume. The progress
// callback, if provided, receives events as generation proceeds.
func (g *Generator) Run(ctx context.Context, progress ProgressFunc) (*Result, error) {
	logger := g.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Load the listing first to fail fast before fetching anything else.
	docs, err := g.Client.ListDocs(ctx)
	if err != nil {
		return nil, err
	}
	selected, err := g.Filter.Apply(docs)
	if err != nil {
		return nil, err
	}

	// Check every format string up front to bail before a long run
	// discovers a bad template on its final docset.
	now := time.Now()
	for i := range selected {
		if _, err := g.Config.Format(selected[i].Placeholders(now)); err != nil {
			return nil, err
		}
	}

	logger.Info("fetching shared resources")
	css, err := g.Client.ApplicationCSS(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output folder: %w", err)
	}

	total := len(selected)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	concurrency := g.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	outcomes := make([]outcome, total)
	var completed atomic.Int64

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i := range selected {
		eg.Go(func() error {
			doc := selected[i]
			out, err := g.buildOne(gctx, logger, doc, css, now, progress)
			if err != nil {
				if progress != nil {
					progress(ProgressEvent{Type: ProgressFailed, Slug: doc.Slug, Error: err})
				}
				return fmt.Errorf("building %s: %w", doc.Slug, err)
			}
			outcomes[i] = out

			done := int(completed.Add(1))
			if progress != nil {
				typ := ProgressCompleted
				if out.skipped {
					typ = ProgressSkipped
				}
				progress(ProgressEvent{
					Type:      typ,
					Slug:      doc.Slug,
					Path:      out.path,
					Completed: done,
					Total:     total,
				})
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, out := range outcomes {
		result.Paths = append(result.Paths, out.path)
		result.Pages += out.pages
		if out.skipped {
			result.Skipped++
		} else {
			result.Built++
		}
	}

	if g.CatalogPath != "" {
		if err := g.writeCatalog(now, outcomes); err != nil {
			return nil, fmt.Errorf("writing catalog: %w", err)
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return result, nil
}

// buildOne generates the archive for a single docset.
func (g *Generator) buildOne(ctx context.Context, logger *slog.Logger, doc docpack.Metadata, css string, now time.Time, progress ProgressFunc) (outcome, error) {
	formatted, err := g.Config.Format(doc.Placeholders(now))
	if err != nil {
		return outcome{}, err
	}

	source := "https://devdocs.io"
	if doc.Links != nil && doc.Links.Home != "" {
		source = doc.Links.Home
	}
	archive := docpack.ArchiveMeta{
		Name:            formatted.NameFormat,
		Title:           formatted.TitleFormat,
		Publisher:       formatted.Publisher,
		Creator:         formatted.Creator,
		Description:     formatted.DescriptionFormat,
		LongDescription: formatted.LongDescriptionFormat,
		Tags:            formatted.TagList(),
		Language:        languageISO6393,
		Source:          source,
		Scraper:         docpack.Name + " v" + docpack.Version,
	}

	path := filepath.Join(g.OutputDir, formatted.NameFormat+docpack.ArchiveExt)

	// Don't clobber existing archives so a user can resume a failed run.
	if _, err := os.Stat(path); err == nil {
		logger.Warn("skipping, archive already exists", "slug", doc.Slug, "path", path)
		return outcome{path: path, skipped: true, archive: archive}, nil
	}

	logger.Info("generating archive", "slug", doc.Slug, "path", path)

	index, err := g.Client.Index(ctx, doc.Slug)
	if err != nil {
		return outcome{}, err
	}
	db, err := g.Client.DB(ctx, doc.Slug)
	if err != nil {
		return outcome{}, err
	}

	w, err := g.NewWriter(path, archive)
	if err != nil {
		return outcome{}, err
	}
	defer w.Abort()

	pages, err := g.addContents(ctx, logger, w, doc, index, db, css, progress)
	if err != nil {
		return outcome{}, err
	}

	if err := w.Commit(); err != nil {
		return outcome{}, err
	}

	if g.Docsets != nil {
		if err := g.record(ctx, doc, index, path, pages); err != nil {
			return outcome{}, err
		}
	}

	return outcome{path: path, pages: pages, archive: archive}, nil
}

// addContents renders the docset into the archive writer and returns the
// number of pages written.
func (g *Generator) addContents(ctx context.Context, logger *slog.Logger, w docpack.ArchiveWriter, doc docpack.Metadata, index *docpack.Index, db map[string]string, css string, progress ProgressFunc) (int, error) {
	if err := w.AddItem(&docpack.ArchiveItem{
		Path:     "application.css",
		MimeType: "text/css",
		Content:  []byte(css),
	}); err != nil {
		return 0, err
	}

	licenses, err := renderLicenses(doc)
	if err != nil {
		return 0, err
	}
	if err := w.AddItem(&docpack.ArchiveItem{
		Path:     docpack.LicensePage,
		Title:    "Licenses",
		MimeType: "text/plain",
		Content:  licenses,
	}); err != nil {
		return 0, err
	}

	listing, err := json.Marshal(docpack.BuildListing(doc, index))
	if err != nil {
		return 0, err
	}
	if err := w.AddItem(&docpack.ArchiveItem{
		Path:     docpack.ListingFile,
		MimeType: "application/json",
		Content:  listing,
	}); err != nil {
		return 0, err
	}

	titles, order := pageTitles(index.Entries)

	// The landing page exists for every docset but is not always in the
	// dynamic list of pages.
	if _, ok := titles[docpack.LandingPage]; !ok {
		order = append(order, docpack.LandingPage)
	}
	titles[docpack.LandingPage] = doc.Name + " Documentation"

	// Database pages the index never references are archived too, with a
	// title lifted from their content.
	var extras []string
	for path := range db {
		if _, ok := titles[path]; !ok {
			extras = append(extras, path)
		}
	}
	sort.Strings(extras)
	for _, path := range extras {
		title := titleFromHTML(db[path])
		if title == "" {
			title = path
		}
		titles[path] = title
		order = append(order, path)
	}

	total := len(order)
	for i, path := range order {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		content, ok := db[path]
		if !ok {
			logger.Warn("missing content", "slug", doc.Slug, "page", path)
			content = missingPage
		}

		prefix := relPrefix(path)
		page, err := renderPage(pageData{
			Title:       titles[path],
			Path:        path,
			RelPrefix:   prefix,
			Listing:     prefix + docpack.ListingFile,
			Content:     template.HTML(content),
			Attribution: template.HTML(doc.Attribution),
		})
		if err != nil {
			return 0, err
		}

		if err := w.AddItem(&docpack.ArchiveItem{
			Path:     path,
			Title:    titles[path],
			MimeType: "text/html",
			Content:  page,
		}); err != nil {
			return 0, err
		}

		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressPage,
				Slug:      doc.Slug,
				Path:      path,
				Completed: i + 1,
				Total:     total,
			})
		}
	}

	return total, nil
}

// record stores the docset and its sidebar entries in the local index.
func (g *Generator) record(ctx context.Context, doc docpack.Metadata, index *docpack.Index, path string, pages int) error {
	docset := &docpack.Docset{
		Slug:    doc.Slug,
		Title:   doc.FullName(),
		Version: doc.Version,
		Path:    path,
		Pages:   pages,
	}
	if err := g.Docsets.CreateDocset(ctx, docset); err != nil {
		return err
	}

	var entries []*docpack.Entry
	position := 0
	for _, section := range index.BuildNavigation() {
		for _, link := range section.Links {
			entries = append(entries, &docpack.Entry{
				DocsetID: docset.ID,
				Name:     link.Name,
				Path:     link.Path,
				Section:  section.Name,
				Position: position,
			})
			position++
		}
	}
	if len(entries) == 0 {
		return nil
	}
	return g.Docsets.CreateEntries(ctx, entries)
}

// writeCatalog regenerates the library file from the run's outcomes.
func (g *Generator) writeCatalog(now time.Time, outcomes []outcome) error {
	entries := make([]CatalogEntry, 0, len(outcomes))
	for _, out := range outcomes {
		rel, err := filepath.Rel(filepath.Dir(g.CatalogPath), out.path)
		if err != nil {
			rel = out.path
		}
		entry := CatalogEntry{
			ID:    uuid.New().String(),
			Path:  rel,
			Meta:  out.archive,
			Pages: out.pages,
			Date:  now.Format("2006-01-02"),
		}
		if st, err := os.Stat(out.path); err == nil {
			entry.Size = st.Size()
		}
		entries = append(entries, entry)
	}
	return WriteCatalog(g.CatalogPath, entries)
}

// pageTitles maps page database paths to display titles. An index entry
// that opens a page at the top (no fragment) names the page; otherwise the
// first entry referencing it does. The returned slice preserves first
// appearance order.
func pageTitles(entries []docpack.IndexEntry) (map[string]string, []string) {
	titles := make(map[string]string)
	var order []string

	for _, entry := range entries {
		path := entry.PathWithoutFragment()
		if _, ok := titles[path]; !ok {
			order = append(order, path)
			titles[path] = entry.Name
		} else if path == entry.Path {
			titles[path] = entry.Name
		}
	}

	return titles, order
}

// relPrefix returns the relative prefix that resolves archive root links
// from the given page path.
func relPrefix(path string) string {
	return strings.Repeat("../", strings.Count(path, "/"))
}
