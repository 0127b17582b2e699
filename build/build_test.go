package build_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/jmendel/docpack"
	"github.com/jmendel/docpack/build"
	"github.com/jmendel/docpack/mock"
	"github.com/jmendel/docpack/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() docpack.ArchiveConfig {
	return docpack.ArchiveConfig{
		NameFormat:        "devdocs_{clean_slug}",
		TitleFormat:       "{full_name} Docs",
		Publisher:         "docpack",
		Creator:           "DevDocs",
		DescriptionFormat: "{full_name} docs by DevDocs",
		Tags:              "devdocs;{slug_without_version}",
	}
}

// testClient serves a single docset with one page that exists and one the
// database is missing.
func testClient() *mock.Client {
	return &mock.Client{
		ListDocsFn: func(_ context.Context) ([]docpack.Metadata, error) {
			return []docpack.Metadata{{
				Name:        "MockDoc",
				Slug:        "mockdoc",
				Attribution: `Licensed under <a href="https://example.com/license">MIT</a>.`,
			}}, nil
		},
		ApplicationCSSFn: func(_ context.Context) (string, error) {
			return ".mock_css {}", nil
		},
		IndexFn: func(_ context.Context, slug string) (*docpack.Index, error) {
			return &docpack.Index{
				Entries: []docpack.IndexEntry{
					{Name: "Mock Entry", Path: "mock-entry", Type: "Mock Header"},
					{Name: "Missing Entry", Path: "missing", Type: "Mock Header"},
				},
				Types: []docpack.IndexType{
					{Name: "Mock Header", Count: 2, Slug: "headers"},
				},
			}, nil
		},
		DBFn: func(_ context.Context, slug string) (map[string]string, error) {
			return map[string]string{
				"mock-entry": "Entry Value",
				"index":      "Index Value",
			}, nil
		},
	}
}

func testGenerator(t *testing.T, client docpack.Client) *build.Generator {
	t.Helper()
	return &build.Generator{
		Client:    client,
		Config:    testConfig(),
		Filter:    docpack.Filter{All: true},
		OutputDir: t.TempDir(),
		NewWriter: func(path string, meta docpack.ArchiveMeta) (docpack.ArchiveWriter, error) {
			return zip.NewWriter(path, meta)
		},
	}
}

func openArchive(t *testing.T, path string) *zip.Reader {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestGenerator_Run(t *testing.T) {
	t.Parallel()

	t.Run("builds an archive with pages and shared resources", func(t *testing.T) {
		t.Parallel()

		g := testGenerator(t, testClient())

		result, err := g.Run(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Built)
		assert.Equal(t, 0, result.Skipped)
		assert.Equal(t, 3, result.Pages)
		require.Len(t, result.Paths, 1)
		assert.Equal(t, filepath.Join(g.OutputDir, "devdocs_mockdoc.docpack"), result.Paths[0])

		r := openArchive(t, result.Paths[0])

		assert.Equal(t, "devdocs_mockdoc", r.Meta().Name)
		assert.Equal(t, "MockDoc Docs", r.Meta().Title)
		assert.Equal(t, []string{"devdocs", "mockdoc"}, r.Meta().Tags)

		var paths []string
		for _, item := range r.Items() {
			paths = append(paths, item.Path)
		}
		assert.ElementsMatch(t, []string{
			"application.css", "licenses.txt", "navigation.json",
			"mock-entry", "missing", "index",
		}, paths)

		css, _, err := r.Item("application.css")
		require.NoError(t, err)
		assert.Equal(t, ".mock_css {}", string(css))
	})

	t.Run("renders pages with content and the sidebar placeholder", func(t *testing.T) {
		t.Parallel()

		g := testGenerator(t, testClient())

		result, err := g.Run(context.Background(), nil)
		require.NoError(t, err)

		r := openArchive(t, result.Paths[0])

		content, mime, err := r.Item("mock-entry")
		require.NoError(t, err)
		assert.Equal(t, "text/html", mime)
		assert.Contains(t, string(content), "Entry Value")
		assert.Contains(t, string(content),
			`<footer class="_attribution">Licensed under <a href="https://example.com/license">MIT</a>.</footer>`)

		root, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
		require.NoError(t, err)
		sidebar := root.Find("._sidebar")
		require.Equal(t, 1, sidebar.Length())
		listing, _ := sidebar.Attr("data-listing")
		assert.Equal(t, "navigation.json", listing)
		path, _ := sidebar.Attr("data-path")
		assert.Equal(t, "mock-entry", path)
	})

	t.Run("serializes the navigation listing", func(t *testing.T) {
		t.Parallel()

		g := testGenerator(t, testClient())

		result, err := g.Run(context.Background(), nil)
		require.NoError(t, err)

		r := openArchive(t, result.Paths[0])

		raw, mime, err := r.Item("navigation.json")
		require.NoError(t, err)
		assert.Equal(t, "application/json", mime)

		var listing docpack.Listing
		require.NoError(t, json.Unmarshal(raw, &listing))
		assert.Equal(t, "MockDoc", listing.Name)
		assert.Equal(t, "index", listing.LandingHref)
		assert.Equal(t, "licenses.txt", listing.LicenseHref)
		require.Len(t, listing.Children, 1)
		assert.Equal(t, "Mock Header", listing.Children[0].Name)
		assert.Len(t, listing.Children[0].Children, 2)
	})

	t.Run("renders a filler page for missing content", func(t *testing.T) {
		t.Parallel()

		g := testGenerator(t, testClient())

		result, err := g.Run(context.Background(), nil)
		require.NoError(t, err)

		r := openArchive(t, result.Paths[0])

		content, _, err := r.Item("missing")
		require.NoError(t, err)
		assert.Contains(t, string(content), "This documentation is missing.")
	})

	t.Run("titles the landing page after the docset", func(t *testing.T) {
		t.Parallel()

		g := testGenerator(t, testClient())

		result, err := g.Run(context.Background(), nil)
		require.NoError(t, err)

		r := openArchive(t, result.Paths[0])
		for _, item := range r.Items() {
			if item.Path == "index" {
				assert.Equal(t, "MockDoc Documentation", item.Title)
				return
			}
		}
		t.Fatal("landing page not found in archive")
	})

	t.Run("strips markup from the licenses page", func(t *testing.T) {
		t.Parallel()

		g := testGenerator(t, testClient())

		result, err := g.Run(context.Background(), nil)
		require.NoError(t, err)

		r := openArchive(t, result.Paths[0])

		content, mime, err := r.Item("licenses.txt")
		require.NoError(t, err)
		assert.Equal(t, "text/plain", mime)
		assert.Contains(t, string(content), "MockDoc documentation")
		assert.Contains(t, string(content), "Licensed under MIT.")
		assert.NotContains(t, string(content), "<a href")
	})

	t.Run("skips docsets whose archive already exists", func(t *testing.T) {
		t.Parallel()

		client := testClient()
		var indexCalls atomic.Int64
		inner := client.IndexFn
		client.IndexFn = func(ctx context.Context, slug string) (*docpack.Index, error) {
			indexCalls.Add(1)
			return inner(ctx, slug)
		}

		g := testGenerator(t, client)
		existing := filepath.Join(g.OutputDir, "devdocs_mockdoc.docpack")
		require.NoError(t, os.WriteFile(existing, []byte("previous run"), 0o644))

		result, err := g.Run(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, 0, result.Built)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, []string{existing}, result.Paths)
		assert.Equal(t, int64(0), indexCalls.Load(), "index should not be fetched for skipped docsets")

		// The placeholder file is untouched.
		content, err := os.ReadFile(existing)
		require.NoError(t, err)
		assert.Equal(t, "previous run", string(content))
	})

	t.Run("fails fast on an invalid format string", func(t *testing.T) {
		t.Parallel()

		client := testClient()
		var cssCalls atomic.Int64
		client.ApplicationCSSFn = func(_ context.Context) (string, error) {
			cssCalls.Add(1)
			return "", nil
		}

		g := testGenerator(t, client)
		g.Config.TitleFormat = "{bogus}"

		_, err := g.Run(context.Background(), nil)

		require.Error(t, err)
		assert.Equal(t, docpack.EINVALID, docpack.ErrorCode(err))
		assert.Equal(t, int64(0), cssCalls.Load(), "nothing should be fetched after a format error")
	})

	t.Run("does nothing when no docsets are published", func(t *testing.T) {
		t.Parallel()

		client := testClient()
		client.ListDocsFn = func(_ context.Context) ([]docpack.Metadata, error) {
			return nil, nil
		}

		g := testGenerator(t, client)

		result, err := g.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Built)
		assert.Empty(t, result.Paths)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		g := testGenerator(t, testClient())

		var events []build.ProgressEvent
		_, err := g.Run(context.Background(), func(event build.ProgressEvent) {
			events = append(events, event)
		})
		require.NoError(t, err)

		require.NotEmpty(t, events)
		assert.Equal(t, build.ProgressStarted, events[0].Type)
		assert.Equal(t, 1, events[0].Total)
		assert.Equal(t, build.ProgressFinished, events[len(events)-1].Type)

		var pages, completed int
		for _, event := range events {
			switch event.Type {
			case build.ProgressPage:
				pages++
				assert.Equal(t, "mockdoc", event.Slug)
			case build.ProgressCompleted:
				completed++
			}
		}
		assert.Equal(t, 3, pages)
		assert.Equal(t, 1, completed)
	})

	t.Run("records built docsets in the search index", func(t *testing.T) {
		t.Parallel()

		var recorded *docpack.Docset
		var entries []*docpack.Entry
		docsets := &mock.DocsetIndex{
			CreateDocsetFn: func(_ context.Context, docset *docpack.Docset) error {
				docset.ID = "docset-1"
				recorded = docset
				return nil
			},
			CreateEntriesFn: func(_ context.Context, batch []*docpack.Entry) error {
				entries = batch
				return nil
			},
		}

		g := testGenerator(t, testClient())
		g.Docsets = docsets

		result, err := g.Run(context.Background(), nil)
		require.NoError(t, err)

		require.NotNil(t, recorded)
		assert.Equal(t, "mockdoc", recorded.Slug)
		assert.Equal(t, "MockDoc", recorded.Title)
		assert.Equal(t, result.Paths[0], recorded.Path)
		assert.Equal(t, 3, recorded.Pages)

		require.Len(t, entries, 2)
		assert.Equal(t, "docset-1", entries[0].DocsetID)
		assert.Equal(t, "Mock Entry", entries[0].Name)
		assert.Equal(t, "Mock Header", entries[0].Section)
		assert.Equal(t, 0, entries[0].Position)
		assert.Equal(t, "Missing Entry", entries[1].Name)
		assert.Equal(t, 1, entries[1].Position)
	})

	t.Run("builds docsets concurrently", func(t *testing.T) {
		t.Parallel()

		client := testClient()
		client.ListDocsFn = func(_ context.Context) ([]docpack.Metadata, error) {
			return []docpack.Metadata{
				{Name: "MockDoc", Slug: "mockdoc"},
				{Name: "OtherDoc", Slug: "otherdoc"},
			}, nil
		}

		g := testGenerator(t, client)
		g.Concurrency = 2

		result, err := g.Run(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Built)
		require.Len(t, result.Paths, 2)
		assert.Equal(t, filepath.Join(g.OutputDir, "devdocs_mockdoc.docpack"), result.Paths[0])
		assert.Equal(t, filepath.Join(g.OutputDir, "devdocs_otherdoc.docpack"), result.Paths[1])
	})
}

func TestGenerator_PageTitles(t *testing.T) {
	t.Parallel()

	// runWith builds an archive for a docset with the given index entries
	// and database and returns the opened archive.
	runWith := func(t *testing.T, entries []docpack.IndexEntry, db map[string]string) *zip.Reader {
		t.Helper()

		client := testClient()
		client.IndexFn = func(_ context.Context, slug string) (*docpack.Index, error) {
			return &docpack.Index{
				Entries: entries,
				Types:   []docpack.IndexType{{Name: "Mock Header", Count: len(entries), Slug: "headers"}},
			}, nil
		}
		client.DBFn = func(_ context.Context, slug string) (map[string]string, error) {
			return db, nil
		}

		g := testGenerator(t, client)
		result, err := g.Run(context.Background(), nil)
		require.NoError(t, err)
		return openArchive(t, result.Paths[0])
	}

	itemTitle := func(t *testing.T, r *zip.Reader, path string) string {
		t.Helper()
		for _, item := range r.Items() {
			if item.Path == path {
				return item.Title
			}
		}
		t.Fatalf("item %q not found in archive", path)
		return ""
	}

	t.Run("an entry without a fragment names the page", func(t *testing.T) {
		t.Parallel()

		r := runWith(t, []docpack.IndexEntry{
			{Name: "Mock Sub1", Path: "mock#subheading1", Type: "Mock Header"},
			{Name: "Mock Top", Path: "mock", Type: "Mock Header"},
			{Name: "Mock Sub2", Path: "mock#subheading2", Type: "Mock Header"},
		}, map[string]string{"mock": "Mock Value"})

		assert.Equal(t, "Mock Top", itemTitle(t, r, "mock"))
	})

	t.Run("the first fragment wins if no entry opens the top", func(t *testing.T) {
		t.Parallel()

		r := runWith(t, []docpack.IndexEntry{
			{Name: "Mock Sub1", Path: "mock#subheading1", Type: "Mock Header"},
			{Name: "Mock Sub2", Path: "mock#subheading2", Type: "Mock Header"},
		}, map[string]string{"mock": "Mock Value"})

		assert.Equal(t, "Mock Sub1", itemTitle(t, r, "mock"))
	})

	t.Run("unindexed database pages take their title from their content", func(t *testing.T) {
		t.Parallel()

		r := runWith(t, []docpack.IndexEntry{
			{Name: "Mock Entry", Path: "mock-entry", Type: "Mock Header"},
		}, map[string]string{
			"mock-entry": "Entry Value",
			"extra":      "<h1>Extra Title</h1><p>More content.</p>",
		})

		assert.Equal(t, "Extra Title", itemTitle(t, r, "extra"))
	})
}

func TestGenerator_RelativePrefix(t *testing.T) {
	t.Parallel()

	t.Run("nested pages resolve root links with a relative prefix", func(t *testing.T) {
		t.Parallel()

		client := testClient()
		client.IndexFn = func(_ context.Context, slug string) (*docpack.Index, error) {
			return &docpack.Index{
				Entries: []docpack.IndexEntry{
					{Name: "Intro", Path: "guide/deep/intro", Type: "Mock Header"},
				},
				Types: []docpack.IndexType{{Name: "Mock Header", Count: 1, Slug: "headers"}},
			}, nil
		}
		client.DBFn = func(_ context.Context, slug string) (map[string]string, error) {
			return map[string]string{"guide/deep/intro": "Intro Value"}, nil
		}

		g := testGenerator(t, client)
		result, err := g.Run(context.Background(), nil)
		require.NoError(t, err)

		r := openArchive(t, result.Paths[0])
		content, _, err := r.Item("guide/deep/intro")
		require.NoError(t, err)

		root, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
		require.NoError(t, err)

		href, _ := root.Find("link[rel=stylesheet]").Attr("href")
		assert.Equal(t, "../../application.css", href)
		listing, _ := root.Find("._sidebar").Attr("data-listing")
		assert.Equal(t, "../../navigation.json", listing)
	})
}
