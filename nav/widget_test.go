package nav_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jmendel/docpack"
	"github.com/jmendel/docpack/nav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountedWidget(t *testing.T, cfg nav.Config) *nav.Widget {
	t.Helper()
	if cfg.ListingURL == "" {
		srv := listingServer(t, testListing())
		cfg.ListingURL = srv.URL + "/navigation.json"
		cfg.HTTPClient = srv.Client()
	}
	w := nav.New(cfg)
	require.NoError(t, w.Mount(context.Background()))
	require.Equal(t, nav.StateReady, w.State())
	return w
}

func TestWidget_Mount(t *testing.T) {
	t.Parallel()

	t.Run("starts loading and becomes ready", func(t *testing.T) {
		t.Parallel()

		srv := listingServer(t, testListing())
		w := nav.New(nav.Config{ListingURL: srv.URL, HTTPClient: srv.Client()})

		assert.Equal(t, nav.StateLoading, w.State())
		assert.Nil(t, w.Render())

		require.NoError(t, w.Mount(context.Background()))

		assert.Equal(t, nav.StateReady, w.State())
		assert.NotNil(t, w.Listing())
	})

	t.Run("resolves the selection from path and fragment", func(t *testing.T) {
		t.Parallel()

		w := mountedWidget(t, nav.Config{Path: "tutorial", Fragment: "intro"})

		assert.Equal(t, "s0.p1", w.Selection())
	})

	t.Run("leaves the selection empty when nothing matches", func(t *testing.T) {
		t.Parallel()

		w := mountedWidget(t, nav.Config{Path: "missing"})

		assert.Empty(t, w.Selection())
	})

	t.Run("fetches the listing exactly once", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			require.NoError(t, json.NewEncoder(w).Encode(testListing()))
		}))
		t.Cleanup(srv.Close)

		w := nav.New(nav.Config{ListingURL: srv.URL, HTTPClient: srv.Client()})
		require.NoError(t, w.Mount(context.Background()))

		w.ToggleSection("s0")
		w.Activate("s1.p0")
		_ = w.Render()
		_ = w.HTML()

		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("mounting twice is an error and keeps state", func(t *testing.T) {
		t.Parallel()

		w := mountedWidget(t, nav.Config{Path: "tutorial"})

		err := w.Mount(context.Background())

		require.Error(t, err)
		assert.Equal(t, docpack.EINVALID, docpack.ErrorCode(err))
		assert.Equal(t, nav.StateReady, w.State())
		assert.Equal(t, "s0.p0", w.Selection())
	})

	t.Run("a failed fetch is terminal", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		t.Cleanup(srv.Close)

		w := nav.New(nav.Config{ListingURL: srv.URL + "/navigation.json", HTTPClient: srv.Client()})
		err := w.Mount(context.Background())

		require.Error(t, err)
		assert.Equal(t, nav.StateError, w.State())
		assert.Contains(t, w.ErrorMessage(), "HTTP 404")
		assert.Contains(t, w.ErrorMessage(), srv.URL+"/navigation.json")
		assert.Nil(t, w.Render())

		// The error state does not allow a retry.
		require.Error(t, w.Mount(context.Background()))
		assert.Equal(t, nav.StateError, w.State())
	})
}

func TestWidget_ErrorHTML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	w := nav.New(nav.Config{ListingURL: srv.URL + "/navigation.json", HTTPClient: srv.Client()})
	require.Error(t, w.Mount(context.Background()))

	markup := w.HTML()

	assert.Contains(t, markup, "_list-error")
	assert.Contains(t, markup, "HTTP 500")
	assert.NotContains(t, markup, "_list-item")
}

func TestWidget_ToggleSection(t *testing.T) {
	t.Parallel()

	t.Run("closes a structurally open section and reopens it", func(t *testing.T) {
		t.Parallel()

		// The selection sits in s0, so s0 displays open by default.
		w := mountedWidget(t, nav.Config{Path: "tutorial"})
		require.True(t, w.Render().Sections[0].Open)

		w.ToggleSection("s0")
		assert.False(t, w.Render().Sections[0].Open)

		w.ToggleSection("s0")
		assert.True(t, w.Render().Sections[0].Open)
	})

	t.Run("opens a closed section", func(t *testing.T) {
		t.Parallel()

		w := mountedWidget(t, nav.Config{Path: "tutorial"})
		require.False(t, w.Render().Sections[2].Open)

		w.ToggleSection("s2")

		assert.True(t, w.Render().Sections[2].Open)
	})

	t.Run("ignores unknown section ids", func(t *testing.T) {
		t.Parallel()

		w := mountedWidget(t, nav.Config{Path: "tutorial"})

		w.ToggleSection("s9")

		tree := w.Render()
		assert.True(t, tree.Sections[0].Open)
		assert.False(t, tree.Sections[1].Open)
	})
}

func TestWidget_Activate(t *testing.T) {
	t.Parallel()

	t.Run("suppresses navigation to the displayed page and moves the highlight", func(t *testing.T) {
		t.Parallel()

		// s1.p1 ("Tutorial Again") shares the href of the displayed
		// page, so activating it must not trigger a reload even though
		// the lookup owns the href under s0.p0.
		w := mountedWidget(t, nav.Config{Path: "tutorial", Prefix: "../"})

		suppress := w.Activate("s1.p1")

		assert.True(t, suppress)
		assert.Equal(t, "s1.p1", w.Selection())

		tree := w.Render()
		assert.True(t, tree.Sections[1].Pages[1].Active)
		assert.False(t, tree.Sections[0].Pages[0].Active)
	})

	t.Run("allows navigation to a different page", func(t *testing.T) {
		t.Parallel()

		w := mountedWidget(t, nav.Config{Path: "tutorial"})

		suppress := w.Activate("s1.p0")

		assert.False(t, suppress)
		assert.Equal(t, "s1.p0", w.Selection())
	})

	t.Run("allows navigation to a fragment of the displayed page", func(t *testing.T) {
		t.Parallel()

		// tutorial#intro is not byte-equal to tutorial: the browser
		// scrolls instead of reloading, so there is nothing to cancel.
		w := mountedWidget(t, nav.Config{Path: "tutorial"})

		suppress := w.Activate("s0.p1")

		assert.False(t, suppress)
		assert.Equal(t, "s0.p1", w.Selection())
	})

	t.Run("suppresses re-activating the landing page", func(t *testing.T) {
		t.Parallel()

		w := mountedWidget(t, nav.Config{Path: "index"})

		assert.True(t, w.Activate(nav.RootID))
		assert.Equal(t, nav.RootID, w.Selection())
		assert.True(t, w.Render().Root.Active)
	})

	t.Run("the optimistic update lands before the next render", func(t *testing.T) {
		t.Parallel()

		w := mountedWidget(t, nav.Config{Path: "tutorial"})
		require.True(t, w.Render().Sections[0].Pages[0].Active)

		w.Activate("s1.p0")

		tree := w.Render()
		assert.False(t, tree.Sections[0].Pages[0].Active)
		assert.True(t, tree.Sections[1].Pages[0].Active)
		assert.True(t, tree.Sections[1].Open)
	})
}
