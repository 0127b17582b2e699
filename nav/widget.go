package nav

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"github.com/jmendel/docpack"
)

// State identifies where a widget is in its lifecycle.
type State int

const (
	// StateLoading is the initial state before Mount completes.
	StateLoading State = iota
	// StateError is terminal: the listing could not be loaded.
	StateError
	// StateReady means the listing loaded and the widget renders.
	StateReady
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateReady:
		return "ready"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Config carries the external inputs a widget needs at mount.
type Config struct {
	// ListingURL is the address of the listing resource.
	ListingURL string

	// Path is the current page's path relative to the content root, as
	// it appears in generated hrefs. It never carries a fragment.
	Path string

	// Fragment is the current in-page fragment identifier without the
	// leading '#', if any.
	Fragment string

	// Prefix is applied to every rendered href.
	Prefix string

	// HTTPClient overrides the client used for the single listing
	// fetch. Defaults to http.DefaultClient, which carries no timeout;
	// a hung fetch leaves the widget loading.
	HTTPClient *http.Client
}

// Widget reconciles navigation state for a single page view. An
// instance fetches its listing once, resolves the current page to a
// selected node, and answers toggle and activation events until it is
// discarded. It is not safe for concurrent use; confine an instance to
// one goroutine the way a browser confines it to one event loop.
type Widget struct {
	cfg Config

	state    State
	errMsg   string
	listing  *docpack.Listing
	lookup   Lookup
	hrefByID map[string]string
	selected string
	sections *SectionState
}

// New returns a widget in the loading state.
func New(cfg Config) *Widget {
	return &Widget{
		cfg:      cfg,
		sections: NewSectionState(),
	}
}

// Mount performs the widget's single listing fetch and resolves the
// initial selection. A load failure moves the widget to its terminal
// error state; the error is also returned so callers can log it, but
// the widget never retries. Mounting twice is an error and leaves
// state untouched.
func (w *Widget) Mount(ctx context.Context) error {
	if w.state != StateLoading {
		return docpack.Errorf(docpack.EINVALID, "widget already mounted")
	}

	listing, err := Load(ctx, w.cfg.HTTPClient, w.cfg.ListingURL)
	if err != nil {
		w.state = StateError
		w.errMsg = docpack.ErrorMessage(err)
		return err
	}

	w.listing = listing
	w.lookup = BuildLookup(listing)
	w.hrefByID = hrefsByID(listing)
	w.selected = Resolve(w.lookup, w.cfg.Path, w.cfg.Fragment)
	w.state = StateReady
	return nil
}

// hrefsByID maps structural ids back to raw hrefs for Activate.
func hrefsByID(listing *docpack.Listing) map[string]string {
	m := map[string]string{RootID: listing.LandingHref}
	for i, section := range listing.Children {
		for j, page := range section.Children {
			m[PageID(i, j)] = page.Href
		}
	}
	return m
}

// State reports the widget's lifecycle state.
func (w *Widget) State() State {
	return w.state
}

// ErrorMessage returns the load failure message, or "" before any
// failure.
func (w *Widget) ErrorMessage() string {
	return w.errMsg
}

// Selection returns the selected structural id, or "" when nothing is
// highlighted.
func (w *Widget) Selection() string {
	return w.selected
}

// Listing returns the loaded listing, nil unless ready.
func (w *Widget) Listing() *docpack.Listing {
	return w.listing
}

// ToggleSection flips the displayed disclosure of the section with the
// given id. Unknown ids are ignored.
func (w *Widget) ToggleSection(id string) {
	if w.state != StateReady {
		return
	}
	for i := range w.listing.Children {
		if SectionID(i) == id {
			w.sections.Toggle(id, w.displayedOpen(i, id))
			return
		}
	}
}

// displayedOpen computes what Render currently shows for section i.
func (w *Widget) displayedOpen(i int, id string) bool {
	hasSelectedChild := false
	for j := range w.listing.Children[i].Children {
		if PageID(i, j) == w.selected {
			hasSelectedChild = true
			break
		}
	}
	return w.sections.IsOpen(id, hasSelectedChild)
}

// Activate records the selection for an activated link before any
// navigation happens, so the next render already carries the new
// highlight. It reports whether the embedding page should suppress the
// default navigation, which is the case when the link's rewritten href
// equals the rewritten href of the page currently displayed: reloading
// the same document would throw away scroll position for nothing.
func (w *Widget) Activate(id string) bool {
	if w.state != StateReady {
		return false
	}
	w.selected = id

	href, ok := w.hrefByID[id]
	if !ok || href == "" {
		return false
	}
	return w.cfg.Prefix+href == w.cfg.Prefix+w.cfg.Path
}

// Render derives the current display tree. Returns nil unless ready.
func (w *Widget) Render() *Tree {
	if w.state != StateReady {
		return nil
	}
	return Render(w.listing, w.selected, w.sections, w.cfg.Prefix)
}

// HTML returns the widget's embeddable markup for its current state: a
// placeholder while loading, the failure message in place of the tree
// after a load error, or the rendered tree when ready.
func (w *Widget) HTML() string {
	switch w.state {
	case StateError:
		return `<nav class="_sidebar"><div class="_list-error">` +
			html.EscapeString(w.errMsg) + "</div></nav>\n"
	case StateReady:
		return w.Render().HTML()
	default:
		return `<nav class="_sidebar"><div class="_list-loading">Loading…</div></nav>` + "\n"
	}
}
