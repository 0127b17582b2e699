// Package nav renders the navigation sidebar embedded in generated
// documentation pages.
//
// The sidebar is driven by a listing document fetched at view time
// rather than baked into every page. A Widget moves through a small
// state machine: it mounts by fetching the listing exactly once, then
// resolves the current page to a selected node and derives a display
// tree on demand. User interaction mutates widget state; every Render
// call derives fresh output from current state, so callers re-render
// after each event instead of patching previous output.
package nav
