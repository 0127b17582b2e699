package nav

import (
	"fmt"
	"html"
	"strings"

	"github.com/jmendel/docpack"
)

// Link is a single rendered navigation entry.
type Link struct {
	// ID is the entry's structural identifier, empty for the license
	// link.
	ID string
	// Name is the display label.
	Name string
	// Href is the prefixed link target, empty for unlinkable entries.
	Href string
	// Active marks the entry as the current selection.
	Active bool
}

// Section is a rendered group of page links.
type Section struct {
	ID    string
	Name  string
	Open  bool
	Pages []Link
}

// Tree is the fully derived sidebar for one render pass.
type Tree struct {
	Root     Link
	Version  string
	Sections []Section
	License  Link
}

// Render derives a display tree from the listing, the current selection
// and the section state. It is a pure function of its inputs: callers
// invoke it again after every mutation instead of patching the previous
// tree. Every href is rewritten with prefix, the license link renders
// last, and sections with no pages still render as empty groups.
func Render(listing *docpack.Listing, selection string, state *SectionState, prefix string) *Tree {
	t := &Tree{
		Root: Link{
			ID:     RootID,
			Name:   listing.Name,
			Href:   prefix + listing.LandingHref,
			Active: selection == RootID,
		},
		Version: listing.Version,
		License: Link{
			Name: "Licenses",
			Href: prefix + listing.LicenseHref,
		},
	}

	for i, section := range listing.Children {
		sec := Section{
			ID:    SectionID(i),
			Name:  section.Name,
			Pages: make([]Link, 0, len(section.Children)),
		}

		hasSelectedChild := false
		for j, page := range section.Children {
			id := PageID(i, j)
			active := id == selection
			if active {
				hasSelectedChild = true
			}
			href := ""
			if page.Href != "" {
				href = prefix + page.Href
			}
			sec.Pages = append(sec.Pages, Link{
				ID:     id,
				Name:   page.Name,
				Href:   href,
				Active: active,
			})
		}

		sec.Open = state.IsOpen(sec.ID, hasSelectedChild)
		t.Sections = append(t.Sections, sec)
	}

	return t
}

// HTML renders the tree as a block-level fragment for embedding in page
// chrome. The class names (_sidebar, _list, _list-sub, _list-item,
// _list-dir, _list-count, open, active) match the shared DevDocs
// stylesheet and are part of the embedding contract. Section headers
// carry data-section and page links data-id so the embedding page can
// wire toggle and activation handlers.
func (t *Tree) HTML() string {
	var b strings.Builder

	b.WriteString(`<nav class="_sidebar">` + "\n")
	b.WriteString(`<div class="_list">` + "\n")

	fmt.Fprintf(&b, `<a class="%s" href="%s" data-id="%s">%s`,
		classes("_list-item", t.Root.Active),
		html.EscapeString(t.Root.Href),
		html.EscapeString(t.Root.ID),
		html.EscapeString(t.Root.Name))
	if t.Version != "" {
		fmt.Fprintf(&b, ` <span class="_list-count">%s</span>`, html.EscapeString(t.Version))
	}
	b.WriteString("</a>\n")

	for _, sec := range t.Sections {
		dirClass := "_list-item _list-dir"
		if sec.Open {
			dirClass += " open"
		}
		fmt.Fprintf(&b, `<a class="%s" data-section="%s">%s<span class="_list-count">%d</span></a>`+"\n",
			dirClass,
			html.EscapeString(sec.ID),
			html.EscapeString(sec.Name),
			len(sec.Pages))

		if !sec.Open {
			continue
		}

		b.WriteString(`<div class="_list _list-sub">` + "\n")
		for _, p := range sec.Pages {
			if p.Href == "" {
				fmt.Fprintf(&b, `<span class="%s" data-id="%s">%s</span>`+"\n",
					classes("_list-item", p.Active),
					html.EscapeString(p.ID),
					html.EscapeString(p.Name))
				continue
			}
			fmt.Fprintf(&b, `<a class="%s" href="%s" data-id="%s">%s</a>`+"\n",
				classes("_list-item", p.Active),
				html.EscapeString(p.Href),
				html.EscapeString(p.ID),
				html.EscapeString(p.Name))
		}
		b.WriteString("</div>\n")
	}

	fmt.Fprintf(&b, `<a class="_list-item" href="%s">%s</a>`+"\n",
		html.EscapeString(t.License.Href),
		html.EscapeString(t.License.Name))

	b.WriteString("</div>\n</nav>\n")
	return b.String()
}

func classes(base string, active bool) string {
	if active {
		return base + " active"
	}
	return base
}
