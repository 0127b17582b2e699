package docpack

import (
	"regexp"
	"strings"
)

// IndexEntry is a link to a page in a docset's navigation index.
type IndexEntry struct {
	// Display name for the entry.
	Name string `json:"name"`

	// Path to the entry in the page database. May contain a fragment
	// identifier e.g. #section that does not exist in the database keys.
	Path string `json:"path"`

	// Name of the type (section) the entry is grouped under. Entries
	// without a type are not displayed.
	Type string `json:"type"`
}

// PathWithoutFragment returns the page database key for the entry's content.
func (e IndexEntry) PathWithoutFragment() string {
	return strings.SplitN(e.Path, "#", 2)[0]
}

// SortPrecedence is where a section is placed in the navigation sidebar.
// Declaration order matches display order.
type SortPrecedence int

const (
	BeforeContent SortPrecedence = iota
	Content
	AfterContent
)

// These expressions are ported from the DevDocs frontend, which has kept
// them stable for years. They match against the start of a section name.
var (
	beforeContentPattern = regexp.MustCompile(`(?i)^\(?(guides?|tutorials?|reference|book|getting started|manual|examples)($|[):])`)
	afterContentPattern  = regexp.MustCompile(`(?i)^appendix`)
)

// IndexType is a section heading in a docset's navigation index.
type IndexType struct {
	// Display name for the section.
	Name string `json:"name"`

	// Number of entries in the section.
	Count int `json:"count"`

	// Section slug. Appears to be unused by DevDocs.
	Slug string `json:"slug"`
}

// SortPrecedence determines where the section is displayed in navigation.
func (t IndexType) SortPrecedence() SortPrecedence {
	if beforeContentPattern.MatchString(t.Name) {
		return BeforeContent
	}
	if afterContentPattern.MatchString(t.Name) {
		return AfterContent
	}
	return Content
}

// Index represents a docset's index.json file: the entries and section
// headings that make up the navigation sidebar.
type Index struct {
	// Links that appear in the navigation sidebar.
	Entries []IndexEntry `json:"entries"`

	// Section headings, displayed in the order they appear grouped by
	// sort precedence.
	Types []IndexType `json:"types"`
}

// NavigationSection is a section heading with its resolved links.
type NavigationSection struct {
	// Display name of the section.
	Name string

	// Links in the section, in index order.
	Links []IndexEntry
}

// Count returns the number of links in the section.
func (s NavigationSection) Count() int {
	return len(s.Links)
}

// ContainsPage reports whether any link in the section resolves to the
// given page database path.
func (s NavigationSection) ContainsPage(path string) bool {
	for _, l := range s.Links {
		if l.PathWithoutFragment() == path {
			return true
		}
	}
	return false
}

// BuildNavigation groups the index's entries under their section headings,
// ordered by sort precedence and then by the order headings appear in the
// index. Entries without a type are dropped. Sections keep their place
// even when no entry references them.
func (idx *Index) BuildNavigation() []NavigationSection {
	byPrecedence := make(map[SortPrecedence][]IndexType)
	for _, t := range idx.Types {
		p := t.SortPrecedence()
		byPrecedence[p] = append(byPrecedence[p], t)
	}

	linksBySection := make(map[string][]IndexEntry)
	for _, e := range idx.Entries {
		if e.Type == "" {
			continue
		}
		linksBySection[e.Type] = append(linksBySection[e.Type], e)
	}

	var out []NavigationSection
	for p := BeforeContent; p <= AfterContent; p++ {
		for _, t := range byPrecedence[p] {
			out = append(out, NavigationSection{
				Name:  t.Name,
				Links: linksBySection[t.Name],
			})
		}
	}
	return out
}
