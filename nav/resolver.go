package nav

import (
	"fmt"

	"github.com/jmendel/docpack"
)

// RootID is the synthetic identifier for the landing entry. It is
// distinct from every section and page identifier.
const RootID = "root"

// SectionID returns the structural identifier for the section at index i.
// Identifiers are positional so they come out identical every time the
// same listing is processed.
func SectionID(i int) string {
	return fmt.Sprintf("s%d", i)
}

// PageID returns the structural identifier for page j of section i.
func PageID(i, j int) string {
	return fmt.Sprintf("s%d.p%d", i, j)
}

// Lookup maps hrefs to structural identifiers.
type Lookup map[string]string

// BuildLookup indexes a listing's hrefs by traversing sections in order,
// then pages within each section in order. The landing href is bound to
// RootID. When an href appears more than once the earliest entry keeps
// it. Empty hrefs are not indexed.
func BuildLookup(listing *docpack.Listing) Lookup {
	l := make(Lookup)
	if listing.LandingHref != "" {
		l[listing.LandingHref] = RootID
	}
	for i, section := range listing.Children {
		for j, page := range section.Children {
			if page.Href == "" {
				continue
			}
			if _, ok := l[page.Href]; !ok {
				l[page.Href] = PageID(i, j)
			}
		}
	}
	return l
}

// Resolve maps the current location to a structural identifier. A
// fragment-qualified match ("path#fragment") takes precedence over a
// plain path match. Returns "" when nothing matches.
func Resolve(l Lookup, path, fragment string) string {
	if fragment != "" {
		if id, ok := l[path+"#"+fragment]; ok {
			return id
		}
	}
	if id, ok := l[path]; ok {
		return id
	}
	return ""
}
