package docpack

// ListingPage is a single navigable page in the sidebar.
type ListingPage struct {
	// Display name of the page e.g. "Introduction".
	Name string `json:"name"`

	// Link to the page, relative to the archive root. May carry a
	// fragment identifier.
	Href string `json:"href"`
}

// ListingSection groups pages under a heading in the sidebar.
type ListingSection struct {
	// Display name of the section e.g. "Tutorials".
	Name string `json:"name"`

	// Pages in the section.
	Children []ListingPage `json:"children"`
}

// Listing is the navigation document embedded in every archive. Viewers
// fetch it once per page load to draw the sidebar.
type Listing struct {
	// Display name of the docset e.g. "Lua".
	Name string `json:"name"`

	// Link to the docset's landing page.
	LandingHref string `json:"landingHref"`

	// Link to the license and attribution page.
	LicenseHref string `json:"licenseHref"`

	// Version information to display next to the name.
	Version string `json:"version"`

	// Sections to show.
	Children []ListingSection `json:"children"`
}

// BuildListing assembles the navigation document for a docset from its
// metadata and index.
func BuildListing(meta Metadata, index *Index) *Listing {
	sections := index.BuildNavigation()
	children := make([]ListingSection, 0, len(sections))
	for _, s := range sections {
		pages := make([]ListingPage, 0, len(s.Links))
		for _, l := range s.Links {
			pages = append(pages, ListingPage{Name: l.Name, Href: l.Path})
		}
		children = append(children, ListingSection{Name: s.Name, Children: pages})
	}
	return &Listing{
		Name:        meta.Name,
		LandingHref: LandingPage,
		LicenseHref: LicensePage,
		Version:     meta.Version,
		Children:    children,
	}
}
