// Package docpack turns DevDocs documentation sets into self-contained
// offline archives. It fetches a deployment's document listing, index and
// page database, renders each page with a navigation sidebar, and packs
// the result into a portable archive with a searchable local catalog.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., devdocs/, sqlite/, zip/).
package docpack

// Name identifies the scraper in archive metadata.
const Name = "docpack"

// Version is the scraper version recorded in archive metadata.
const Version = "0.4.0"

// LandingPage is the path archives open on.
const LandingPage = "index"

// LicensePage is the path of the generated license and attribution page.
const LicensePage = "licenses.txt"

// ListingFile is the path of the navigation document viewers fetch to
// draw the sidebar. Pages have no file extension, so the name cannot
// collide with page content.
const ListingFile = "navigation.json"

// ArchiveExt is the file extension of generated archives.
const ArchiveExt = ".docpack"
