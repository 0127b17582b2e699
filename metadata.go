package docpack

import (
	"regexp"
	"strings"
	"time"
)

// MetadataLinks holds external links for a documentation set.
type MetadataLinks struct {
	// Home page for the project.
	Home string `json:"home,omitempty"`
	// Link to the project's source code.
	Code string `json:"code,omitempty"`
}

// Metadata describes a documentation set as published in a DevDocs
// deployment's document listing.
type Metadata struct {
	// Human readable name for the documentation.
	Name string `json:"name"`
	// Directory name DevDocs puts the docs under. Takes the format
	// name[~version] e.g. "python" or "python~3.13".
	Slug string `json:"slug"`
	// Links to project resources, if any.
	Links *MetadataLinks `json:"links,omitempty"`
	// Shortened version displayed in DevDocs, if any. Second part of the slug.
	Version string `json:"version,omitempty"`
	// Specific release of the software the documentation is for, if any.
	Release string `json:"release,omitempty"`
	// License and attribution information, if any.
	Attribution string `json:"attribution,omitempty"`
}

// Validate returns an error if required fields are missing.
func (m *Metadata) Validate() error {
	if m.Name == "" {
		return Errorf(EINVALID, "metadata name is required")
	}
	if m.Slug == "" {
		return Errorf(EINVALID, "metadata slug is required")
	}
	return nil
}

// SlugWithoutVersion returns the slug with any ~version suffix removed.
func (m *Metadata) SlugWithoutVersion() string {
	return strings.SplitN(m.Slug, "~", 2)[0]
}

// FullName returns the name with the version appended when one is set.
func (m *Metadata) FullName() string {
	if m.Version == "" {
		return m.Name
	}
	return m.Name + " " + m.Version
}

// nonSlugChars matches characters that are unsafe in file names.
var nonSlugChars = regexp.MustCompile(`[^.a-zA-Z0-9]`)

// CleanSlug returns the slug with file-name-unsafe characters replaced
// by hyphens.
func (m *Metadata) CleanSlug() string {
	return nonSlugChars.ReplaceAllString(m.Slug, "-")
}

// Placeholders returns the substitution values available to archive format
// strings. The set mirrors what the DevDocs frontend exposes, plus a
// {period} stamp derived from now.
func (m *Metadata) Placeholders(now time.Time) map[string]string {
	var homeLink, codeLink string
	if m.Links != nil {
		homeLink = m.Links.Home
		codeLink = m.Links.Code
	}
	return map[string]string{
		"name":                 m.Name,
		"full_name":            m.FullName(),
		"slug":                 m.Slug,
		"clean_slug":           m.CleanSlug(),
		"version":              m.Version,
		"release":              m.Release,
		"attribution":          m.Attribution,
		"home_link":            homeLink,
		"code_link":            codeLink,
		"slug_without_version": m.SlugWithoutVersion(),
		"period":               now.Format("2006-01"),
	}
}
