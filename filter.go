package docpack

import (
	"regexp"
	"sort"
	"strings"
)

// Filter selects which published documentation sets to convert. Exactly
// one of All, Slugs or First must be set.
type Filter struct {
	// All selects every published docset.
	All bool
	// Slugs selects specific docsets. Each element may be a single slug
	// or a comma separated list of slugs.
	Slugs []string
	// First selects the first N docsets for each slug-without-version,
	// in the order they appear in the DevDocs UI.
	First int
	// SkipSlugRegex skips docsets whose slug matches the expression,
	// anchored at the start of the slug.
	SkipSlugRegex string
}

// SlugList returns the requested slugs with comma separated elements
// expanded.
func (f Filter) SlugList() []string {
	var out []string
	for _, s := range f.Slugs {
		for _, part := range strings.Split(s, ",") {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// skipPattern compiles SkipSlugRegex anchored at the start of the input.
func (f Filter) skipPattern() (*regexp.Regexp, error) {
	if f.SkipSlugRegex == "" {
		return nil, nil
	}
	re, err := regexp.Compile("^(?:" + f.SkipSlugRegex + ")")
	if err != nil {
		return nil, Errorf(EINVALID, "invalid skip slug expression %q: %s", f.SkipSlugRegex, err)
	}
	return re, nil
}

// Validate ensures exactly one selection mode is set and the skip
// expression compiles.
func (f Filter) Validate() error {
	modes := 0
	if f.All {
		modes++
	}
	if len(f.Slugs) > 0 {
		modes++
	}
	if f.First > 0 {
		modes++
	}
	if modes != 1 {
		return Errorf(EINVALID, "exactly one of --all, --slug or --first is required")
	}
	if _, err := f.skipPattern(); err != nil {
		return err
	}
	return nil
}

// Apply filters docs based on the user's choices, preserving listing
// order. Returns ENOTFOUND if a requested slug is not in docs.
func (f Filter) Apply(docs []Metadata) ([]Metadata, error) {
	skip, err := f.skipPattern()
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool)
	for _, s := range f.SlugList() {
		want[s] = true
	}

	var selected []Metadata
	countBySlug := make(map[string]int)
	for _, m := range docs {
		if skip != nil && skip.MatchString(m.Slug) {
			continue
		}
		switch {
		case len(f.Slugs) > 0:
			if want[m.Slug] {
				selected = append(selected, m)
			}
		case f.First > 0:
			if countBySlug[m.SlugWithoutVersion()] < f.First {
				selected = append(selected, m)
				countBySlug[m.SlugWithoutVersion()]++
			}
		default:
			selected = append(selected, m)
		}
	}

	if len(f.Slugs) > 0 {
		found := make(map[string]bool)
		for _, m := range selected {
			found[m.Slug] = true
		}
		var missing []string
		for s := range want {
			if !found[s] {
				missing = append(missing, s)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return nil, Errorf(ENOTFOUND, "unable to find documents with the following slugs: %s",
				strings.Join(missing, ", "))
		}
	}

	return selected, nil
}
