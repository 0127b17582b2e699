package main

import (
	"fmt"

	"github.com/jmendel/docpack"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	filter := docpack.EntryFilter{Match: c.Query, Limit: c.Limit}

	if c.Docset != "" {
		docsets, err := deps.Docsets.FindDocsets(deps.Ctx, docpack.DocsetFilter{Slug: &c.Docset})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
			return err
		}
		if len(docsets) == 0 {
			fmt.Fprintf(deps.Stderr, "error: docset %q is not in the index. Use 'docpack build' to add it.\n", c.Docset)
			return docpack.Errorf(docpack.ENOTFOUND, "docset %q not found", c.Docset)
		}
		filter.DocsetID = &docsets[0].ID
	}

	entries, err := deps.Docsets.SearchEntries(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintf(deps.Stdout, "No entries match %q.\n", c.Query)
		return nil
	}

	// Resolve docset slugs for display.
	docsets, err := deps.Docsets.FindDocsets(deps.Ctx, docpack.DocsetFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}
	slugByID := make(map[string]string, len(docsets))
	for _, d := range docsets {
		slugByID[d.ID] = d.Slug
	}

	for _, e := range entries {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", slugByID[e.DocsetID], e.Name, e.Path)
	}

	return nil
}
