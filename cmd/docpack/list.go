package main

import (
	"fmt"

	"github.com/jmendel/docpack"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	docs, err := deps.Client.ListDocs(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	if c.First > 0 {
		filter := docpack.Filter{First: c.First}
		if docs, err = filter.Apply(docs); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
			return err
		}
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "The deployment has no published docsets.")
		return nil
	}

	for _, d := range docs {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", d.Slug, d.FullName())
	}

	return nil
}
