package main

import (
	"fmt"
	"path/filepath"

	"github.com/jmendel/docpack"
	"github.com/jmendel/docpack/build"
	"github.com/jmendel/docpack/zip"
)

// catalogFile is the Kiwix-style library file regenerated after a build.
const catalogFile = "library.xml"

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	filter := docpack.Filter{
		All:           c.All,
		Slugs:         c.Slug,
		First:         c.First,
		SkipSlugRegex: c.SkipSlugRegex,
	}
	if err := filter.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	generator := &build.Generator{
		Client: deps.Client,
		Config: docpack.ArchiveConfig{
			NameFormat:            c.NameFormat,
			TitleFormat:           c.TitleFormat,
			Publisher:             c.Publisher,
			Creator:               c.Creator,
			DescriptionFormat:     c.DescriptionFormat,
			LongDescriptionFormat: c.LongDescriptionFormat,
			Tags:                  c.Tags,
		},
		Filter:    filter,
		OutputDir: c.Output,
		NewWriter: func(path string, meta docpack.ArchiveMeta) (docpack.ArchiveWriter, error) {
			return zip.NewWriter(path, meta)
		},
		Docsets:     deps.Docsets,
		CatalogPath: filepath.Join(c.Output, catalogFile),
		Concurrency: c.Concurrency,
		Logger:      deps.Logger,
	}

	reporter := newReporter(deps.Stderr, c.NoProgress)
	result, err := generator.Run(deps.Ctx, reporter.handle)
	reporter.close()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Built %d archives (%d pages) in %s\n", result.Built, result.Pages, c.Output)
	if result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, "Skipped %d archives that already existed\n", result.Skipped)
	}
	return nil
}
