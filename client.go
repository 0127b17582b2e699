package docpack

import "context"

// Client reads documentation sets from a DevDocs deployment.
type Client interface {
	// ListDocs lists the documentation sets the deployment has
	// published, in UI order.
	ListDocs(ctx context.Context) ([]Metadata, error)

	// Index fetches the entries and headings that make up a docset's
	// navigation sidebar.
	Index(ctx context.Context, slug string) (*Index, error)

	// Meta fetches metadata for a single docset. Prefer ListDocs where
	// possible because its records carry attribution.
	Meta(ctx context.Context, slug string) (*Metadata, error)

	// DB fetches the docset's page database keyed by path.
	DB(ctx context.Context, slug string) (map[string]string, error)

	// ApplicationCSS fetches the stylesheet that normalizes page
	// content across docsets.
	ApplicationCSS(ctx context.Context) (string, error)
}
