// Package mock provides mock implementations of docpack service
// interfaces for testing.
package mock

import (
	"context"

	"github.com/jmendel/docpack"
)

var _ docpack.Client = (*Client)(nil)

// Client is a mock implementation of docpack.Client.
type Client struct {
	ListDocsFn       func(ctx context.Context) ([]docpack.Metadata, error)
	IndexFn          func(ctx context.Context, slug string) (*docpack.Index, error)
	MetaFn           func(ctx context.Context, slug string) (*docpack.Metadata, error)
	DBFn             func(ctx context.Context, slug string) (map[string]string, error)
	ApplicationCSSFn func(ctx context.Context) (string, error)
}

func (c *Client) ListDocs(ctx context.Context) ([]docpack.Metadata, error) {
	return c.ListDocsFn(ctx)
}

func (c *Client) Index(ctx context.Context, slug string) (*docpack.Index, error) {
	return c.IndexFn(ctx, slug)
}

func (c *Client) Meta(ctx context.Context, slug string) (*docpack.Metadata, error) {
	return c.MetaFn(ctx, slug)
}

func (c *Client) DB(ctx context.Context, slug string) (map[string]string, error) {
	return c.DBFn(ctx, slug)
}

func (c *Client) ApplicationCSS(ctx context.Context) (string, error) {
	return c.ApplicationCSSFn(ctx)
}
