package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmendel/docpack"
)

// Ensure LoggingClient implements docpack.Client.
var _ docpack.Client = (*LoggingClient)(nil)

// LoggingClient wraps a Client with operation logging.
type LoggingClient struct {
	next   docpack.Client
	logger *slog.Logger
}

// NewLoggingClient creates a new LoggingClient.
func NewLoggingClient(next docpack.Client, logger *slog.Logger) *LoggingClient {
	return &LoggingClient{next: next, logger: logger}
}

// ListDocs delegates to the wrapped client and logs the operation.
func (c *LoggingClient) ListDocs(ctx context.Context) (docs []docpack.Metadata, err error) {
	defer func(begin time.Time) {
		c.logger.Info("list docs",
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.ListDocs(ctx)
}

// Index delegates to the wrapped client and logs the operation.
func (c *LoggingClient) Index(ctx context.Context, slug string) (index *docpack.Index, err error) {
	defer func(begin time.Time) {
		entries := 0
		if index != nil {
			entries = len(index.Entries)
		}
		c.logger.Info("fetch index",
			"slug", slug,
			"entries", entries,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Index(ctx, slug)
}

// Meta delegates to the wrapped client and logs the operation.
func (c *LoggingClient) Meta(ctx context.Context, slug string) (meta *docpack.Metadata, err error) {
	defer func(begin time.Time) {
		c.logger.Info("fetch meta",
			"slug", slug,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Meta(ctx, slug)
}

// DB delegates to the wrapped client and logs the operation.
func (c *LoggingClient) DB(ctx context.Context, slug string) (pages map[string]string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("fetch db",
			"slug", slug,
			"pages", len(pages),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.DB(ctx, slug)
}

// ApplicationCSS delegates to the wrapped client and logs the operation.
func (c *LoggingClient) ApplicationCSS(ctx context.Context) (css string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("fetch stylesheet",
			"bytes", len(css),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.ApplicationCSS(ctx)
}
