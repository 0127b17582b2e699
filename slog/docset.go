package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmendel/docpack"
)

// Ensure LoggingDocsetIndex implements docpack.DocsetIndex.
var _ docpack.DocsetIndex = (*LoggingDocsetIndex)(nil)

// LoggingDocsetIndex wraps a DocsetIndex with operation logging.
type LoggingDocsetIndex struct {
	next   docpack.DocsetIndex
	logger *slog.Logger
}

// NewLoggingDocsetIndex creates a new LoggingDocsetIndex.
func NewLoggingDocsetIndex(next docpack.DocsetIndex, logger *slog.Logger) *LoggingDocsetIndex {
	return &LoggingDocsetIndex{next: next, logger: logger}
}

// CreateDocset delegates to the wrapped index and logs the operation.
func (s *LoggingDocsetIndex) CreateDocset(ctx context.Context, docset *docpack.Docset) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create docset",
			"slug", docset.Slug,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateDocset(ctx, docset)
}

// FindDocsetByID delegates to the wrapped index and logs the operation.
func (s *LoggingDocsetIndex) FindDocsetByID(ctx context.Context, id string) (docset *docpack.Docset, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find docset",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocsetByID(ctx, id)
}

// FindDocsets delegates to the wrapped index and logs the operation.
func (s *LoggingDocsetIndex) FindDocsets(ctx context.Context, filter docpack.DocsetFilter) (docsets []*docpack.Docset, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find docsets",
			"count", len(docsets),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocsets(ctx, filter)
}

// CreateEntries delegates to the wrapped index and logs the operation.
func (s *LoggingDocsetIndex) CreateEntries(ctx context.Context, entries []*docpack.Entry) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create entries",
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateEntries(ctx, entries)
}

// SearchEntries delegates to the wrapped index and logs the operation.
func (s *LoggingDocsetIndex) SearchEntries(ctx context.Context, filter docpack.EntryFilter) (entries []*docpack.Entry, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search entries",
			"match", filter.Match,
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SearchEntries(ctx, filter)
}

// DeleteDocset delegates to the wrapped index and logs the operation.
func (s *LoggingDocsetIndex) DeleteDocset(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete docset",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteDocset(ctx, id)
}
