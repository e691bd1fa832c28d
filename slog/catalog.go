// Package slog provides log/slog decorators for the core services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"bookdex"
)

// Ensure LoggingCatalog implements bookdex.CatalogService.
var _ bookdex.CatalogService = (*LoggingCatalog)(nil)

// LoggingCatalog wraps a CatalogService with operation logging.
type LoggingCatalog struct {
	next   bookdex.CatalogService
	logger *slog.Logger
}

// NewLoggingCatalog creates a new LoggingCatalog.
func NewLoggingCatalog(next bookdex.CatalogService, logger *slog.Logger) *LoggingCatalog {
	return &LoggingCatalog{next: next, logger: logger}
}

// InsertIfAbsent delegates to the wrapped catalog and logs the outcome.
func (c *LoggingCatalog) InsertIfAbsent(ctx context.Context, entry *bookdex.Entry) (inserted bool, err error) {
	defer func(begin time.Time) {
		c.logger.Info("catalog insert",
			"title", entry.Title,
			"inserted", inserted,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.InsertIfAbsent(ctx, entry)
}

// InsertBatch delegates to the wrapped catalog and logs the outcome.
func (c *LoggingCatalog) InsertBatch(ctx context.Context, entries []*bookdex.Entry) (inserted int, err error) {
	defer func(begin time.Time) {
		c.logger.Info("catalog insert batch",
			"entries", len(entries),
			"inserted", inserted,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.InsertBatch(ctx, entries)
}

// SampleTitles delegates to the wrapped catalog and logs the outcome.
func (c *LoggingCatalog) SampleTitles(ctx context.Context, limit int) (titles []string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("catalog sample",
			"limit", limit,
			"count", len(titles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.SampleTitles(ctx, limit)
}

// FindByTitle delegates to the wrapped catalog and logs the outcome.
func (c *LoggingCatalog) FindByTitle(ctx context.Context, title string) (entry *bookdex.Entry, err error) {
	defer func(begin time.Time) {
		c.logger.Info("catalog lookup",
			"title", title,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.FindByTitle(ctx, title)
}

// Count delegates to the wrapped catalog.
func (c *LoggingCatalog) Count(ctx context.Context) (int, error) {
	return c.next.Count(ctx)
}
