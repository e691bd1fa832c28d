package slog

import (
	"context"
	"log/slog"
	"time"

	"bookdex"
)

// Ensure LoggingResolver implements bookdex.Resolver.
var _ bookdex.Resolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a Resolver with operation logging.
type LoggingResolver struct {
	next   bookdex.Resolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next bookdex.Resolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the outcome.
func (r *LoggingResolver) Resolve(ctx context.Context, query string) (title string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("resolve",
			"query", query,
			"title", title,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(ctx, query)
}
