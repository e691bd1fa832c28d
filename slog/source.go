package slog

import (
	"context"
	"log/slog"
	"time"

	"bookdex"
)

// Ensure LoggingSource implements bookdex.Source.
var _ bookdex.Source = (*LoggingSource)(nil)

// LoggingSource wraps a Source with per-batch fetch logging.
type LoggingSource struct {
	next   bookdex.Source
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next bookdex.Source, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// Name delegates to the wrapped source.
func (s *LoggingSource) Name() string {
	return s.next.Name()
}

// FetchNext delegates to the wrapped source and logs the batch.
func (s *LoggingSource) FetchNext(ctx context.Context, cursor string) (records []bookdex.RawRecord, next string, exhausted bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("source fetch",
			"source", s.next.Name(),
			"cursor", cursor,
			"records", len(records),
			"next", next,
			"exhausted", exhausted,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchNext(ctx, cursor)
}
