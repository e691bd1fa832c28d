package ingest

import (
	"context"
	"log/slog"
	"time"

	"bookdex"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchNextWithRetry fetches the next batch from a source, retrying
// transient failures with backoff. A nil delays slice uses
// DefaultRetryDelays; pass an empty slice to disable retries. Exhaustion
// is not a failure and is returned as-is.
func FetchNextWithRetry(ctx context.Context, src bookdex.Source, cursor string, delays []time.Duration, logger *slog.Logger) ([]bookdex.RawRecord, string, bool, error) {
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		records, next, exhausted, err := src.FetchNext(ctx, cursor)
		if err == nil {
			return records, next, exhausted, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger.Warn("retrying fetch",
				"source", src.Name(),
				"cursor", cursor,
				"attempt", attempt+2,
				"err", err,
			)
		}

		select {
		case <-ctx.Done():
			return nil, "", false, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, "", false, lastErr
}
