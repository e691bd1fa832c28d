// Package ingest provides the batch ingestion driver. It pulls raw records
// from a source in resumable batches, normalizes them with bounded
// concurrency, commits each batch atomically, persists the cursor, and
// paces itself between batches.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookdex"
	"bookdex/bloom"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
)

// Seen-filter sizing for one run.
const (
	seenExpectedRecords   = 100000
	seenFalsePositiveRate = 0.01
)

// Ingestor drives ingestion for one source.
//
// The loop is deliberately sequential per source: fetch batch, normalize,
// commit, persist cursor, pace, repeat. The cursor is written only after
// the batch commit, so a crash in between reprocesses at most one batch,
// which idempotent insertion absorbs.
type Ingestor struct {
	Source     bookdex.Source
	Normalizer bookdex.Normalizer
	Catalog    bookdex.CatalogService
	Cursors    bookdex.CursorService

	// Pacer, if set, is consulted between batches. Sources never sleep
	// themselves.
	Pacer Pacer

	// Concurrency bounds the normalization worker pool within a batch.
	// Defaults to 4. Batch commit always waits for every outstanding
	// normalization before the cursor advances.
	Concurrency int

	// MaxBatches, when positive, stops the run after that many batches
	// even if the source is not exhausted.
	MaxBatches int

	// RetryDelays are the backoff delays for transient fetch failures.
	// Defaults to 1s, 2s, 4s.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// Result holds the outcome of one ingestion run.
type Result struct {
	// Batches is the number of committed batches.
	Batches int

	// Fetched is the number of raw records pulled from the source.
	Fetched int

	// Inserted is the number of new catalog entries created.
	Inserted int

	// Duplicates is the number of candidates whose title already existed.
	Duplicates int

	// Fallbacks is the number of records whose normalization fell back
	// to the unknown-title sentinel and were excluded from insertion.
	Fallbacks int

	// Skipped is the number of records skipped by the seen filter.
	Skipped int

	// Exhausted reports whether the source signaled exhaustion.
	Exhausted bool
}

// Run ingests from the source until it is exhausted, MaxBatches is
// reached, or the context is canceled. It resumes from the persisted
// cursor and returns the partial result alongside any error.
func (ing *Ingestor) Run(ctx context.Context) (*Result, error) {
	logger := ing.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	name := ing.Source.Name()
	cursor, err := ing.Cursors.Cursor(ctx, name)
	if err != nil {
		return nil, err
	}

	seen := bloom.NewFilter(seenExpectedRecords, seenFalsePositiveRate)
	result := &Result{}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		records, next, exhausted, err := FetchNextWithRetry(ctx, ing.Source, cursor, ing.RetryDelays, logger)
		if err != nil {
			return result, fmt.Errorf("fetching batch from %s: %w", name, err)
		}
		if len(records) > bookdex.MaxBatchSize {
			return result, bookdex.Errorf(bookdex.EINTERNAL, "source %s returned an oversized batch (%d records)", name, len(records))
		}
		if !exhausted && next == cursor {
			// A stuck cursor would loop forever.
			return result, bookdex.Errorf(bookdex.EINTERNAL, "source %s made no cursor progress at %q", name, cursor)
		}
		result.Fetched += len(records)

		entries, stats, err := ing.normalizeBatch(ctx, records, seen)
		if err != nil {
			return result, err
		}
		result.Fallbacks += stats.fallbacks
		result.Skipped += stats.skipped

		inserted, err := ing.Catalog.InsertBatch(ctx, entries)
		if err != nil {
			return result, fmt.Errorf("committing batch from %s: %w", name, err)
		}
		result.Inserted += inserted
		result.Duplicates += len(entries) - inserted
		result.Batches++

		if err := ing.Cursors.SetCursor(ctx, name, next); err != nil {
			return result, fmt.Errorf("persisting cursor for %s: %w", name, err)
		}
		cursor = next

		logger.Info("batch committed",
			"source", name,
			"records", len(records),
			"inserted", inserted,
			"cursor", cursor,
		)

		if exhausted {
			result.Exhausted = true
			return result, nil
		}
		if ing.MaxBatches > 0 && result.Batches >= ing.MaxBatches {
			return result, nil
		}

		if ing.Pacer != nil {
			if err := ing.Pacer.Pause(ctx); err != nil {
				return result, err
			}
		}
	}
}

type batchStats struct {
	fallbacks int
	skipped   int
}

// normalizeBatch runs the normalizer over a batch with a bounded worker
// pool and returns the insertable entries in record order. Sentinel
// fallbacks and already-seen records are counted and dropped.
func (ing *Ingestor) normalizeBatch(ctx context.Context, records []bookdex.RawRecord, seen *bloom.Filter) ([]*bookdex.Entry, batchStats, error) {
	var stats batchStats

	fresh := records[:0:0]
	for _, rec := range records {
		if rec.Key != "" && seen.Test(rec.Key) {
			stats.skipped++
			continue
		}
		if rec.Key != "" {
			seen.Add(rec.Key)
		}
		fresh = append(fresh, rec)
	}

	concurrency := ing.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	candidates := make([]*bookdex.Candidate, len(fresh))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, rec := range fresh {
		g.Go(func() error {
			candidate, err := ing.Normalizer.Normalize(gctx, rec)
			if err != nil {
				return err
			}
			candidates[i] = candidate
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	var entries []*bookdex.Entry
	for i, candidate := range candidates {
		if candidate.Fallback() {
			stats.fallbacks++
			continue
		}
		rec := fresh[i]
		entries = append(entries, &bookdex.Entry{
			Title:       candidate.Title,
			Author:      candidate.Author,
			Summary:     candidate.Summary,
			Location:    rec.Location,
			SourceName:  rec.SourceName,
			ContentHash: hashContent(rec.Text),
		})
	}
	return entries, stats, nil
}

// hashContent computes a hash of the raw record text using xxhash.
func hashContent(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
