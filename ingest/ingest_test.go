package ingest_test

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"bookdex"
	"bookdex/ingest"
	"bookdex/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedSource yields n records in pages of pageSize, keyed "rec-<i>",
// with a numeric page cursor. It mimics a web listing source.
func pagedSource(name string, n, pageSize int) *mock.Source {
	return &mock.Source{
		NameFn: func() string { return name },
		FetchNextFn: func(_ context.Context, cursor string) ([]bookdex.RawRecord, string, bool, error) {
			page := 0
			if cursor != "" {
				page, _ = strconv.Atoi(cursor)
			}
			start := page * pageSize
			if start >= n {
				return nil, cursor, true, nil
			}
			end := start + pageSize
			if end > n {
				end = n
			}
			var records []bookdex.RawRecord
			for i := start; i < end; i++ {
				records = append(records, bookdex.RawRecord{
					SourceName: name,
					Key:        fmt.Sprintf("rec-%d", i),
					Text:       fmt.Sprintf("Book %d by Author %d", i, i),
					Location: bookdex.Location{
						Kind: bookdex.LocationDirect,
						URL:  fmt.Sprintf("https://example.com/%d.pdf", i),
					},
				})
			}
			next := strconv.Itoa(page + 1)
			return records, next, end == n, nil
		},
	}
}

// titleNormalizer derives the candidate title directly from the raw text.
func titleNormalizer() *mock.Normalizer {
	return &mock.Normalizer{
		NormalizeFn: func(_ context.Context, rec bookdex.RawRecord) (*bookdex.Candidate, error) {
			return &bookdex.Candidate{Title: rec.Text, Author: "A. Author"}, nil
		},
	}
}

// memoryCatalog collects inserted titles, deduplicating like the real store.
type memoryCatalog struct {
	mu      sync.Mutex
	titles  map[string]bool
	inserts []string
}

func newMemoryCatalog() (*memoryCatalog, *mock.CatalogService) {
	m := &memoryCatalog{titles: map[string]bool{}}
	svc := &mock.CatalogService{
		InsertBatchFn: func(_ context.Context, entries []*bookdex.Entry) (int, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			inserted := 0
			for _, e := range entries {
				if err := e.Validate(); err != nil {
					return 0, err
				}
				if m.titles[e.Title] {
					continue
				}
				m.titles[e.Title] = true
				m.inserts = append(m.inserts, e.Title)
				inserted++
			}
			return inserted, nil
		},
	}
	return m, svc
}

// memoryCursors is an in-memory cursor store.
func memoryCursors() (*map[string]string, *mock.CursorService) {
	state := map[string]string{}
	svc := &mock.CursorService{
		CursorFn: func(_ context.Context, source string) (string, error) {
			return state[source], nil
		},
		SetCursorFn: func(_ context.Context, source, cursor string) error {
			state[source] = cursor
			return nil
		},
	}
	return &state, svc
}

func TestIngestor_Run_IngestsAllBatches(t *testing.T) {
	t.Parallel()

	cat, catalog := newMemoryCatalog()
	_, cursors := memoryCursors()

	ing := &ingest.Ingestor{
		Source:      pagedSource("web-listing", 25, 10),
		Normalizer:  titleNormalizer(),
		Catalog:     catalog,
		Cursors:     cursors,
		RetryDelays: []time.Duration{},
	}

	result, err := ing.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Exhausted)
	assert.Equal(t, 3, result.Batches)
	assert.Equal(t, 25, result.Fetched)
	assert.Equal(t, 25, result.Inserted)
	assert.Len(t, cat.inserts, 25)
}

func TestIngestor_Run_IsIdempotent(t *testing.T) {
	t.Parallel()

	cat, catalog := newMemoryCatalog()

	run := func() {
		// Fresh cursors each run so the second run re-reads the source.
		_, cursors := memoryCursors()
		ing := &ingest.Ingestor{
			Source:      pagedSource("web-listing", 12, 5),
			Normalizer:  titleNormalizer(),
			Catalog:     catalog,
			Cursors:     cursors,
			RetryDelays: []time.Duration{},
		}
		_, err := ing.Run(context.Background())
		require.NoError(t, err)
	}

	run()
	run()

	assert.Len(t, cat.inserts, 12, "re-running ingestion must not duplicate entries")
}

func TestIngestor_Run_ResumesFromPersistedCursor(t *testing.T) {
	t.Parallel()

	cat, catalog := newMemoryCatalog()
	state, cursors := memoryCursors()

	newIngestor := func(maxBatches int) *ingest.Ingestor {
		return &ingest.Ingestor{
			Source:      pagedSource("web-listing", 30, 10),
			Normalizer:  titleNormalizer(),
			Catalog:     catalog,
			Cursors:     cursors,
			MaxBatches:  maxBatches,
			RetryDelays: []time.Duration{},
		}
	}

	// Interrupt after one committed batch.
	result, err := newIngestor(1).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Batches)
	assert.False(t, result.Exhausted)
	assert.Equal(t, "1", (*state)["web-listing"])
	require.Len(t, cat.inserts, 10)

	// Resume: the remaining records are processed exactly once each.
	result, err = newIngestor(0).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Exhausted)
	assert.Equal(t, 20, result.Fetched, "no overlap with the first run")

	require.Len(t, cat.inserts, 30, "no gaps")
	seen := map[string]bool{}
	for _, title := range cat.inserts {
		assert.False(t, seen[title], "title %q processed twice", title)
		seen[title] = true
	}
}

func TestIngestor_Run_ExcludesSentinelFallbacks(t *testing.T) {
	t.Parallel()

	cat, catalog := newMemoryCatalog()
	_, cursors := memoryCursors()

	normalizer := &mock.Normalizer{
		NormalizeFn: func(_ context.Context, rec bookdex.RawRecord) (*bookdex.Candidate, error) {
			if rec.Key == "rec-1" {
				return &bookdex.Candidate{Title: bookdex.UnknownTitle, Author: bookdex.UnknownAuthor}, nil
			}
			return &bookdex.Candidate{Title: rec.Text, Author: "A. Author"}, nil
		},
	}

	ing := &ingest.Ingestor{
		Source:      pagedSource("web-listing", 3, 10),
		Normalizer:  normalizer,
		Catalog:     catalog,
		Cursors:     cursors,
		RetryDelays: []time.Duration{},
	}

	result, err := ing.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Fallbacks)
	assert.Equal(t, 2, result.Inserted)
	assert.NotContains(t, cat.inserts, bookdex.UnknownTitle)
}

func TestIngestor_Run_SkipsRepeatedRecordKeys(t *testing.T) {
	t.Parallel()

	cat, catalog := newMemoryCatalog()
	_, cursors := memoryCursors()

	// Two pages that overlap on the same record key.
	calls := 0
	source := &mock.Source{
		NameFn: func() string { return "overlapping" },
		FetchNextFn: func(_ context.Context, cursor string) ([]bookdex.RawRecord, string, bool, error) {
			calls++
			rec := func(key string) bookdex.RawRecord {
				return bookdex.RawRecord{
					SourceName: "overlapping",
					Key:        key,
					Text:       "Book " + key,
					Location:   bookdex.Location{Kind: bookdex.LocationDirect, URL: "https://example.com/" + key},
				}
			}
			if calls == 1 {
				return []bookdex.RawRecord{rec("a"), rec("b")}, "1", false, nil
			}
			return []bookdex.RawRecord{rec("b"), rec("c")}, "2", true, nil
		},
	}

	ing := &ingest.Ingestor{
		Source:      source,
		Normalizer:  titleNormalizer(),
		Catalog:     catalog,
		Cursors:     cursors,
		RetryDelays: []time.Duration{},
	}

	result, err := ing.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, cat.inserts, 3)
}

func TestIngestor_Run_FailsOnStuckCursor(t *testing.T) {
	t.Parallel()

	_, catalog := newMemoryCatalog()
	_, cursors := memoryCursors()

	source := &mock.Source{
		NameFn: func() string { return "stuck" },
		FetchNextFn: func(_ context.Context, cursor string) ([]bookdex.RawRecord, string, bool, error) {
			return nil, cursor, false, nil
		},
	}

	ing := &ingest.Ingestor{
		Source:      source,
		Normalizer:  titleNormalizer(),
		Catalog:     catalog,
		Cursors:     cursors,
		RetryDelays: []time.Duration{},
	}

	_, err := ing.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, bookdex.EINTERNAL, bookdex.ErrorCode(err))
}

func TestIngestor_Run_FailsOnOversizedBatch(t *testing.T) {
	t.Parallel()

	_, catalog := newMemoryCatalog()
	_, cursors := memoryCursors()

	source := &mock.Source{
		NameFn: func() string { return "greedy" },
		FetchNextFn: func(_ context.Context, cursor string) ([]bookdex.RawRecord, string, bool, error) {
			records := make([]bookdex.RawRecord, bookdex.MaxBatchSize+1)
			return records, "1", false, nil
		},
	}

	ing := &ingest.Ingestor{
		Source:      source,
		Normalizer:  titleNormalizer(),
		Catalog:     catalog,
		Cursors:     cursors,
		RetryDelays: []time.Duration{},
	}

	_, err := ing.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, bookdex.EINTERNAL, bookdex.ErrorCode(err))
}

func TestIngestor_Run_CursorNotAdvancedOnCommitFailure(t *testing.T) {
	t.Parallel()

	state, cursors := memoryCursors()

	catalog := &mock.CatalogService{
		InsertBatchFn: func(context.Context, []*bookdex.Entry) (int, error) {
			return 0, bookdex.Errorf(bookdex.EINTERNAL, "disk full")
		},
	}

	ing := &ingest.Ingestor{
		Source:      pagedSource("web-listing", 5, 5),
		Normalizer:  titleNormalizer(),
		Catalog:     catalog,
		Cursors:     cursors,
		RetryDelays: []time.Duration{},
	}

	_, err := ing.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, (*state)["web-listing"], "cursor must not advance past an uncommitted batch")
}

func TestIngestor_Run_CanceledContextStopsTheRun(t *testing.T) {
	t.Parallel()

	_, catalog := newMemoryCatalog()
	_, cursors := memoryCursors()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ing := &ingest.Ingestor{
		Source:      pagedSource("web-listing", 5, 5),
		Normalizer:  titleNormalizer(),
		Catalog:     catalog,
		Cursors:     cursors,
		RetryDelays: []time.Duration{},
	}

	_, err := ing.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
