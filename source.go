package bookdex

import "context"

// MaxBatchSize bounds the number of raw records a source may return from a
// single FetchNext call. Bounds memory use and keeps upstream request
// volume predictable.
const MaxBatchSize = 100

// RawRecord is an unstructured record pulled from a source before
// normalization. Text carries whatever noisy free text the source exposes
// (a listing card, a feed entry, a forwarded message caption).
type RawRecord struct {
	// SourceName identifies the adapter that produced the record.
	SourceName string

	// Key uniquely identifies the record within its source (a page URL,
	// a feed entry ID, an archive record ID). Used for seen-filtering.
	Key string

	// Text is the raw free text to normalize.
	Text string

	// Location is the delivery reference for the record's artifact,
	// known at harvest time.
	Location Location
}

// Source pulls raw records from one external origin in resumable batches.
//
// A cursor is an opaque, source-specific resumption token (a page number
// for web sources, a record ID for archive sources). The empty cursor
// means "start from the beginning". Implementations must make monotonic
// progress: the returned cursor always advances pagination, so a driver
// persisting it after each batch resumes without gaps or overlap.
//
// Exhaustion is signaled via the exhausted return, distinct from an error:
// an error is transient and the same cursor may be retried, while
// exhausted means the source has no further records.
//
// Sources never sleep between batches; pacing is the ingestion driver's
// responsibility.
type Source interface {
	// Name returns the stable source name used for provenance metadata
	// and for ArchiveReference source IDs.
	Name() string

	// FetchNext returns the next batch of raw records after cursor,
	// at most MaxBatchSize of them. A single malformed record must not
	// fail the batch; it is skipped and the batch continues.
	FetchNext(ctx context.Context, cursor string) (records []RawRecord, next string, exhausted bool, err error)
}
