package bookdex

import (
	"context"
	"time"
)

// LocationKind discriminates the two Location variants.
type LocationKind string

// Location variants.
const (
	// LocationDirect points at an externally hosted artifact reachable by URL.
	LocationDirect LocationKind = "direct"

	// LocationArchive points back into an origin archive; the artifact is
	// re-obtained by replaying the record identified by (SourceID, RecordID).
	LocationArchive LocationKind = "archive"
)

// Location is a tagged union describing where an entry's artifact lives.
// Exactly one variant is populated: URL for LocationDirect, or
// SourceID+RecordID for LocationArchive.
type Location struct {
	Kind LocationKind `json:"kind"`

	// URL is set for LocationDirect.
	URL string `json:"url,omitempty"`

	// SourceID and RecordID are set for LocationArchive.
	SourceID string `json:"sourceId,omitempty"`
	RecordID int64  `json:"recordId,omitempty"`
}

// Validate returns an error unless exactly one variant is populated.
func (l Location) Validate() error {
	switch l.Kind {
	case LocationDirect:
		if l.URL == "" {
			return Errorf(EINVALID, "direct location requires a URL")
		}
		if l.SourceID != "" || l.RecordID != 0 {
			return Errorf(EINVALID, "direct location must not carry an archive reference")
		}
	case LocationArchive:
		if l.SourceID == "" || l.RecordID == 0 {
			return Errorf(EINVALID, "archive location requires a source ID and record ID")
		}
		if l.URL != "" {
			return Errorf(EINVALID, "archive location must not carry a URL")
		}
	default:
		return Errorf(EINVALID, "unknown location kind %q", l.Kind)
	}
	return nil
}

// Entry represents one catalog record. Title is the unique key: dedupe and
// lookup pivot on exact title equality. Entries are immutable once written;
// re-ingestion only adds missing entries.
type Entry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Summary  string   `json:"summary"`
	Location Location `json:"location"`

	// SourceName records which adapter harvested the entry. Advisory
	// provenance, not part of identity.
	SourceName string `json:"sourceName"`

	// ContentHash is a hash of the raw record the entry was normalized
	// from. Advisory provenance.
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *Entry) Validate() error {
	if e.Title == "" {
		return Errorf(EINVALID, "entry title required")
	}
	if e.Title == UnknownTitle {
		return Errorf(EINVALID, "entry title must not be the unknown-title sentinel")
	}
	if e.Author == "" {
		return Errorf(EINVALID, "entry author required")
	}
	return e.Location.Validate()
}

// CatalogService represents durable, deduplicated persistence of entries.
type CatalogService interface {
	// InsertIfAbsent writes the entry unless one with the same title
	// already exists. Returns whether a new row was created. A duplicate
	// title is a no-op, not an error, so ingestion is safely re-runnable.
	InsertIfAbsent(ctx context.Context, entry *Entry) (bool, error)

	// InsertBatch writes a batch of entries atomically, skipping titles
	// that already exist, and returns the number actually inserted.
	// Readers never observe a partially applied batch.
	InsertBatch(ctx context.Context, entries []*Entry) (int, error)

	// SampleTitles returns up to limit existing titles, drawn uniformly
	// at random. The sample bounds the cost of a resolution inference
	// call; when the catalog is larger than limit the resolver's recall
	// is limited to the titles sampled for that call.
	SampleTitles(ctx context.Context, limit int) ([]string, error)

	// FindByTitle retrieves an entry by exact title match. Returns
	// ENOTFOUND if no such entry exists. This is the only query shape
	// the store supports; fuzziness belongs to the Resolver.
	FindByTitle(ctx context.Context, title string) (*Entry, error)

	// Count returns the number of entries in the catalog.
	Count(ctx context.Context) (int, error)
}
