package bookdex

import "context"

// Sentinel values used by normalization fallbacks. A candidate whose title
// equals UnknownTitle is never inserted into the catalog, keeping the
// sentinel out of the unique-key space.
const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
)

// Candidate is a structured entry produced by normalizing one raw record.
type Candidate struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Summary string `json:"summary,omitempty"`
}

// Fallback reports whether the candidate is a best-effort placeholder
// produced when extraction failed.
func (c *Candidate) Fallback() bool {
	return c.Title == UnknownTitle
}

// Normalizer turns one raw record into a structured candidate entry.
//
// Implementations delegate free-text extraction (title/author separation,
// summary compression) to a constrained model call and validate its output
// against the expected shape. A failed extraction returns a sentinel
// fallback candidate rather than an error, so a single bad record never
// blocks ingestion throughput; only infrastructure failures unrelated to
// the record (e.g. context cancellation) surface as errors.
type Normalizer interface {
	Normalize(ctx context.Context, rec RawRecord) (*Candidate, error)
}
