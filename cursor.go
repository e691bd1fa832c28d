package bookdex

import "context"

// CursorService persists per-source ingestion cursors so that a restarted
// run resumes where the previous one committed. A cursor is written only
// after its batch has been committed to the catalog; a crash between
// commit and cursor write reprocesses at most one batch, which is safe
// because insertion is idempotent.
type CursorService interface {
	// Cursor returns the persisted cursor for the named source, or the
	// empty string if the source has never been ingested.
	Cursor(ctx context.Context, source string) (string, error)

	// SetCursor persists the cursor for the named source, replacing any
	// previous value.
	SetCursor(ctx context.Context, source, cursor string) error

	// Cursors returns the persisted cursor for every known source.
	Cursors(ctx context.Context) (map[string]string, error)
}
