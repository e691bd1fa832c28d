package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bookdex"

	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ bookdex.CatalogService = (*CatalogService)(nil)

// CatalogService implements bookdex.CatalogService using SQLite.
type CatalogService struct {
	db *DB
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(db *DB) *CatalogService {
	return &CatalogService{db: db}
}

// InsertIfAbsent writes the entry unless its title already exists.
// Returns whether a new row was created.
func (s *CatalogService) InsertIfAbsent(ctx context.Context, entry *bookdex.Entry) (bool, error) {
	if err := entry.Validate(); err != nil {
		return false, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, insertEntrySQL, insertEntryArgs(entry, id, now)...)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		// Duplicate title: nothing was persisted, so the caller's entry
		// keeps whatever identity it had.
		return false, nil
	}

	entry.ID = id
	entry.CreatedAt = now
	return true, nil
}

// InsertBatch writes a batch of entries in a single transaction, skipping
// titles that already exist. Returns the number actually inserted.
// Readers on other connections see either none or all of the batch.
func (s *CatalogService) InsertBatch(ctx context.Context, entries []*bookdex.Entry) (int, error) {
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return 0, err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	ids := make(map[*bookdex.Entry]string)
	for _, entry := range entries {
		id := uuid.New().String()
		result, err := tx.ExecContext(ctx, insertEntrySQL, insertEntryArgs(entry, id, now)...)
		if err != nil {
			return 0, err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		if rows > 0 {
			ids[entry] = id
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	// Identity is assigned only after commit, and only to the entries
	// that created rows; duplicates keep whatever identity they had.
	for entry, id := range ids {
		entry.ID = id
		entry.CreatedAt = now
	}
	return len(ids), nil
}

// insertEntrySQL relies on the UNIQUE title constraint for idempotence:
// a duplicate title is silently ignored.
const insertEntrySQL = `
	INSERT INTO entries (id, title, author, summary, location_kind, url, archive_source, archive_record, source_name, content_hash, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(title) DO NOTHING
`

func insertEntryArgs(entry *bookdex.Entry, id string, createdAt time.Time) []any {
	return []any{
		id, entry.Title, entry.Author, entry.Summary,
		string(entry.Location.Kind), entry.Location.URL,
		entry.Location.SourceID, entry.Location.RecordID,
		entry.SourceName, entry.ContentHash,
		createdAt.Format(time.RFC3339),
	}
}

// SampleTitles returns up to limit titles drawn uniformly at random.
//
// Sampling policy: ORDER BY RANDOM(). The sample is deterministic for the
// duration of one call but differs between calls, so resolver recall over
// a catalog larger than limit varies per request.
func (s *CatalogService) SampleTitles(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, bookdex.Errorf(bookdex.EINVALID, "sample limit must be positive")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT title FROM entries ORDER BY RANDOM() LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}

	return titles, rows.Err()
}

// FindByTitle retrieves an entry by exact title match.
func (s *CatalogService) FindByTitle(ctx context.Context, title string) (*bookdex.Entry, error) {
	var entry bookdex.Entry
	var kind, createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, author, summary, location_kind, url, archive_source, archive_record, source_name, content_hash, created_at
		FROM entries
		WHERE title = ?
	`, title).Scan(&entry.ID, &entry.Title, &entry.Author, &entry.Summary,
		&kind, &entry.Location.URL, &entry.Location.SourceID, &entry.Location.RecordID,
		&entry.SourceName, &entry.ContentHash, &createdAt)

	if err == sql.ErrNoRows {
		return nil, bookdex.Errorf(bookdex.ENOTFOUND, "entry %q not found", title)
	}
	if err != nil {
		return nil, err
	}

	entry.Location.Kind = bookdex.LocationKind(kind)

	entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return &entry, nil
}

// Count returns the number of entries in the catalog.
func (s *CatalogService) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
