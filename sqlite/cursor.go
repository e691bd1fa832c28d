package sqlite

import (
	"context"
	"database/sql"
	"time"

	"bookdex"
)

// Compile-time interface verification.
var _ bookdex.CursorService = (*CursorService)(nil)

// CursorService implements bookdex.CursorService using SQLite.
type CursorService struct {
	db *DB
}

// NewCursorService creates a new CursorService.
func NewCursorService(db *DB) *CursorService {
	return &CursorService{db: db}
}

// Cursor returns the persisted cursor for the named source, or the empty
// string if the source has never been ingested.
func (s *CursorService) Cursor(ctx context.Context, source string) (string, error) {
	if source == "" {
		return "", bookdex.Errorf(bookdex.EINVALID, "source name required")
	}

	var cursor string
	err := s.db.QueryRowContext(ctx, `
		SELECT cursor FROM cursors WHERE source = ?
	`, source).Scan(&cursor)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cursor, nil
}

// SetCursor persists the cursor for the named source.
func (s *CursorService) SetCursor(ctx context.Context, source, cursor string) error {
	if source == "" {
		return bookdex.Errorf(bookdex.EINVALID, "source name required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cursors (source, cursor, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET cursor = excluded.cursor, updated_at = excluded.updated_at
	`, source, cursor, time.Now().UTC().Format(time.RFC3339))

	return err
}

// Cursors returns the persisted cursor for every known source.
func (s *CursorService) Cursors(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, cursor FROM cursors ORDER BY source
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cursors := make(map[string]string)
	for rows.Next() {
		var source, cursor string
		if err := rows.Scan(&source, &cursor); err != nil {
			return nil, err
		}
		cursors[source] = cursor
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cursors, nil
}
