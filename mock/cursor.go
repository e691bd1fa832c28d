package mock

import (
	"context"

	"bookdex"
)

var _ bookdex.CursorService = (*CursorService)(nil)

// CursorService is a mock implementation of bookdex.CursorService.
type CursorService struct {
	CursorFn    func(ctx context.Context, source string) (string, error)
	SetCursorFn func(ctx context.Context, source, cursor string) error
	CursorsFn   func(ctx context.Context) (map[string]string, error)
}

func (s *CursorService) Cursor(ctx context.Context, source string) (string, error) {
	return s.CursorFn(ctx, source)
}

func (s *CursorService) SetCursor(ctx context.Context, source, cursor string) error {
	return s.SetCursorFn(ctx, source, cursor)
}

func (s *CursorService) Cursors(ctx context.Context) (map[string]string, error) {
	return s.CursorsFn(ctx)
}
