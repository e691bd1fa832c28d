// Package mock provides function-field mock implementations of the
// bookdex service interfaces for use in tests.
package mock

import (
	"context"

	"bookdex"
)

var _ bookdex.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of bookdex.CatalogService.
type CatalogService struct {
	InsertIfAbsentFn func(ctx context.Context, entry *bookdex.Entry) (bool, error)
	InsertBatchFn    func(ctx context.Context, entries []*bookdex.Entry) (int, error)
	SampleTitlesFn   func(ctx context.Context, limit int) ([]string, error)
	FindByTitleFn    func(ctx context.Context, title string) (*bookdex.Entry, error)
	CountFn          func(ctx context.Context) (int, error)
}

func (s *CatalogService) InsertIfAbsent(ctx context.Context, entry *bookdex.Entry) (bool, error) {
	return s.InsertIfAbsentFn(ctx, entry)
}

func (s *CatalogService) InsertBatch(ctx context.Context, entries []*bookdex.Entry) (int, error) {
	return s.InsertBatchFn(ctx, entries)
}

func (s *CatalogService) SampleTitles(ctx context.Context, limit int) ([]string, error) {
	return s.SampleTitlesFn(ctx, limit)
}

func (s *CatalogService) FindByTitle(ctx context.Context, title string) (*bookdex.Entry, error) {
	return s.FindByTitleFn(ctx, title)
}

func (s *CatalogService) Count(ctx context.Context) (int, error) {
	return s.CountFn(ctx)
}
