package mock

import (
	"context"

	"bookdex"
)

var _ bookdex.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of bookdex.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) ([]byte, string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
