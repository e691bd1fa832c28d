package mock

import (
	"context"

	"bookdex"
)

var _ bookdex.Source = (*Source)(nil)

// Source is a mock implementation of bookdex.Source.
type Source struct {
	NameFn      func() string
	FetchNextFn func(ctx context.Context, cursor string) ([]bookdex.RawRecord, string, bool, error)
}

func (s *Source) Name() string {
	return s.NameFn()
}

func (s *Source) FetchNext(ctx context.Context, cursor string) ([]bookdex.RawRecord, string, bool, error) {
	return s.FetchNextFn(ctx, cursor)
}
