package mock

import (
	"context"

	"bookdex"
)

var _ bookdex.Resolver = (*Resolver)(nil)

// Resolver is a mock implementation of bookdex.Resolver.
type Resolver struct {
	ResolveFn func(ctx context.Context, query string) (string, error)
}

func (r *Resolver) Resolve(ctx context.Context, query string) (string, error) {
	return r.ResolveFn(ctx, query)
}
