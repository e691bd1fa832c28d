package mock

import (
	"context"

	"bookdex"
)

var _ bookdex.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of bookdex.Normalizer.
type Normalizer struct {
	NormalizeFn func(ctx context.Context, rec bookdex.RawRecord) (*bookdex.Candidate, error)
}

func (n *Normalizer) Normalize(ctx context.Context, rec bookdex.RawRecord) (*bookdex.Candidate, error) {
	return n.NormalizeFn(ctx, rec)
}
