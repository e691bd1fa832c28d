package mock

import (
	"context"

	"bookdex"
)

var _ bookdex.Deliverer = (*Deliverer)(nil)

// Deliverer is a mock implementation of bookdex.Deliverer.
type Deliverer struct {
	DeliverFn func(ctx context.Context, entry *bookdex.Entry) (*bookdex.Artifact, error)
}

func (d *Deliverer) Deliver(ctx context.Context, entry *bookdex.Entry) (*bookdex.Artifact, error) {
	return d.DeliverFn(ctx, entry)
}

var _ bookdex.Forwarder = (*Forwarder)(nil)

// Forwarder is a mock implementation of bookdex.Forwarder.
type Forwarder struct {
	ForwardFn func(ctx context.Context, sourceID string, recordID int64) error
}

func (f *Forwarder) Forward(ctx context.Context, sourceID string, recordID int64) error {
	return f.ForwardFn(ctx, sourceID, recordID)
}
