// Package deliver implements the two-way delivery dispatcher: direct
// links are fetched over HTTP, archive records are re-emitted by the
// origin archive.
package deliver

import (
	"context"

	"bookdex"
)

// Ensure Dispatcher implements bookdex.Deliverer at compile time.
var _ bookdex.Deliverer = (*Dispatcher)(nil)

// Dispatcher routes an entry to the delivery strategy its location
// demands. Exactly one strategy runs per entry.
type Dispatcher struct {
	fetcher   bookdex.Fetcher
	forwarder bookdex.Forwarder
}

// NewDispatcher creates a Dispatcher over the given collaborators.
func NewDispatcher(fetcher bookdex.Fetcher, forwarder bookdex.Forwarder) *Dispatcher {
	return &Dispatcher{fetcher: fetcher, forwarder: forwarder}
}

// Deliver produces an artifact for the entry.
func (d *Dispatcher) Deliver(ctx context.Context, entry *bookdex.Entry) (*bookdex.Artifact, error) {
	if entry == nil {
		return nil, bookdex.Errorf(bookdex.EINVALID, "entry is required")
	}
	if err := entry.Location.Validate(); err != nil {
		return nil, err
	}

	switch entry.Location.Kind {
	case bookdex.LocationDirect:
		data, contentType, err := d.fetcher.Fetch(ctx, entry.Location.URL)
		if err != nil {
			return nil, err
		}
		return &bookdex.Artifact{
			Entry:       entry,
			Data:        data,
			ContentType: contentType,
		}, nil

	case bookdex.LocationArchive:
		err := d.forwarder.Forward(ctx, entry.Location.SourceID, entry.Location.RecordID)
		if err != nil {
			return nil, err
		}
		return &bookdex.Artifact{
			Entry:     entry,
			Forwarded: true,
		}, nil

	default:
		return nil, bookdex.Errorf(bookdex.EINVALID, "unknown location kind %q", entry.Location.Kind)
	}
}
