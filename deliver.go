package bookdex

import "context"

// Artifact is the outcome of delivering a catalog entry. Exactly one of
// Data or Forwarded is meaningful: a direct-link delivery carries the
// fetched bytes, an archive delivery reports the re-emitted reference.
type Artifact struct {
	// Entry is the entry the artifact was delivered for.
	Entry *Entry

	// Data holds the fetched bytes for a direct-link delivery.
	Data []byte

	// ContentType is the media type reported by the remote host for a
	// direct-link delivery.
	ContentType string

	// Forwarded is true when the artifact was re-emitted from its origin
	// archive instead of fetched.
	Forwarded bool
}

// Deliverer executes one of the two delivery strategies for an entry,
// branching on its location kind: a bounded-timeout fetch for
// LocationDirect, or a re-emission request for LocationArchive.
//
// Network and HTTP failures surface as EUNAVAILABLE. An archive-side copy
// restriction surfaces as ERESTRICTED so the caller can present an
// accurate message rather than a generic failure.
type Deliverer interface {
	Deliver(ctx context.Context, entry *Entry) (*Artifact, error)
}

// Forwarder re-emits a record from its origin archive. It is implemented
// by the chat-transport collaborator, outside this module: forwarding a
// message is a transport concern, the catalog only identifies the record.
type Forwarder interface {
	// Forward asks the origin archive to re-emit the record identified
	// by (sourceID, recordID). Returns ERESTRICTED if the archive
	// forbids copying the record.
	Forward(ctx context.Context, sourceID string, recordID int64) error
}
