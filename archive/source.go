// Package archive provides a source adapter for channel-style message
// archives. It walks the archive newest-first in descending record-id
// order through a transport-provided client; the transport layer itself
// (message dispatch, delivery) lives outside this module.
package archive

import (
	"context"
	"strconv"
	"strings"

	"bookdex"
)

// Message is one archived record as exposed by the transport client.
type Message struct {
	ID   int64
	Text string
}

// Client reads pages of an origin archive. Implemented by the
// chat-transport collaborator.
type Client interface {
	// History returns up to limit messages with IDs strictly below
	// beforeID, newest first. beforeID 0 starts from the newest message.
	History(ctx context.Context, beforeID int64, limit int) ([]Message, error)
}

// Ensure Source implements bookdex.Source at compile time.
var _ bookdex.Source = (*Source)(nil)

// Source harvests raw records from an archive walked in descending-id
// order. The cursor is the lowest record ID processed so far.
type Source struct {
	name      string
	client    Client
	batchSize int
}

// NewSource creates an archive source. batchSize defaults to
// bookdex.MaxBatchSize and is capped at it.
func NewSource(name string, client Client, batchSize int) *Source {
	if batchSize <= 0 || batchSize > bookdex.MaxBatchSize {
		batchSize = bookdex.MaxBatchSize
	}
	return &Source{name: name, client: client, batchSize: batchSize}
}

// Name returns the source name.
func (s *Source) Name() string {
	return s.name
}

// FetchNext fetches the next (older) page of the archive.
func (s *Source) FetchNext(ctx context.Context, cursor string) ([]bookdex.RawRecord, string, bool, error) {
	var beforeID int64
	if cursor != "" {
		var err error
		beforeID, err = strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return nil, "", false, bookdex.Errorf(bookdex.EINVALID, "malformed cursor %q for source %s", cursor, s.name)
		}
	}

	messages, err := s.client.History(ctx, beforeID, s.batchSize)
	if err != nil {
		return nil, "", false, err
	}
	if len(messages) == 0 {
		return nil, cursor, true, nil
	}

	lowest := messages[0].ID
	var records []bookdex.RawRecord
	for _, msg := range messages {
		if msg.ID < lowest {
			lowest = msg.ID
		}
		// Messages without usable text are skipped, not fatal.
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}
		records = append(records, bookdex.RawRecord{
			SourceName: s.name,
			Key:        s.name + "/" + strconv.FormatInt(msg.ID, 10),
			Text:       msg.Text,
			Location: bookdex.Location{
				Kind:     bookdex.LocationArchive,
				SourceID: s.name,
				RecordID: msg.ID,
			},
		})
	}

	return records, strconv.FormatInt(lowest, 10), false, nil
}
