package ingest

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacer paces the ingestion driver between batches to avoid triggering
// upstream throttling. Pacing is a driver concern; sources never sleep.
type Pacer interface {
	// Pause blocks for one pacing interval. Returns an error only if the
	// context is canceled before the interval elapses.
	Pause(ctx context.Context) error
}

// UniformPacer pauses for a duration drawn uniformly at random from
// [Min, Max] on each Pause call.
type UniformPacer struct {
	Min time.Duration
	Max time.Duration
}

// NewUniformPacer creates a UniformPacer. The defaults, 2s to 5s, match a
// polite scraping cadence.
func NewUniformPacer(min, max time.Duration) *UniformPacer {
	if min <= 0 {
		min = 2 * time.Second
	}
	if max <= 0 {
		max = 5 * time.Second
	}
	if max < min {
		max = min
	}
	return &UniformPacer{Min: min, Max: max}
}

// Delay returns one randomized pacing interval in [Min, Max].
func (p *UniformPacer) Delay() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + rand.N(p.Max-p.Min+1)
}

// Pause blocks for one randomized pacing interval.
func (p *UniformPacer) Pause(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.Delay()):
		return nil
	}
}
