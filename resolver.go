package bookdex

import "context"

// NotFound is the sentinel the resolution model is instructed to return
// when no candidate title matches the query.
const NotFound = "NOT_FOUND"

// MinQueryRunes is the minimum query length worth an inference call.
// Shorter queries resolve to ENOTFOUND without touching the model.
const MinQueryRunes = 5

// Resolver maps a free-form user query to the exact title of one catalog
// entry.
//
// Resolve returns the matched title, or an ENOTFOUND error when nothing in
// the catalog matches, or an EUNAVAILABLE error when the resolution
// service failed or the catalog is empty. The two codes are distinct so a
// caller can tell "nothing matches" apart from "try again later".
//
// Soundness: a returned title is always an exact element of the candidate
// sample sent to the model for that call. The resolver narrows, it never
// invents.
type Resolver interface {
	Resolve(ctx context.Context, query string) (string, error)
}
