package bookdex

import "context"

// Fetcher retrieves a remote resource over HTTP with a bounded timeout.
type Fetcher interface {
	// Fetch performs a GET of the URL and returns the response body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body []byte, contentType string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
