// Package http provides an HTTP-based implementation of bookdex.Fetcher
// used by web source adapters and direct-link delivery.
package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"bookdex"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements bookdex.Fetcher at compile time.
var _ bookdex.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves remote resources over HTTP with a bounded timeout and
// an optional per-domain rate limit.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	limiter *DomainLimiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithDomainLimiter rate-limits requests per target domain.
func WithDomainLimiter(l *DomainLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch performs a GET of the URL and returns the response body and its
// content type. Non-2xx responses and transport failures surface as
// EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	if f.limiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, "", bookdex.Errorf(bookdex.EINVALID, "invalid URL %q", rawURL)
		}
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return nil, "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", bookdex.Errorf(bookdex.EINVALID, "invalid URL %q", rawURL)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		return nil, "", bookdex.Errorf(bookdex.EUNAVAILABLE, "fetching %s failed", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", bookdex.Errorf(bookdex.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", bookdex.Errorf(bookdex.EUNAVAILABLE, "reading %s failed", rawURL)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
