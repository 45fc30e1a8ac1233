package fetcher

import (
	"context"
	"net/http"
	"time"
)

// Fetcher retrieves article pages.
type Fetcher interface {
	// Fetch retrieves the page at url. Non-2xx responses are returned as
	// *types.FetchError.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Response is a fetched page with its body decoded to UTF-8.
type Response struct {
	URL           string // final URL after redirects
	StatusCode    int
	Headers       http.Header
	ContentType   string
	Body          []byte
	FetchDuration time.Duration
}
