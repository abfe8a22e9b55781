package scraper

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent mimics a desktop browser; the source page serves a
// reduced document to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Fetcher retrieves the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// PageFetcher is the HTTP implementation of Fetcher.  It performs exactly
// one GET per call; retries are left to the next refresh cycle.
type PageFetcher struct {
	client *resty.Client
}

// NewPageFetcher builds a fetcher with the given identity header and
// request timeout.  Empty or non-positive values fall back to defaults.
func NewPageFetcher(userAgent string, timeout time.Duration) *PageFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &PageFetcher{client: client}
}

// Fetch returns the body of url.  Any failure is a *TransportError.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	if !resp.IsSuccess() {
		return "", &TransportError{URL: url, StatusCode: resp.StatusCode()}
	}
	return resp.String(), nil
}
