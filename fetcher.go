package postharvest

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch performs one blocking request and returns the response body.
	// A non-success status is reported as EFETCH, the same as a network
	// failure. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases transport resources.
	Close() error
}

// DocumentFetcher retrieves a URL and parses it into a queryable tree.
type DocumentFetcher interface {
	// FetchDocument returns the root node of the parsed document.
	// Returns EFETCH if the document cannot be retrieved.
	FetchDocument(ctx context.Context, url string) (Node, error)
}

// DomainLimiter paces requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
