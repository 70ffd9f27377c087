package goquery

import (
	"context"

	"github.com/fwojciec/postharvest"
)

// Ensure DocumentFetcher implements postharvest.DocumentFetcher at compile time.
var _ postharvest.DocumentFetcher = (*DocumentFetcher)(nil)

// DocumentFetcher fetches HTML with a postharvest.Fetcher and parses it.
type DocumentFetcher struct {
	fetcher postharvest.Fetcher
}

// NewDocumentFetcher creates a new DocumentFetcher.
func NewDocumentFetcher(fetcher postharvest.Fetcher) *DocumentFetcher {
	return &DocumentFetcher{fetcher: fetcher}
}

// FetchDocument fetches the URL and returns the root of the parsed tree.
// Fetch errors are returned unchanged.
func (d *DocumentFetcher) FetchDocument(ctx context.Context, url string) (postharvest.Node, error) {
	html, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Parse(html)
}
