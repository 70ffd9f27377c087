package mock

import (
	"context"

	"github.com/fwojciec/postharvest"
)

var _ postharvest.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of postharvest.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ postharvest.DocumentFetcher = (*DocumentFetcher)(nil)

// DocumentFetcher is a mock implementation of postharvest.DocumentFetcher.
type DocumentFetcher struct {
	FetchDocumentFn func(ctx context.Context, url string) (postharvest.Node, error)
}

func (f *DocumentFetcher) FetchDocument(ctx context.Context, url string) (postharvest.Node, error) {
	return f.FetchDocumentFn(ctx, url)
}
