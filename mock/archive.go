package mock

import (
	"context"

	"github.com/fwojciec/postharvest"
)

var _ postharvest.Archive = (*Archive)(nil)

// Archive is a mock implementation of postharvest.Archive.
type Archive struct {
	ReadPostFn      func(ctx context.Context, key string) (*postharvest.Post, error)
	PostKeysFn      func(ctx context.Context, limit, offset int) ([]string, error)
	ReadEntriesFn   func(ctx context.Context) ([]postharvest.SitemapEntry, error)
	LatestSummaryFn func(ctx context.Context) (*postharvest.BatchSummary, error)
}

func (a *Archive) ReadPost(ctx context.Context, key string) (*postharvest.Post, error) {
	return a.ReadPostFn(ctx, key)
}

func (a *Archive) PostKeys(ctx context.Context, limit, offset int) ([]string, error) {
	return a.PostKeysFn(ctx, limit, offset)
}

func (a *Archive) ReadEntries(ctx context.Context) ([]postharvest.SitemapEntry, error) {
	return a.ReadEntriesFn(ctx)
}

func (a *Archive) LatestSummary(ctx context.Context) (*postharvest.BatchSummary, error) {
	return a.LatestSummaryFn(ctx)
}
