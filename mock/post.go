package mock

import (
	"context"

	"github.com/fwojciec/postharvest"
)

var _ postharvest.PostExtractor = (*PostExtractor)(nil)

// PostExtractor is a mock implementation of postharvest.PostExtractor.
type PostExtractor struct {
	ExtractFn func(ctx context.Context, url string) (*postharvest.Post, error)
}

func (e *PostExtractor) Extract(ctx context.Context, url string) (*postharvest.Post, error) {
	return e.ExtractFn(ctx, url)
}

var _ postharvest.PostStore = (*PostStore)(nil)

// PostStore is a mock implementation of postharvest.PostStore.
type PostStore struct {
	ExistsFn func(ctx context.Context, key string) (bool, error)
	WriteFn  func(ctx context.Context, key string, post *postharvest.Post) error
}

func (s *PostStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.ExistsFn(ctx, key)
}

func (s *PostStore) Write(ctx context.Context, key string, post *postharvest.Post) error {
	return s.WriteFn(ctx, key, post)
}
