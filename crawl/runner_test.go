package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/postharvest"
	"github.com/fwojciec/postharvest/crawl"
	"github.com/fwojciec/postharvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entriesFor(slugs ...string) []postharvest.SitemapEntry {
	entries := make([]postharvest.SitemapEntry, 0, len(slugs))
	for _, s := range slugs {
		entries = append(entries, postharvest.SitemapEntry{
			URL:  "https://blog.bytebytego.com/p/" + s,
			Year: 2024,
		})
	}
	return entries
}

// memoryStore is an in-memory PostStore built on the function-field mock.
type memoryStore struct {
	mu    sync.Mutex
	posts map[string]*postharvest.Post
	mock.PostStore
}

func newMemoryStore() *memoryStore {
	s := &memoryStore{posts: make(map[string]*postharvest.Post)}
	s.ExistsFn = func(_ context.Context, key string) (bool, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, ok := s.posts[key]
		return ok, nil
	}
	s.WriteFn = func(_ context.Context, key string, post *postharvest.Post) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.posts[key] = post
		return nil
	}
	return s
}

// countingExtractor returns a simple post for every URL and counts calls.
type countingExtractor struct {
	calls int
	fail  map[string]error
	mock.PostExtractor
}

func newCountingExtractor() *countingExtractor {
	e := &countingExtractor{fail: make(map[string]error)}
	e.ExtractFn = func(_ context.Context, url string) (*postharvest.Post, error) {
		e.calls++
		if err, ok := e.fail[url]; ok {
			return nil, err
		}
		return &postharvest.Post{URL: url, ContentText: postharvest.String("body of " + url)}, nil
	}
	return e
}

func noPause(context.Context, time.Duration) error { return nil }

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("partial failure is recorded and the batch continues", func(t *testing.T) {
		t.Parallel()

		// Given five posts where the third fails to fetch
		entries := entriesFor("one", "two", "three", "four", "five")
		extractor := newCountingExtractor()
		extractor.fail[entries[2].URL] = postharvest.Errorf(postharvest.EFETCH, "HTTP 500 for %s", entries[2].URL)
		store := newMemoryStore()

		runner := &crawl.Runner{Extractor: extractor, Store: store, Persist: true, Pause: noPause}

		// When the batch runs
		summary, err := runner.Run(context.Background(), entries, nil)

		// Then four posts are saved and one failure is reported
		require.NoError(t, err)
		assert.Equal(t, 5, summary.Total)
		assert.Equal(t, 4, summary.Successful)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, []postharvest.BatchError{{
			URL:   entries[2].URL,
			Slug:  "three",
			Error: "HTTP 500 for " + entries[2].URL,
		}}, summary.Errors)

		assert.Len(t, store.posts, 4)
		for _, slug := range []string{"one", "two", "four", "five"} {
			require.Contains(t, store.posts, slug)
			assert.Equal(t, "https://blog.bytebytego.com/p/"+slug, store.posts[slug].URL)
		}
		assert.NotContains(t, store.posts, "three")
	})

	t.Run("second run skips every stored post", func(t *testing.T) {
		t.Parallel()

		entries := entriesFor("a", "b", "c")
		store := newMemoryStore()

		first := newCountingExtractor()
		runner := &crawl.Runner{Extractor: first, Store: store, Persist: true, Pause: noPause}
		_, err := runner.Run(context.Background(), entries, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, first.calls)

		second := newCountingExtractor()
		runner.Extractor = second
		summary, err := runner.Run(context.Background(), entries, nil)

		require.NoError(t, err)
		assert.Equal(t, 0, second.calls)
		assert.Equal(t, summary.Total, summary.Successful)
		assert.Empty(t, summary.Errors)
	})

	t.Run("dry run extracts without touching the store", func(t *testing.T) {
		t.Parallel()

		extractor := newCountingExtractor()
		runner := &crawl.Runner{Extractor: extractor, Persist: false, Pause: noPause}

		var events []crawl.Progress
		summary, err := runner.Run(context.Background(), entriesFor("a", "b"), func(p crawl.Progress) {
			events = append(events, p)
		})

		require.NoError(t, err)
		assert.Equal(t, 2, summary.Successful)
		assert.Equal(t, 2, extractor.calls)
		require.Len(t, events, 2)
		assert.Equal(t, crawl.ProgressExtracted, events[0].Type)
		assert.Equal(t, 1, events[0].Position)
		assert.Equal(t, 2, events[0].Total)
	})

	t.Run("pauses between fetched posts but not after skips or the last post", func(t *testing.T) {
		t.Parallel()

		// b is already stored, c has no slug.
		entries := entriesFor("a", "b")
		entries = append(entries, postharvest.SitemapEntry{URL: "https://blog.bytebytego.com/about"})
		entries = append(entries, entriesFor("d", "e")...)

		store := newMemoryStore()
		store.posts["b"] = &postharvest.Post{URL: entries[1].URL}

		var pauses []time.Duration
		runner := &crawl.Runner{
			Extractor: newCountingExtractor(),
			Store:     store,
			Persist:   true,
			RateLimit: 2 * time.Second,
			Pause: func(_ context.Context, d time.Duration) error {
				pauses = append(pauses, d)
				return nil
			},
		}

		var types []crawl.ProgressType
		summary, err := runner.Run(context.Background(), entries, func(p crawl.Progress) {
			types = append(types, p.Type)
		})

		require.NoError(t, err)
		assert.Equal(t, []crawl.ProgressType{
			crawl.ProgressSaved,
			crawl.ProgressSkipped,
			crawl.ProgressFailed,
			crawl.ProgressSaved,
			crawl.ProgressSaved,
		}, types)
		// After a (before b) and after d (before e).
		assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, pauses)
		assert.Equal(t, 4, summary.Successful)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, "", summary.Errors[0].Slug)
	})

	t.Run("pauses after a failed fetch", func(t *testing.T) {
		t.Parallel()

		entries := entriesFor("a", "b")
		extractor := newCountingExtractor()
		extractor.fail[entries[0].URL] = postharvest.Errorf(postharvest.EFETCH, "timeout")

		var pauses int
		runner := &crawl.Runner{
			Extractor: extractor,
			RateLimit: time.Second,
			Pause: func(context.Context, time.Duration) error {
				pauses++
				return nil
			},
		}

		_, err := runner.Run(context.Background(), entries, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, pauses)
	})

	t.Run("store write failure is a post failure", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		store.WriteFn = func(context.Context, string, *postharvest.Post) error {
			return errors.New("disk full")
		}

		runner := &crawl.Runner{Extractor: newCountingExtractor(), Store: store, Persist: true, Pause: noPause}
		summary, err := runner.Run(context.Background(), entriesFor("a"), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, "disk full", summary.Errors[0].Error)
	})

	t.Run("cancellation during pause returns partial summary", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		runner := &crawl.Runner{
			Extractor: newCountingExtractor(),
			RateLimit: time.Second,
			Pause: func(ctx context.Context, _ time.Duration) error {
				cancel()
				return ctx.Err()
			},
		}

		summary, err := runner.Run(ctx, entriesFor("a", "b", "c"), nil)

		require.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, summary)
		assert.Equal(t, 3, summary.Total)
		assert.Equal(t, 1, summary.Successful)
	})

	t.Run("canceled context processes nothing", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		extractor := newCountingExtractor()
		runner := &crawl.Runner{Extractor: extractor, Pause: noPause}

		summary, err := runner.Run(ctx, entriesFor("a"), nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, extractor.calls)
		assert.Equal(t, 0, summary.Successful+summary.Failed)
	})

	t.Run("rejects persistence without a store", func(t *testing.T) {
		t.Parallel()

		runner := &crawl.Runner{Extractor: newCountingExtractor(), Persist: true}
		_, err := runner.Run(context.Background(), entriesFor("a"), nil)

		assert.Equal(t, postharvest.EINVALID, postharvest.ErrorCode(err))
	})

	t.Run("empty input yields empty summary", func(t *testing.T) {
		t.Parallel()

		runner := &crawl.Runner{Extractor: newCountingExtractor()}
		summary, err := runner.Run(context.Background(), nil, nil)

		require.NoError(t, err)
		assert.Equal(t, &postharvest.BatchSummary{Errors: []postharvest.BatchError{}}, summary)
	})

	t.Run("exists failure is recorded without fetching", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		store.ExistsFn = func(context.Context, string) (bool, error) {
			return false, fmt.Errorf("permission denied")
		}
		extractor := newCountingExtractor()

		runner := &crawl.Runner{Extractor: extractor, Store: store, Persist: true, Pause: noPause}
		summary, err := runner.Run(context.Background(), entriesFor("a"), nil)

		require.NoError(t, err)
		assert.Equal(t, 0, extractor.calls)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, "a", summary.Errors[0].Slug)
	})
}

func TestSleep(t *testing.T) {
	t.Parallel()

	t.Run("waits for the duration", func(t *testing.T) {
		t.Parallel()

		start := time.Now()
		err := crawl.Sleep(context.Background(), 20*time.Millisecond)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("returns early when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := crawl.Sleep(ctx, time.Hour)

		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})
}
