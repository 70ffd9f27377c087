// Package crawl orchestrates post discovery and batch extraction. It
// collects post entries from year-partitioned sitemap pages and runs the
// extractor over them sequentially with resumability, pacing and failure
// accounting.
package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/postharvest"
)

// DefaultRateLimit is the pause between posts that reached the network.
const DefaultRateLimit = time.Second

// Runner processes sitemap entries one at a time.
type Runner struct {
	Extractor postharvest.PostExtractor

	// Store is consulted for existing posts and receives extracted ones
	// when Persist is set.
	Store   postharvest.PostStore
	Persist bool

	// RateLimit is the pause after each post that reached the network,
	// before the next one starts.
	RateLimit time.Duration

	// Pause waits for d or until ctx is done. Defaults to Sleep.
	Pause func(ctx context.Context, d time.Duration) error
}

// Progress reports the outcome of a single entry.
type Progress struct {
	Type     ProgressType
	Position int // 1-based
	Total    int
	URL      string
	Slug     string
	Bytes    int // length of the extracted content text
	Images   int
	Err      error
}

// ProgressType indicates the outcome of an entry.
type ProgressType int

const (
	// ProgressSkipped means the post was already stored and not fetched.
	ProgressSkipped ProgressType = iota
	// ProgressSaved means the post was extracted and written.
	ProgressSaved
	// ProgressExtracted means the post was extracted without persisting.
	ProgressExtracted
	// ProgressFailed means the entry was recorded as an error.
	ProgressFailed
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(Progress)

// Run processes entries in order and returns the batch summary. A failing
// entry is recorded and never stops the batch. If ctx is canceled the
// summary so far is returned together with the context's error.
func (r *Runner) Run(ctx context.Context, entries []postharvest.SitemapEntry, progress ProgressFunc) (*postharvest.BatchSummary, error) {
	if r.Persist && r.Store == nil {
		return nil, postharvest.Errorf(postharvest.EINVALID, "persistence enabled without a store")
	}
	if r.RateLimit < 0 {
		return nil, postharvest.Errorf(postharvest.EINVALID, "rate limit must not be negative")
	}

	pause := r.Pause
	if pause == nil {
		pause = Sleep
	}

	summary := &postharvest.BatchSummary{
		Total:  len(entries),
		Errors: []postharvest.BatchError{},
	}
	report := func(p Progress) {
		if progress != nil {
			p.Total = len(entries)
			progress(p)
		}
	}

	var pending bool
	for i, entry := range entries {
		if pending && r.RateLimit > 0 {
			if err := pause(ctx, r.RateLimit); err != nil {
				return summary, err
			}
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res := r.process(ctx, entry.URL)
		pending = res.fetched

		if res.err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			summary.Failed++
			summary.Errors = append(summary.Errors, postharvest.BatchError{
				URL:   entry.URL,
				Slug:  res.slug,
				Error: res.err.Error(),
			})
			report(Progress{Type: ProgressFailed, Position: i + 1, URL: entry.URL, Slug: res.slug, Err: res.err})
			continue
		}

		summary.Successful++
		p := Progress{Type: res.outcome, Position: i + 1, URL: entry.URL, Slug: res.slug}
		if res.post != nil {
			if res.post.ContentText != nil {
				p.Bytes = len(*res.post.ContentText)
			}
			p.Images = len(res.post.Images)
		}
		report(p)
	}

	return summary, nil
}

type entryResult struct {
	slug    string
	post    *postharvest.Post
	outcome ProgressType
	fetched bool
	err     error
}

func (r *Runner) process(ctx context.Context, url string) entryResult {
	slug, err := postharvest.Slug(url)
	if err != nil {
		return entryResult{err: err}
	}
	res := entryResult{slug: slug}

	if r.Persist {
		exists, err := r.Store.Exists(ctx, slug)
		if err != nil {
			res.err = err
			return res
		}
		if exists {
			res.outcome = ProgressSkipped
			return res
		}
	}

	res.fetched = true
	post, err := r.Extractor.Extract(ctx, url)
	if err != nil {
		res.err = err
		return res
	}
	res.post = post

	if !r.Persist {
		res.outcome = ProgressExtracted
		return res
	}
	if err := r.Store.Write(ctx, slug, post); err != nil {
		res.err = err
		return res
	}
	res.outcome = ProgressSaved
	return res
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
