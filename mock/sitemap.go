package mock

import (
	"context"

	"github.com/fwojciec/postharvest"
)

var _ postharvest.SitemapCollector = (*SitemapCollector)(nil)

// SitemapCollector is a mock implementation of postharvest.SitemapCollector.
type SitemapCollector struct {
	CollectFn func(ctx context.Context, years []int) ([]postharvest.SitemapEntry, error)
}

func (c *SitemapCollector) Collect(ctx context.Context, years []int) ([]postharvest.SitemapEntry, error) {
	return c.CollectFn(ctx, years)
}

var _ postharvest.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of postharvest.ReportWriter.
type ReportWriter struct {
	WriteEntriesFn func(ctx context.Context, entries []postharvest.SitemapEntry) error
	WriteSummaryFn func(ctx context.Context, summary *postharvest.BatchSummary) error
}

func (w *ReportWriter) WriteEntries(ctx context.Context, entries []postharvest.SitemapEntry) error {
	return w.WriteEntriesFn(ctx, entries)
}

func (w *ReportWriter) WriteSummary(ctx context.Context, summary *postharvest.BatchSummary) error {
	return w.WriteSummaryFn(ctx, summary)
}
