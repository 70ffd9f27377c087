package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postharvest"
)

// Ensure LoggingCollector implements postharvest.SitemapCollector.
var _ postharvest.SitemapCollector = (*LoggingCollector)(nil)

// LoggingCollector wraps a SitemapCollector with debug logging.
type LoggingCollector struct {
	next   postharvest.SitemapCollector
	logger *slog.Logger
}

// NewLoggingCollector creates a new LoggingCollector.
func NewLoggingCollector(next postharvest.SitemapCollector, logger *slog.Logger) *LoggingCollector {
	return &LoggingCollector{next: next, logger: logger}
}

// Collect delegates to the wrapped collector and logs the operation.
func (c *LoggingCollector) Collect(ctx context.Context, years []int) (entries []postharvest.SitemapEntry, err error) {
	defer func(begin time.Time) {
		c.logger.Info("sitemap collection",
			"years", years,
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Collect(ctx, years)
}
