package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postharvest"
)

// Ensure LoggingExtractor implements postharvest.PostExtractor.
var _ postharvest.PostExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a PostExtractor with debug logging.
type LoggingExtractor struct {
	next   postharvest.PostExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next postharvest.PostExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs what was found.
func (e *LoggingExtractor) Extract(ctx context.Context, url string) (post *postharvest.Post, err error) {
	defer func(begin time.Time) {
		var chars, images, snippets int
		if post != nil {
			if post.ContentText != nil {
				chars = len(*post.ContentText)
			}
			images = len(post.Images)
			snippets = len(post.CodeSnippets)
		}
		e.logger.Info("extract",
			"url", url,
			"chars", chars,
			"images", images,
			"snippets", snippets,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, url)
}
