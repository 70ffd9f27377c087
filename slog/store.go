package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postharvest"
)

// Ensure LoggingPostStore implements postharvest.PostStore.
var _ postharvest.PostStore = (*LoggingPostStore)(nil)

// LoggingPostStore wraps a PostStore with debug logging.
type LoggingPostStore struct {
	next   postharvest.PostStore
	logger *slog.Logger
}

// NewLoggingPostStore creates a new LoggingPostStore.
func NewLoggingPostStore(next postharvest.PostStore, logger *slog.Logger) *LoggingPostStore {
	return &LoggingPostStore{next: next, logger: logger}
}

// Exists delegates to the wrapped store and logs the lookup.
func (s *LoggingPostStore) Exists(ctx context.Context, key string) (exists bool, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("post exists",
			"key", key,
			"exists", exists,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Exists(ctx, key)
}

// Write delegates to the wrapped store and logs the write.
func (s *LoggingPostStore) Write(ctx context.Context, key string, post *postharvest.Post) (err error) {
	defer func(begin time.Time) {
		var url string
		if post != nil {
			url = post.URL
		}
		s.logger.Info("post write",
			"key", key,
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Write(ctx, key, post)
}
