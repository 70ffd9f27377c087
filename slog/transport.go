package slog

import (
	"log/slog"
	"net/http"
	"time"
)

// Ensure LoggingTransport implements http.RoundTripper.
var _ http.RoundTripper = (*LoggingTransport)(nil)

// LoggingTransport logs every request made through an http.Client, for
// components that talk HTTP directly rather than through a Fetcher.
type LoggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewLoggingTransport wraps next. If next is nil, http.DefaultTransport is
// used.
func NewLoggingTransport(next http.RoundTripper, logger *slog.Logger) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingTransport{next: next, logger: logger}
}

// RoundTrip delegates to the wrapped transport and logs the exchange.
func (t *LoggingTransport) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	defer func(begin time.Time) {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.logger.Info("http request",
			"method", req.Method,
			"url", req.URL.String(),
			"status", status,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.RoundTrip(req)
}
