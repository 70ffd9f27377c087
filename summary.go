package postharvest

import "context"

// BatchSummary is the outcome of a batch run.
type BatchSummary struct {
	Total      int          `json:"total"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Errors     []BatchError `json:"errors"`
}

// BatchError records a single post failure.
type BatchError struct {
	URL   string `json:"url"`
	Slug  string `json:"slug"`
	Error string `json:"error"`
}

// SuccessRate returns the percentage of successful entries, or 0 for an
// empty run.
func (s *BatchSummary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Total) * 100
}

// ReportWriter persists run artifacts alongside the posts.
type ReportWriter interface {
	// WriteEntries stores the discovered URL list.
	WriteEntries(ctx context.Context, entries []SitemapEntry) error

	// WriteSummary stores the run summary.
	WriteSummary(ctx context.Context, summary *BatchSummary) error
}

// Archive reads back what earlier runs persisted.
type Archive interface {
	// ReadPost returns the post stored under key. Returns ENOTFOUND if absent.
	ReadPost(ctx context.Context, key string) (*Post, error)

	// PostKeys lists stored post keys in ascending order. A limit of 0
	// means no limit.
	PostKeys(ctx context.Context, limit, offset int) ([]string, error)

	// ReadEntries returns the last stored URL list, empty if none was saved.
	ReadEntries(ctx context.Context) ([]SitemapEntry, error)

	// LatestSummary returns the most recent run summary. Returns ENOTFOUND
	// if no run has been recorded.
	LatestSummary(ctx context.Context) (*BatchSummary, error)
}
