// Package prometheus instruments postharvest services with Prometheus
// metrics and exports them in the node_exporter textfile format.
package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/postharvest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "postharvest"

// Metrics holds the collectors for a batch run on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram
	StoreLookupsTotal  *prometheus.CounterVec
	StoreWritesTotal   *prometheus.CounterVec
	ContentBytes       prometheus.Histogram
	ImagesTotal        prometheus.Counter
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		ExtractionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Post extractions by result and error code.",
		}, []string{"result", "code"}),
		ExtractionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Duration of post fetch and extraction.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		StoreLookupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_lookups_total",
			Help:      "Existence checks against the post store by result.",
		}, []string{"result"}), // hit, miss, error
		StoreWritesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_writes_total",
			Help:      "Post writes by result.",
		}, []string{"result"}),
		ContentBytes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "content_text_bytes",
			Help:      "Size of extracted post body text.",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 8),
		}),
		ImagesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_total",
			Help:      "Images retained across extracted posts.",
		}),
	}
}

// WriteToTextfile writes the current metric values to path in the text
// exposition format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

// Ensure InstrumentedExtractor implements postharvest.PostExtractor.
var _ postharvest.PostExtractor = (*InstrumentedExtractor)(nil)

// InstrumentedExtractor records extraction outcomes and sizes.
type InstrumentedExtractor struct {
	next    postharvest.PostExtractor
	metrics *Metrics
}

// NewInstrumentedExtractor wraps next with metrics.
func NewInstrumentedExtractor(next postharvest.PostExtractor, m *Metrics) *InstrumentedExtractor {
	return &InstrumentedExtractor{next: next, metrics: m}
}

// Extract delegates to the wrapped extractor and records the outcome.
func (e *InstrumentedExtractor) Extract(ctx context.Context, url string) (*postharvest.Post, error) {
	begin := time.Now()
	post, err := e.next.Extract(ctx, url)
	e.metrics.ExtractionDuration.Observe(time.Since(begin).Seconds())

	if err != nil {
		e.metrics.ExtractionsTotal.WithLabelValues("failure", postharvest.ErrorCode(err)).Inc()
		return nil, err
	}
	e.metrics.ExtractionsTotal.WithLabelValues("success", "").Inc()
	if post.ContentText != nil {
		e.metrics.ContentBytes.Observe(float64(len(*post.ContentText)))
	}
	e.metrics.ImagesTotal.Add(float64(len(post.Images)))
	return post, nil
}

// Ensure InstrumentedPostStore implements postharvest.PostStore.
var _ postharvest.PostStore = (*InstrumentedPostStore)(nil)

// InstrumentedPostStore records store lookups and writes.
type InstrumentedPostStore struct {
	next    postharvest.PostStore
	metrics *Metrics
}

// NewInstrumentedPostStore wraps next with metrics.
func NewInstrumentedPostStore(next postharvest.PostStore, m *Metrics) *InstrumentedPostStore {
	return &InstrumentedPostStore{next: next, metrics: m}
}

// Exists delegates to the wrapped store and records hit or miss.
func (s *InstrumentedPostStore) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := s.next.Exists(ctx, key)
	switch {
	case err != nil:
		s.metrics.StoreLookupsTotal.WithLabelValues("error").Inc()
	case exists:
		s.metrics.StoreLookupsTotal.WithLabelValues("hit").Inc()
	default:
		s.metrics.StoreLookupsTotal.WithLabelValues("miss").Inc()
	}
	return exists, err
}

// Write delegates to the wrapped store and records the result.
func (s *InstrumentedPostStore) Write(ctx context.Context, key string, post *postharvest.Post) error {
	err := s.next.Write(ctx, key, post)
	if err != nil {
		s.metrics.StoreWritesTotal.WithLabelValues("failure").Inc()
		return err
	}
	s.metrics.StoreWritesTotal.WithLabelValues("success").Inc()
	return nil
}
