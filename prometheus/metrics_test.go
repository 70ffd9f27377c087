package prometheus_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/postharvest"
	"github.com/fwojciec/postharvest/mock"
	phprom "github.com/fwojciec/postharvest/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedExtractor(t *testing.T) {
	t.Parallel()

	m := phprom.NewMetrics()
	inner := &mock.PostExtractor{
		ExtractFn: func(_ context.Context, url string) (*postharvest.Post, error) {
			if url == "https://blog.bytebytego.com/p/bad" {
				return nil, postharvest.Errorf(postharvest.EFETCH, "HTTP 500")
			}
			return &postharvest.Post{
				URL:         url,
				ContentText: postharvest.String("text"),
				Images:      []postharvest.Image{{}, {}, {}},
			}, nil
		},
	}
	e := phprom.NewInstrumentedExtractor(inner, m)

	_, err := e.Extract(context.Background(), "https://blog.bytebytego.com/p/good")
	require.NoError(t, err)
	_, err = e.Extract(context.Background(), "https://blog.bytebytego.com/p/good-again")
	require.NoError(t, err)
	_, err = e.Extract(context.Background(), "https://blog.bytebytego.com/p/bad")
	require.Error(t, err)

	assert.InDelta(t, 2, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("success", "")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("failure", postharvest.EFETCH)), 0)
	assert.InDelta(t, 6, testutil.ToFloat64(m.ImagesTotal), 0)
}

func TestInstrumentedPostStore(t *testing.T) {
	t.Parallel()

	m := phprom.NewMetrics()
	inner := &mock.PostStore{
		ExistsFn: func(_ context.Context, key string) (bool, error) {
			switch key {
			case "stored":
				return true, nil
			case "broken":
				return false, errors.New("io error")
			}
			return false, nil
		},
		WriteFn: func(context.Context, string, *postharvest.Post) error { return nil },
	}
	s := phprom.NewInstrumentedPostStore(inner, m)
	ctx := context.Background()

	_, _ = s.Exists(ctx, "stored")
	_, _ = s.Exists(ctx, "new")
	_, _ = s.Exists(ctx, "broken")
	require.NoError(t, s.Write(ctx, "new", &postharvest.Post{URL: "https://blog.bytebytego.com/p/new"}))

	assert.InDelta(t, 1, testutil.ToFloat64(m.StoreLookupsTotal.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.StoreLookupsTotal.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.StoreLookupsTotal.WithLabelValues("error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.StoreWritesTotal.WithLabelValues("success")), 0)
}

func TestMetrics_WriteToTextfile(t *testing.T) {
	t.Parallel()

	m := phprom.NewMetrics()
	m.StoreWritesTotal.WithLabelValues("success").Add(3)

	path := filepath.Join(t.TempDir(), "postharvest.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `postharvest_store_writes_total{result="success"} 3`)
}
