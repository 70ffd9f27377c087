package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/postharvest"
	"github.com/fwojciec/postharvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostStore_ImplementsInterface(t *testing.T) {
	t.Parallel()

	// Verify mock can be used where PostStore is expected
	var _ postharvest.PostStore = &mock.PostStore{}
}

func TestPostStore_Write(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteFn", func(t *testing.T) {
		t.Parallel()

		var gotKey string
		var gotPost *postharvest.Post
		s := &mock.PostStore{
			WriteFn: func(_ context.Context, key string, post *postharvest.Post) error {
				gotKey = key
				gotPost = post
				return nil
			},
		}

		post := &postharvest.Post{
			URL:   "https://blog.bytebytego.com/p/test-post",
			Title: postharvest.String("Test Post"),
		}

		err := s.Write(context.Background(), "test-post", post)

		require.NoError(t, err)
		assert.Equal(t, "test-post", gotKey)
		assert.Equal(t, post, gotPost)
	})
}
